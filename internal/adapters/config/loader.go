// Package config provides the configuration loader for modsync.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/modsync/internal/core/domain"
	"go.trai.ch/modsync/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// supportedFileVersion is the only modsync.yaml format version understood.
const supportedFileVersion = "1"

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load searches cwd and its parents for modsync.yaml and decodes the nearest one.
// A cwd naming a regular file is read directly.
// It returns nil without error when no file is found.
func (l *Loader) Load(cwd string) (*domain.RunConfiguration, error) {
	configPath, ok := findConfiguration(cwd)
	if !ok {
		return nil, nil
	}

	var file Modsyncfile
	if err := readAndUnmarshalYAML(configPath, &file); err != nil {
		return nil, zerr.With(err, "path", configPath)
	}

	if file.Version != "" && file.Version != supportedFileVersion {
		l.Logger.Warn(fmt.Sprintf("unknown version %q in %s, reading it as version %s",
			file.Version, domain.ConfigFileName, supportedFileVersion))
	}

	projects := make([]domain.Identity, 0, len(file.Projects))
	for _, p := range file.Projects {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		projects = append(projects, domain.Identity(p))
	}

	cfg := &domain.RunConfiguration{
		Platform:    strings.TrimSpace(file.Platform),
		Version:     strings.TrimSpace(file.GameVersion),
		Directory:   resolveDirectory(configPath, file.Directory),
		Concurrency: file.Concurrency,
		Kind:        domain.ArtifactKind(strings.ToLower(strings.TrimSpace(file.Kind))),
		Scope: domain.Scope{
			Collection: strings.TrimSpace(file.Collection),
			Projects:   projects,
		},
	}
	return cfg, nil
}

func findConfiguration(cwd string) (string, bool) {
	if info, err := os.Stat(cwd); err == nil && info.Mode().IsRegular() {
		return cwd, true
	}

	currentDir := cwd
	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			return "", false
		}
		currentDir = parentDir
	}
}

// resolveDirectory makes a configured directory relative to the config file.
func resolveDirectory(configPath, configured string) string {
	if configured == "" {
		return ""
	}
	if filepath.IsAbs(configured) {
		return filepath.Clean(configured)
	}
	return filepath.Clean(filepath.Join(filepath.Dir(configPath), configured))
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target struct.
func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is found by walking up from the working directory
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	if parseErr := yaml.Unmarshal(configFile, target); parseErr != nil {
		return zerr.Wrap(parseErr, domain.ErrConfigParseFailed.Error())
	}

	return nil
}
