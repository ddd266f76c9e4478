// Package inventory lists the tracked files installed in a managed directory.
package inventory

import (
	"fmt"
	"os"
	"sort"

	"go.trai.ch/modsync/internal/core/domain"
	"go.trai.ch/modsync/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.InventoryScanner = (*Scanner)(nil)

// Scanner implements ports.InventoryScanner by reading a single directory level.
type Scanner struct {
	logger ports.Logger
}

// NewScanner creates a new Scanner.
func NewScanner(logger ports.Logger) *Scanner {
	return &Scanner{logger: logger}
}

// Scan returns every regular entry of dir whose name encodes an identity.
// Subdirectories and partial downloads are skipped; names without an identity
// are skipped with a warning.
func (s *Scanner) Scan(dir string) ([]domain.InstalledArtifact, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrInventoryScanFailed.Error()), "dir", dir)
	}

	artifacts := make([]domain.InstalledArtifact, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if domain.IsTempFilename(name) {
			continue
		}

		id, ok := domain.ParseIdentity(name)
		if !ok {
			s.logger.Warn(fmt.Sprintf("skipping file with unexpected name format: %s", name))
			continue
		}

		artifacts = append(artifacts, domain.InstalledArtifact{Identity: id, Filename: name})
	}

	sort.Slice(artifacts, func(i, j int) bool {
		return artifacts[i].Filename < artifacts[j].Filename
	})

	return artifacts, nil
}
