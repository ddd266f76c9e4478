package ports

import "go.trai.ch/modsync/internal/core/domain"

// ConfigLoader defines the interface for loading the project configuration file.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration file found in cwd.
	// It returns nil without error when no file exists.
	Load(cwd string) (*domain.RunConfiguration, error)
}
