package ports

import "go.trai.ch/modsync/internal/core/domain"

// InventoryScanner lists the tracked files installed in a directory.
//
//go:generate mockgen -source=inventory.go -destination=mocks/mock_inventory.go -package=mocks
type InventoryScanner interface {
	// Scan returns the installed artifacts found directly inside dir, sorted by filename.
	Scan(dir string) ([]domain.InstalledArtifact, error)
}
