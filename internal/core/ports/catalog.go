package ports

import (
	"context"

	"go.trai.ch/modsync/internal/core/domain"
)

// Catalog is the remote source of projects, releases and release files.
//
//go:generate mockgen -source=catalog.go -destination=mocks/mock_catalog.go -package=mocks
type Catalog interface {
	// Releases lists the published releases of a project in catalog order.
	// Malformed entries are dropped by the implementation.
	Releases(ctx context.Context, id domain.Identity) ([]domain.Release, error)

	// CollectionMembers lists the identities grouped under a collection.
	CollectionMembers(ctx context.Context, collection string) ([]domain.Identity, error)

	// NewestVersion returns the newest stable target version known to the catalog.
	NewestVersion(ctx context.Context) (string, error)

	// ProjectTitle returns the human-readable name of a project.
	ProjectTitle(ctx context.Context, id domain.Identity) (string, error)

	// FetchFile downloads url and writes the body to dest, creating or truncating it.
	FetchFile(ctx context.Context, url, dest string) error
}
