package ports

// Filesystem is the set of file operations the apply engine mutates state with.
//
//go:generate mockgen -source=filesystem.go -destination=mocks/mock_filesystem.go -package=mocks
type Filesystem interface {
	// MkdirAll creates path and any missing parents.
	MkdirAll(path string) error

	// Rename atomically moves oldpath to newpath, replacing newpath if present.
	Rename(oldpath, newpath string) error

	// Remove deletes path. A missing path is not an error.
	Remove(path string) error

	// Exists reports whether path exists.
	Exists(path string) (bool, error)

	// Digest returns the hex-encoded SHA-512 of the file at path.
	Digest(path string) (string, error)
}
