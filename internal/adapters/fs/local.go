// Package fs implements the filesystem port on the local disk.
package fs

import (
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"io"
	iofs "io/fs"
	"os"

	"go.trai.ch/modsync/internal/core/domain"
	"go.trai.ch/modsync/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Filesystem = (*Local)(nil)

// Local implements ports.Filesystem with the os package.
type Local struct{}

// NewLocal creates a new Local filesystem.
func NewLocal() *Local {
	return &Local{}
}

// MkdirAll creates path and any missing parents with domain.DirPerm.
func (l *Local) MkdirAll(path string) error {
	if err := os.MkdirAll(path, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create directory"), "path", path)
	}
	return nil
}

// Rename moves oldpath to newpath. On the same volume this is atomic.
func (l *Local) Rename(oldpath, newpath string) error {
	if err := os.Rename(oldpath, newpath); err != nil {
		err = zerr.With(zerr.Wrap(err, "failed to rename file"), "from", oldpath)
		return zerr.With(err, "to", newpath)
	}
	return nil
}

// Remove deletes path. A missing path is not an error.
func (l *Local) Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, iofs.ErrNotExist) {
		return zerr.With(zerr.Wrap(err, "failed to remove file"), "path", path)
	}
	return nil
}

// Exists reports whether path exists.
func (l *Local) Exists(path string) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return false, nil
		}
		return false, zerr.With(zerr.Wrap(err, "failed to stat file"), "path", path)
	}
	return true, nil
}

// Digest computes the hex-encoded SHA-512 of a file's content.
func (l *Local) Digest(path string) (string, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := sha512.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to hash file content"), "path", path)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}
