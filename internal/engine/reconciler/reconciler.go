// Package reconciler converges installed files to their desired releases.
package reconciler

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.trai.ch/modsync/internal/core/domain"
	"go.trai.ch/modsync/internal/core/ports"
	"go.trai.ch/zerr"
)

// Engine applies desired artifacts to a managed directory.
type Engine struct {
	catalog ports.Catalog
	fs      ports.Filesystem
	logger  ports.Logger
	tracer  ports.Tracer
}

// New creates a new Engine with the given dependencies.
func New(catalog ports.Catalog, fs ports.Filesystem, logger ports.Logger, tracer ports.Tracer) *Engine {
	return &Engine{
		catalog: catalog,
		fs:      fs,
		logger:  logger,
		tracer:  tracer,
	}
}

// Reconcile moves one identity in dir from installed to desired.
//
// A nil desired leaves everything untouched and is unresolved. A matching
// installed filename is already current. Otherwise the file is fetched next to
// its target, verified, and renamed into place; only then is the old file
// removed. Any failure before the rename removes the partial download and
// leaves the installed file as it was.
func (e *Engine) Reconcile(
	ctx context.Context,
	dir string,
	id domain.Identity,
	installed *domain.InstalledArtifact,
	desired *domain.DesiredArtifact,
) domain.Outcome {
	if desired == nil {
		return unresolved(id, installed, zerr.With(domain.ErrNoCompatibleRelease, "identity", id.String()))
	}

	if installed != nil && installed.Filename == desired.TargetFilename {
		return domain.Outcome{
			Kind:     domain.OutcomeAlreadyCurrent,
			Identity: id,
			Filename: installed.Filename,
		}
	}

	target := filepath.Join(dir, desired.TargetFilename)
	tmp := domain.TempFilename(target)

	if err := e.fetch(ctx, desired.File, tmp); err != nil {
		e.discard(tmp)
		return unresolved(id, installed, err)
	}

	if err := e.fs.Rename(tmp, target); err != nil {
		e.discard(tmp)
		err = zerr.With(zerr.Wrap(err, domain.ErrReplaceFailed.Error()), "file", desired.TargetFilename)
		return unresolved(id, installed, err)
	}

	if installed == nil {
		return domain.Outcome{
			Kind:     domain.OutcomeDownloaded,
			Identity: id,
			Filename: desired.TargetFilename,
		}
	}

	// The new file is in place; a leftover old file is reported but does not undo the update.
	if err := e.fs.Remove(filepath.Join(dir, installed.Filename)); err != nil {
		e.logger.Warn(fmt.Sprintf("failed to remove previous file %s: %v", installed.Filename, err))
	}

	return domain.Outcome{
		Kind:     domain.OutcomeUpdated,
		Identity: id,
		Filename: desired.TargetFilename,
		Previous: installed.Filename,
	}
}

func (e *Engine) fetch(ctx context.Context, file domain.FileDescriptor, dest string) error {
	if err := e.catalog.FetchFile(ctx, file.URL, dest); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrTransferFailed.Error()), "url", file.URL)
	}

	if file.SHA512 == "" {
		return nil
	}

	actual, err := e.fs.Digest(dest)
	if err != nil {
		return zerr.Wrap(err, domain.ErrTransferFailed.Error())
	}
	if !strings.EqualFold(actual, file.SHA512) {
		mismatch := zerr.With(domain.ErrChecksumMismatch, "file", file.Filename)
		mismatch = zerr.With(mismatch, "expected", file.SHA512)
		return zerr.With(mismatch, "actual", actual)
	}
	return nil
}

func (e *Engine) discard(tmp string) {
	if err := e.fs.Remove(tmp); err != nil {
		e.logger.Warn(fmt.Sprintf("failed to remove partial download %s: %v", filepath.Base(tmp), err))
	}
}

func unresolved(id domain.Identity, installed *domain.InstalledArtifact, err error) domain.Outcome {
	out := domain.Outcome{
		Kind:     domain.OutcomeUnresolved,
		Identity: id,
		Err:      err,
	}
	if installed != nil {
		out.Filename = installed.Filename
	}
	return out
}
