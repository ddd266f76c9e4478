// Package app implements the application layer for modsync.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/modsync/internal/adapters/journal"
	"go.trai.ch/modsync/internal/adapters/linear"
	"go.trai.ch/modsync/internal/adapters/telemetry"
	"go.trai.ch/modsync/internal/core/domain"
	"go.trai.ch/modsync/internal/core/ports"
	"go.trai.ch/modsync/internal/engine/reconciler"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	catalog      ports.Catalog
	scanner      ports.InventoryScanner
	fs           ports.Filesystem
	engine       *reconciler.Engine
	logger       ports.Logger
	stdout       io.Writer
	journalOpts  []journal.Option
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	catalog ports.Catalog,
	scanner ports.InventoryScanner,
	fs ports.Filesystem,
	engine *reconciler.Engine,
	log ports.Logger,
) *App {
	return &App{
		configLoader: loader,
		catalog:      catalog,
		scanner:      scanner,
		fs:           fs,
		engine:       engine,
		logger:       log,
		stdout:       os.Stdout,
	}
}

// WithOutput redirects the outcome report. Used for testing.
func (a *App) WithOutput(w io.Writer) *App {
	a.stdout = w
	return a
}

// WithJournalOptions configures the journal created for every run. Used for testing.
func (a *App) WithJournalOptions(opts ...journal.Option) *App {
	a.journalOpts = append(a.journalOpts, opts...)
	return a
}

// SyncOptions configuration for the Sync method.
type SyncOptions struct {
	// Overrides are applied on top of the configuration file. Zero fields are ignored.
	Overrides domain.RunConfiguration
	// ConfigPath is the directory to search for modsync.yaml, or the file itself.
	ConfigPath string
	NoJournal  bool
	Verbose    bool
	JSONLog    bool
}

// jsonSwitcher is implemented by loggers that can emit JSON.
type jsonSwitcher interface {
	SetJSON(enable bool)
}

// Sync reconciles the managed directory against the catalog and reports the tally.
// Identity-level failures are part of the summary; only failures that prevent
// the run from starting are returned as errors.
func (a *App) Sync(ctx context.Context, opts SyncOptions) (domain.Summary, error) {
	if opts.JSONLog {
		if l, ok := a.logger.(jsonSwitcher); ok {
			l.SetJSON(true)
		}
	}

	// 1. Resolve configuration
	cfg, err := a.resolveConfiguration(opts)
	if err != nil {
		return domain.Summary{}, err
	}

	// 2. Prepare the managed directory
	if err := a.ensureDirectory(cfg.Directory); err != nil {
		return domain.Summary{}, zerr.With(zerr.Wrap(err, domain.ErrDirectoryCreateFailed.Error()), "directory", cfg.Directory)
	}

	// 3. Resolve tracked identities
	identities, err := a.identities(ctx, cfg.Scope)
	if err != nil {
		return domain.Summary{}, err
	}

	// 4. Snapshot the installed files
	snapshot, err := a.scanner.Scan(cfg.Directory)
	if err != nil {
		return domain.Summary{}, err
	}

	// 5. Tracing
	if opts.Verbose {
		tp := setupOTel(telemetry.NewBridge(a.logger))
		defer func() {
			_ = tp.Shutdown(context.WithoutCancel(ctx))
		}()
	}

	// 6. Reporters
	reporters := []ports.Reporter{linear.NewReporter(a.stdout)}
	if !opts.NoJournal {
		dir := filepath.Join(cfg.Directory, domain.DefaultJournalPath())
		reporters = append(reporters, journal.New(dir, a.logger, a.journalOpts...))
	}

	a.logger.Info(fmt.Sprintf("syncing %d project(s) into %s for %s %s",
		len(identities), cfg.Directory, cfg.Platform, versionLabel(cfg)))

	summary := a.engine.Run(ctx, cfg, identities, snapshot, reporters...)

	if err := ctx.Err(); err != nil {
		return summary, errors.Join(domain.ErrSyncFailed, err)
	}
	return summary, nil
}

func (a *App) resolveConfiguration(opts SyncOptions) (domain.RunConfiguration, error) {
	path := opts.ConfigPath
	if path == "" {
		path = "."
	}

	fileCfg, err := a.configLoader.Load(path)
	if err != nil {
		return domain.RunConfiguration{}, err
	}

	cfg := merge(fileCfg, opts.Overrides).WithDefaults()
	if err := cfg.Validate(); err != nil {
		return domain.RunConfiguration{}, err
	}

	if cfg.Scope.Collection != "" && len(cfg.Scope.Projects) > 0 {
		a.logger.Warn(fmt.Sprintf("collection %s takes precedence, ignoring %d listed project(s)",
			cfg.Scope.Collection, len(cfg.Scope.Projects)))
	}
	return cfg, nil
}

func (a *App) ensureDirectory(dir string) error {
	exists, err := a.fs.Exists(dir)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	a.logger.Info("creating directory " + dir)
	return a.fs.MkdirAll(dir)
}

func (a *App) identities(ctx context.Context, scope domain.Scope) ([]domain.Identity, error) {
	if scope.Collection == "" {
		return scope.Projects, nil
	}

	members, err := a.catalog.CollectionMembers(ctx, scope.Collection)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCollectionLookupFailed.Error()), "collection", scope.Collection)
	}
	if len(members) == 0 {
		a.logger.Warn(fmt.Sprintf("collection %s has no projects", scope.Collection))
	}
	return members, nil
}

// merge layers non-zero override fields over the file configuration.
func merge(file *domain.RunConfiguration, over domain.RunConfiguration) domain.RunConfiguration {
	var cfg domain.RunConfiguration
	if file != nil {
		cfg = *file
	}

	if over.Platform != "" {
		cfg.Platform = over.Platform
	}
	if over.Version != "" {
		cfg.Version = over.Version
	}
	if over.Directory != "" {
		cfg.Directory = over.Directory
	}
	if over.Concurrency != 0 {
		cfg.Concurrency = over.Concurrency
	}
	if over.Kind != "" {
		cfg.Kind = over.Kind
	}
	if !over.Scope.Empty() {
		cfg.Scope = over.Scope
	}
	return cfg
}

func versionLabel(cfg domain.RunConfiguration) string {
	if cfg.AutoVersion() {
		return "(newest version)"
	}
	return cfg.Version
}

// setupOTel registers a global TracerProvider that forwards finished spans to the bridge.
func setupOTel(bridge *telemetry.Bridge) *sdktrace.TracerProvider {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(bridge),
	)

	// Register it as the global provider.
	otel.SetTracerProvider(tp)
	return tp
}
