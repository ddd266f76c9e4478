package reconciler

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"go.trai.ch/modsync/internal/core/domain"
	"go.trai.ch/modsync/internal/core/ports"
	"go.trai.ch/modsync/internal/engine/selector"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Span attribute keys set on every identity span.
const (
	AttrIdentity = "modsync.identity"
	AttrOutcome  = "modsync.outcome"
	AttrFile     = "modsync.file"
	AttrTier     = "modsync.tier"
)

// Run reconciles every identity against snapshot with at most cfg.Concurrency
// identities in flight. Each identity produces exactly one event on every
// reporter; the summary is reported once all of them finished.
//
// Cancelling ctx stops scheduling further identities. Identities already in
// flight still report.
func (e *Engine) Run(
	ctx context.Context,
	cfg domain.RunConfiguration,
	identities []domain.Identity,
	snapshot []domain.InstalledArtifact,
	reporters ...ports.Reporter,
) domain.Summary {
	cfg = cfg.WithDefaults()
	index := indexSnapshot(snapshot)

	state := &runState{
		engine:    e,
		cfg:       cfg,
		reporters: reporters,
		newest: sync.OnceValue(func() string {
			return e.resolveNewest(ctx)
		}),
	}

	g := new(errgroup.Group)
	g.SetLimit(cfg.Concurrency)

	for _, id := range dedupe(identities) {
		if ctx.Err() != nil {
			e.logger.Warn(fmt.Sprintf("run cancelled, %s and later identities were not processed", id))
			break
		}
		installed := index[id]
		g.Go(func() error {
			state.process(ctx, id, installed)
			return nil
		})
	}
	_ = g.Wait()

	summary := state.counters.Snapshot()
	for _, r := range reporters {
		r.OnSummary(summary)
	}
	return summary
}

// resolveNewest asks the catalog for the newest version. Failure is logged and
// leaves only the platform-only tier available.
func (e *Engine) resolveNewest(ctx context.Context) string {
	v, err := e.catalog.NewestVersion(ctx)
	if err != nil {
		e.logger.Warn(fmt.Sprintf("could not determine the newest game version, falling back to platform-only selection: %v", err))
		return ""
	}
	return v
}

type runState struct {
	engine    *Engine
	cfg       domain.RunConfiguration
	reporters []ports.Reporter
	newest    func() string
	counters  domain.OutcomeCounters
}

func (s *runState) process(ctx context.Context, id domain.Identity, installed []domain.InstalledArtifact) {
	s.counters.MarkChecked()

	ctx, span := s.engine.tracer.Start(ctx, id.String())
	defer span.End()

	event := s.safeResolve(ctx, id, installed)
	s.counters.Record(event.Kind)

	span.SetAttribute(AttrIdentity, id.String())
	span.SetAttribute(AttrOutcome, string(event.Kind))
	span.SetAttribute(AttrFile, event.Filename)
	span.SetAttribute(AttrTier, event.Tier)
	if event.Err != nil {
		span.RecordError(event.Err)
	}

	for _, r := range s.reporters {
		r.OnOutcome(event)
	}
}

// safeResolve contains panics to the identity that raised them.
func (s *runState) safeResolve(
	ctx context.Context,
	id domain.Identity,
	installed []domain.InstalledArtifact,
) (event domain.OutcomeEvent) {
	defer func() {
		if r := recover(); r != nil {
			err := zerr.With(domain.ErrUnexpectedPanic, "identity", id.String())
			err = zerr.With(err, "panic", fmt.Sprint(r))
			s.engine.logger.Error(err)
			event = domain.OutcomeEvent{
				Outcome:  domain.Outcome{Kind: domain.OutcomeUnresolved, Identity: id, Err: err},
				Title:    id.String(),
				Version:  s.cfg.Version,
				Platform: s.cfg.Platform,
			}
		}
	}()
	return s.resolve(ctx, id, installed)
}

func (s *runState) resolve(
	ctx context.Context,
	id domain.Identity,
	installed []domain.InstalledArtifact,
) domain.OutcomeEvent {
	e := s.engine
	if !id.Valid() {
		return domain.OutcomeEvent{
			Outcome:  unresolved(id, nil, zerr.With(domain.ErrInvalidIdentity, "identity", id.String())),
			Title:    id.String(),
			Version:  s.cfg.Version,
			Platform: s.cfg.Platform,
		}
	}

	version := s.cfg.Version
	newest := ""
	if s.cfg.AutoVersion() {
		newest = s.newest()
		version = newest
	}

	event := domain.OutcomeEvent{
		Title:    e.title(ctx, id),
		Version:  version,
		Platform: s.cfg.Platform,
	}

	releases, err := e.catalog.Releases(ctx, id)
	if err != nil {
		event.Outcome = unresolved(id, current(installed, ""), zerr.With(err, "identity", id.String()))
		return event
	}

	desired, err := selector.Desire(id, releases, s.cfg.Kind, s.cfg.Platform, s.cfg.Version, newest)
	if err != nil {
		event.Outcome = unresolved(id, current(installed, ""), err)
		return event
	}
	event.Tier = desired.Tier

	event.Outcome = e.Reconcile(ctx, s.cfg.Directory, id, current(installed, desired.TargetFilename), &desired)
	if event.Kind != domain.OutcomeUnresolved {
		e.prune(s.cfg.Directory, installed, event.Outcome)
	}
	return event
}

func (e *Engine) title(ctx context.Context, id domain.Identity) string {
	title, err := e.catalog.ProjectTitle(ctx, id)
	if err != nil || title == "" {
		return id.String()
	}
	return title
}

// prune removes installed files that map to the same identity as the one the
// outcome converged to, keeping at most one file per identity.
func (e *Engine) prune(dir string, installed []domain.InstalledArtifact, out domain.Outcome) {
	for _, a := range installed {
		if a.Filename == out.Filename || a.Filename == out.Previous {
			continue
		}
		if err := e.fs.Remove(filepath.Join(dir, a.Filename)); err != nil {
			e.logger.Warn(fmt.Sprintf("failed to remove duplicate file %s: %v", a.Filename, err))
			continue
		}
		e.logger.Info(fmt.Sprintf("removed duplicate file %s for %s", a.Filename, out.Identity))
	}
}

// current picks the installed file reconciliation starts from. A file already
// named target wins; otherwise the first in filename order.
func current(installed []domain.InstalledArtifact, target string) *domain.InstalledArtifact {
	if len(installed) == 0 {
		return nil
	}
	for i := range installed {
		if target != "" && installed[i].Filename == target {
			return &installed[i]
		}
	}
	return &installed[0]
}

func indexSnapshot(snapshot []domain.InstalledArtifact) map[domain.Identity][]domain.InstalledArtifact {
	index := make(map[domain.Identity][]domain.InstalledArtifact, len(snapshot))
	for _, a := range snapshot {
		index[a.Identity] = append(index[a.Identity], a)
	}
	return index
}

func dedupe(identities []domain.Identity) []domain.Identity {
	seen := make(map[domain.Identity]struct{}, len(identities))
	out := make([]domain.Identity, 0, len(identities))
	for _, id := range identities {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
