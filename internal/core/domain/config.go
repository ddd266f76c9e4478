package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// Scope selects which identities take part in a run.
// A collection takes precedence over an explicit project list.
type Scope struct {
	Collection string
	Projects   []Identity
}

// Empty reports whether the scope names nothing to track.
func (s Scope) Empty() bool {
	return s.Collection == "" && len(s.Projects) == 0
}

// RunConfiguration is the immutable input of one reconciliation run.
type RunConfiguration struct {
	// Platform is the mod loader, e.g. "fabric".
	Platform string
	// Version is the target game version. Empty selects automatic mode.
	Version     string
	Directory   string
	Concurrency int
	Scope       Scope
	Kind        ArtifactKind
}

// AutoVersion reports whether the run resolves the target version itself.
func (c RunConfiguration) AutoVersion() bool {
	return c.Version == ""
}

// WithDefaults returns a copy of c with unset fields filled in.
func (c RunConfiguration) WithDefaults() RunConfiguration {
	if c.Directory == "" {
		c.Directory = DefaultDirectory
	}
	if c.Concurrency <= 0 {
		c.Concurrency = DefaultConcurrency
	}
	if c.Kind == "" {
		c.Kind = KindMod
	}
	c.Platform = strings.TrimSpace(c.Platform)
	c.Version = strings.TrimSpace(c.Version)
	return c
}

// Validate rejects configurations a run cannot start with.
func (c RunConfiguration) Validate() error {
	if c.Platform == "" {
		return zerr.Wrap(ErrMissingPlatform, ErrInvalidConfiguration.Error())
	}
	if c.Scope.Empty() {
		return zerr.Wrap(ErrMissingScope, ErrInvalidConfiguration.Error())
	}
	for _, id := range c.Scope.Projects {
		if c.Scope.Collection == "" && !id.Valid() {
			return zerr.With(zerr.Wrap(ErrInvalidIdentity, ErrInvalidConfiguration.Error()), "project", id.String())
		}
	}
	if c.Kind != "" && !c.Kind.Valid() {
		return zerr.With(zerr.Wrap(ErrInvalidKind, ErrInvalidConfiguration.Error()), "kind", string(c.Kind))
	}
	if c.Concurrency < 0 {
		return zerr.With(ErrInvalidConfiguration, "concurrency", c.Concurrency)
	}
	return nil
}
