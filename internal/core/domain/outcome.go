package domain

import "sync/atomic"

// OutcomeKind is the terminal state of one identity's reconciliation.
type OutcomeKind string

const (
	// OutcomeDownloaded means the identity was not installed and now is.
	OutcomeDownloaded OutcomeKind = "downloaded"
	// OutcomeUpdated means an older file was replaced by the desired one.
	OutcomeUpdated OutcomeKind = "updated"
	// OutcomeAlreadyCurrent means the desired file was already installed.
	OutcomeAlreadyCurrent OutcomeKind = "already-current"
	// OutcomeUnresolved means nothing could be installed for the identity.
	OutcomeUnresolved OutcomeKind = "unresolved"
)

// Tier records which selection rule produced a release.
type Tier int

const (
	// TierNone means no release was selected.
	TierNone Tier = iota
	// TierExact matches both the platform and the target version.
	TierExact
	// TierVersionOnly matches the target version and ignores the platform.
	TierVersionOnly
	// TierPlatformOnly matches the platform and ignores the version.
	TierPlatformOnly
)

// String implements fmt.Stringer.
func (t Tier) String() string {
	switch t {
	case TierExact:
		return "exact"
	case TierVersionOnly:
		return "version-only"
	case TierPlatformOnly:
		return "platform-only"
	default:
		return "none"
	}
}

// Outcome is the result of reconciling a single identity.
type Outcome struct {
	Kind     OutcomeKind
	Identity Identity
	// Filename is the file now installed for the identity, if any.
	Filename string
	// Previous is the file that was replaced by an update.
	Previous string
	// Err explains an unresolved outcome.
	Err error
}

// OutcomeEvent is emitted to reporters once per identity per run.
type OutcomeEvent struct {
	Outcome
	Title    string
	Version  string
	Platform string
	Tier     Tier
}

// OutcomeCounters aggregates per-run outcomes. It is safe for concurrent use.
type OutcomeCounters struct {
	checked        atomic.Int64
	downloaded     atomic.Int64
	updated        atomic.Int64
	alreadyCurrent atomic.Int64
	unresolved     atomic.Int64
}

// MarkChecked counts an identity entering reconciliation.
func (c *OutcomeCounters) MarkChecked() {
	c.checked.Add(1)
}

// Record counts a terminal outcome.
func (c *OutcomeCounters) Record(kind OutcomeKind) {
	switch kind {
	case OutcomeDownloaded:
		c.downloaded.Add(1)
	case OutcomeUpdated:
		c.updated.Add(1)
	case OutcomeAlreadyCurrent:
		c.alreadyCurrent.Add(1)
	default:
		c.unresolved.Add(1)
	}
}

// Snapshot returns the current totals.
func (c *OutcomeCounters) Snapshot() Summary {
	return Summary{
		Checked:        int(c.checked.Load()),
		Downloaded:     int(c.downloaded.Load()),
		Updated:        int(c.updated.Load()),
		AlreadyCurrent: int(c.alreadyCurrent.Load()),
		Unresolved:     int(c.unresolved.Load()),
	}
}

// Summary is the final tally of a run.
type Summary struct {
	Checked        int
	Downloaded     int
	Updated        int
	AlreadyCurrent int
	Unresolved     int
}

// Terminal returns the number of identities that reached a terminal state.
func (s Summary) Terminal() int {
	return s.Downloaded + s.Updated + s.AlreadyCurrent + s.Unresolved
}
