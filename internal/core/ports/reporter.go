package ports

import "go.trai.ch/modsync/internal/core/domain"

// Reporter receives the outcome of every identity and the final tally of a run.
// Implementations must be safe for concurrent use.
//
//go:generate mockgen -source=reporter.go -destination=mocks/mock_reporter.go -package=mocks
type Reporter interface {
	// OnOutcome is called exactly once per identity per run.
	OnOutcome(event domain.OutcomeEvent)

	// OnSummary is called once after all identities were processed.
	OnSummary(summary domain.Summary)
}
