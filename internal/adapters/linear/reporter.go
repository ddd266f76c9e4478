// Package linear provides a synchronous, line-oriented outcome reporter.
package linear

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.trai.ch/modsync/internal/core/domain"
	"go.trai.ch/modsync/internal/core/ports"
	"go.trai.ch/modsync/internal/ui/output"
	"go.trai.ch/modsync/internal/ui/style"
)

var _ ports.Reporter = (*Reporter)(nil)

// Reporter implements ports.Reporter for terminals and CI logs.
// Every outcome is printed as one line as soon as it arrives.
type Reporter struct {
	stdout io.Writer
	output *termenv.Output

	mu sync.Mutex
}

// NewReporter creates a new Reporter. Nil writers default to stdout.
func NewReporter(stdout io.Writer) *Reporter {
	if stdout == nil {
		stdout = os.Stdout
	}
	return &Reporter{
		stdout: stdout,
		output: output.New(stdout),
	}
}

// NewReporterWithProfile creates a Reporter with an explicit color profile.
func NewReporterWithProfile(stdout io.Writer, profile termenv.Profile) *Reporter {
	r := NewReporter(stdout)
	r.output = output.NewWithProfile(r.stdout, func() termenv.Profile { return profile })
	return r
}

// OnOutcome prints one line describing the outcome.
func (r *Reporter) OnOutcome(event domain.OutcomeEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	symbol, color := outcomeStyle(event.Kind)
	icon := r.output.String(symbol).Foreground(r.output.Color(string(color))).String()
	name := r.output.String(displayName(event)).Bold().String()

	var line string
	switch event.Kind {
	case domain.OutcomeDownloaded:
		line = fmt.Sprintf("%s %s downloaded %s%s", icon, name, event.Filename, r.selection(event))
	case domain.OutcomeUpdated:
		line = fmt.Sprintf("%s %s updated %s -> %s%s", icon, name, event.Previous, event.Filename, r.selection(event))
	case domain.OutcomeAlreadyCurrent:
		line = fmt.Sprintf("%s %s already current (%s)", icon, name, event.Filename)
	default:
		line = fmt.Sprintf("%s %s unresolved: %s", icon, name, reason(event.Err))
	}
	_, _ = fmt.Fprintln(r.stdout, line)
}

// OnSummary prints the final tally.
func (r *Reporter) OnSummary(summary domain.Summary) {
	r.mu.Lock()
	defer r.mu.Unlock()

	text := fmt.Sprintf("Checked %d: %d downloaded, %d updated, %d already current, %d unresolved",
		summary.Checked, summary.Downloaded, summary.Updated, summary.AlreadyCurrent, summary.Unresolved)

	color := style.Emerald
	if summary.Unresolved > 0 {
		color = style.Yellow
	}
	_, _ = fmt.Fprintln(r.stdout, r.output.String(text).Foreground(r.output.Color(string(color))).String())
}

// selection renders the matched version and, for fallback tiers, which rule matched.
func (r *Reporter) selection(event domain.OutcomeEvent) string {
	var parts []string
	if event.Version != "" {
		parts = append(parts, event.Version)
	}
	if event.Platform != "" {
		parts = append(parts, event.Platform)
	}
	if event.Tier != domain.TierExact && event.Tier != domain.TierNone {
		parts = append(parts, event.Tier.String())
	}
	if len(parts) == 0 {
		return ""
	}
	return r.output.String(" [" + strings.Join(parts, ", ") + "]").Faint().String()
}

func outcomeStyle(kind domain.OutcomeKind) (string, lipgloss.Color) {
	switch kind {
	case domain.OutcomeDownloaded:
		return style.Check, style.Green
	case domain.OutcomeUpdated:
		return style.Arrow, style.Sky
	case domain.OutcomeAlreadyCurrent:
		return style.Equal, style.Slate
	default:
		return style.Cross, style.Red
	}
}

func displayName(event domain.OutcomeEvent) string {
	if event.Title != "" && event.Title != event.Identity.String() {
		return fmt.Sprintf("%s (%s)", event.Title, event.Identity)
	}
	return event.Identity.String()
}

func reason(err error) string {
	if err == nil {
		return "no compatible release"
	}
	msg := err.Error()
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i]
	}
	return msg
}
