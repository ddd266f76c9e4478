// Package journal appends per-outcome entries to plain-text log files.
package journal

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.trai.ch/modsync/internal/core/domain"
	"go.trai.ch/modsync/internal/core/ports"
	"go.trai.ch/zerr"
)

const timestampLayout = "2006-01-02 15:04:05"

var _ ports.Reporter = (*Journal)(nil)

// Journal implements ports.Reporter by appending one numbered entry per outcome
// to a log file named after the outcome kind.
type Journal struct {
	dir    string
	logger ports.Logger
	now    func() time.Time

	mu     sync.Mutex
	counts map[domain.OutcomeKind]int
}

// Option configures a Journal.
type Option func(*Journal)

// WithClock replaces the time source used for entry timestamps.
func WithClock(now func() time.Time) Option {
	return func(j *Journal) {
		j.now = now
	}
}

// New creates a Journal writing into dir. The directory is created on first write.
func New(dir string, logger ports.Logger, opts ...Option) *Journal {
	j := &Journal{
		dir:    dir,
		logger: logger,
		now:    time.Now,
		counts: make(map[domain.OutcomeKind]int),
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Path returns the log file that receives entries of the given kind.
func (j *Journal) Path(kind domain.OutcomeKind) string {
	return filepath.Join(j.dir, string(kind)+".log")
}

// OnOutcome appends an entry for the event. Write failures are logged, not returned.
func (j *Journal) OnOutcome(event domain.OutcomeEvent) {
	if err := j.append(event); err != nil {
		j.logger.Error(zerr.With(err, "identity", event.Identity.String()))
	}
}

// OnSummary is a no-op; the journal only records per-identity outcomes.
func (j *Journal) OnSummary(domain.Summary) {}

func (j *Journal) append(event domain.OutcomeEvent) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := os.MkdirAll(j.dir, domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrJournalWriteFailed.Error())
	}

	path := j.Path(event.Kind)
	n, ok := j.counts[event.Kind]
	if !ok {
		existing, err := countEntries(path)
		if err != nil {
			return zerr.Wrap(err, domain.ErrJournalWriteFailed.Error())
		}
		n = existing
	}
	n++

	//nolint:gosec // Path is built from the managed directory and a fixed kind name
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, domain.FilePerm)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrJournalWriteFailed.Error()), "path", path)
	}

	_, werr := fmt.Fprintf(f, "%d. [%s]\n%s\n\n", n, j.now().Format(timestampLayout), formatEntry(event))
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		return zerr.With(zerr.Wrap(werr, domain.ErrJournalWriteFailed.Error()), "path", path)
	}

	j.counts[event.Kind] = n
	return nil
}

func formatEntry(event domain.OutcomeEvent) string {
	var b strings.Builder
	b.WriteString(headline(event.Kind))

	title := event.Title
	if title == "" {
		title = event.Identity.String()
	}
	fmt.Fprintf(&b, "\nNAME: %s", title)
	fmt.Fprintf(&b, "\nID: %s", event.Identity)
	if event.Version != "" {
		fmt.Fprintf(&b, "\nVERSION: %s", event.Version)
	}
	fmt.Fprintf(&b, "\nPLATFORM: %s", strings.ToUpper(event.Platform))
	if event.Previous != "" {
		fmt.Fprintf(&b, "\nPREVIOUS: %s", event.Previous)
	}
	if event.Filename != "" {
		fmt.Fprintf(&b, "\nFILE: %s", event.Filename)
	}
	if event.Err != nil {
		fmt.Fprintf(&b, "\nREASON: %s", firstLine(event.Err.Error()))
	}
	return b.String()
}

func headline(kind domain.OutcomeKind) string {
	switch kind {
	case domain.OutcomeDownloaded:
		return "DOWNLOADED"
	case domain.OutcomeUpdated:
		return "UPDATED"
	case domain.OutcomeAlreadyCurrent:
		return "ALREADY CURRENT"
	default:
		return "NO VERSION FOUND"
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// countEntries counts the entry headers already present in a journal file.
func countEntries(path string) (int, error) {
	//nolint:gosec // Path is built from the managed directory and a fixed kind name
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}
	defer func() {
		_ = f.Close()
	}()

	count := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if isEntryHeader(scanner.Text()) {
			count++
		}
	}
	return count, scanner.Err()
}

// isEntryHeader matches lines of the form "12. [".
func isEntryHeader(line string) bool {
	num, rest, ok := strings.Cut(line, ". [")
	if !ok || num == "" {
		return false
	}
	for _, r := range num {
		if r < '0' || r > '9' {
			return false
		}
	}
	return rest != ""
}
