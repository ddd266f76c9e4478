package journal_test

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/modsync/internal/adapters/journal"
	"go.trai.ch/modsync/internal/core/domain"
	"go.trai.ch/modsync/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func fixedClock() time.Time {
	return time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)
}

func downloaded(id domain.Identity, file string) domain.OutcomeEvent {
	return domain.OutcomeEvent{
		Outcome:  domain.Outcome{Kind: domain.OutcomeDownloaded, Identity: id, Filename: file},
		Title:    "Sodium",
		Version:  "1.21.1",
		Platform: "fabric",
		Tier:     domain.TierExact,
	}
}

func TestJournal_AppendsNumberedEntries(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".modsync", "journal")
	ctrl := gomock.NewController(t)
	j := journal.New(dir, mocks.NewMockLogger(ctrl), journal.WithClock(fixedClock))

	j.OnOutcome(downloaded("abc", "sodium-0.6.abc.jar"))
	j.OnOutcome(downloaded("def", "lithium.def.jar"))

	data, err := os.ReadFile(j.Path(domain.OutcomeDownloaded))
	require.NoError(t, err)

	want := "1. [2026-10-15 09:30:00]\n" +
		"DOWNLOADED\nNAME: Sodium\nID: abc\nVERSION: 1.21.1\nPLATFORM: FABRIC\nFILE: sodium-0.6.abc.jar\n\n" +
		"2. [2026-10-15 09:30:00]\n" +
		"DOWNLOADED\nNAME: Sodium\nID: def\nVERSION: 1.21.1\nPLATFORM: FABRIC\nFILE: lithium.def.jar\n\n"
	assert.Equal(t, want, string(data))
	assert.NoFileExists(t, j.Path(domain.OutcomeUpdated))
}

func TestJournal_ContinuesExistingNumbering(t *testing.T) {
	dir := t.TempDir()
	ctrl := gomock.NewController(t)
	j := journal.New(dir, mocks.NewMockLogger(ctrl), journal.WithClock(fixedClock))

	existing := "1. [2025-01-01 00:00:00]\nUPDATED\n\n2. [2025-01-02 00:00:00]\nUPDATED\n\n"
	require.NoError(t, os.WriteFile(j.Path(domain.OutcomeUpdated), []byte(existing), domain.FilePerm))

	j.OnOutcome(domain.OutcomeEvent{
		Outcome: domain.Outcome{
			Kind:     domain.OutcomeUpdated,
			Identity: "abc",
			Filename: "sodium-0.6.abc.jar",
			Previous: "sodium-0.5.abc.jar",
		},
		Platform: "quilt",
	})

	data, err := os.ReadFile(j.Path(domain.OutcomeUpdated))
	require.NoError(t, err)
	assert.Contains(t, string(data), "3. [2026-10-15 09:30:00]\nUPDATED\nNAME: abc\nID: abc\nPLATFORM: QUILT\n"+
		"PREVIOUS: sodium-0.5.abc.jar\nFILE: sodium-0.6.abc.jar\n\n")
}

func TestJournal_UnresolvedCarriesReason(t *testing.T) {
	dir := t.TempDir()
	ctrl := gomock.NewController(t)
	j := journal.New(dir, mocks.NewMockLogger(ctrl), journal.WithClock(fixedClock))

	j.OnOutcome(domain.OutcomeEvent{
		Outcome:  domain.Outcome{Kind: domain.OutcomeUnresolved, Identity: "xyz", Err: errors.New("no compatible release\ndetails")},
		Title:    "Iris",
		Version:  "1.21.1",
		Platform: "fabric",
	})

	data, err := os.ReadFile(j.Path(domain.OutcomeUnresolved))
	require.NoError(t, err)
	assert.Equal(t, "1. [2026-10-15 09:30:00]\nNO VERSION FOUND\nNAME: Iris\nID: xyz\nVERSION: 1.21.1\n"+
		"PLATFORM: FABRIC\nREASON: no compatible release\n\n", string(data))
}

func TestJournal_ConcurrentWrites(t *testing.T) {
	dir := t.TempDir()
	ctrl := gomock.NewController(t)
	j := journal.New(dir, mocks.NewMockLogger(ctrl), journal.WithClock(fixedClock))

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			j.OnOutcome(downloaded("abc", "a.abc.jar"))
		}()
	}
	wg.Wait()

	data, err := os.ReadFile(j.Path(domain.OutcomeDownloaded))
	require.NoError(t, err)
	assert.Contains(t, string(data), "20. [")
	assert.NotContains(t, string(data), "21. [")
}

func TestJournal_WriteFailureIsLogged(t *testing.T) {
	root := t.TempDir()
	blocker := filepath.Join(root, "journal")
	require.NoError(t, os.WriteFile(blocker, []byte("not a directory"), domain.FilePerm))

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Error(gomock.Any()).DoAndReturn(func(err error) {
		assert.Contains(t, err.Error(), domain.ErrJournalWriteFailed.Error())
	})

	j := journal.New(blocker, log)
	j.OnOutcome(downloaded("abc", "a.abc.jar"))
}

func TestIsEntryHeader(t *testing.T) {
	assert.True(t, journal.IsEntryHeaderForTest("1. [2026-10-15 09:30:00]"))
	assert.True(t, journal.IsEntryHeaderForTest("42. [x"))
	assert.False(t, journal.IsEntryHeaderForTest("NAME: 1. [x"))
	assert.False(t, journal.IsEntryHeaderForTest(". [x"))
	assert.False(t, journal.IsEntryHeaderForTest("1. ["))
	assert.False(t, journal.IsEntryHeaderForTest("DOWNLOADED"))
}
