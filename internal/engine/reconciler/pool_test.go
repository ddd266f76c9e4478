package reconciler_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.trai.ch/modsync/internal/adapters/fs"
	"go.trai.ch/modsync/internal/adapters/telemetry"
	"go.trai.ch/modsync/internal/core/domain"
	"go.trai.ch/modsync/internal/core/ports/mocks"
	"go.trai.ch/modsync/internal/engine/reconciler"
	"go.uber.org/mock/gomock"
)

// recordingReporter collects every event it receives.
type recordingReporter struct {
	mu        sync.Mutex
	events    map[domain.Identity][]domain.OutcomeEvent
	summaries []domain.Summary
}

func newRecordingReporter() *recordingReporter {
	return &recordingReporter{events: make(map[domain.Identity][]domain.OutcomeEvent)}
}

func (r *recordingReporter) OnOutcome(event domain.OutcomeEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[event.Identity] = append(r.events[event.Identity], event)
}

func (r *recordingReporter) OnSummary(summary domain.Summary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.summaries = append(r.summaries, summary)
}

func (r *recordingReporter) only(t *testing.T, id domain.Identity) domain.OutcomeEvent {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.Len(t, r.events[id], 1, "identity %s must be reported exactly once", id)
	return r.events[id][0]
}

func fabricRelease(id, version, display string) domain.Release {
	return domain.Release{
		ID:             id,
		Platforms:      []string{"fabric"},
		TargetVersions: []string{version},
		Files: []domain.FileDescriptor{
			{URL: "https://cdn.modrinth.com/" + display, Filename: display, Primary: true},
		},
	}
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func snapshotOf(t *testing.T, dir string) []domain.InstalledArtifact {
	t.Helper()
	var out []domain.InstalledArtifact
	for _, name := range listDir(t, dir) {
		if id, ok := domain.ParseIdentity(name); ok {
			out = append(out, domain.InstalledArtifact{Identity: id, Filename: name})
		}
	}
	return out
}

func TestRun_ScenarioExplicitVersion(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockCatalog := mocks.NewMockCatalog(ctrl)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Warn(gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Info(gomock.Any()).AnyTimes()

	dir := t.TempDir()

	mockCatalog.EXPECT().ProjectTitle(gomock.Any(), gomock.Any()).Return("Sodium", nil).AnyTimes()
	mockCatalog.EXPECT().NewestVersion(gomock.Any()).Times(0)
	mockCatalog.EXPECT().Releases(gomock.Any(), domain.Identity("abc")).
		Return([]domain.Release{fabricRelease("r1", "1.21", "sodium-0.5.jar")}, nil).Times(2)
	mockCatalog.EXPECT().Releases(gomock.Any(), domain.Identity("xyz")).
		Return([]domain.Release{fabricRelease("r2", "1.20.4", "other.jar")}, nil).Times(2)
	// Only the first run downloads.
	mockCatalog.EXPECT().FetchFile(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(writeBody("jar")).Times(1)

	engine := reconciler.New(mockCatalog, fs.NewLocal(), mockLogger, telemetry.NewNoOpTracer())
	cfg := domain.RunConfiguration{Platform: "fabric", Version: "1.21", Directory: dir}
	ids := []domain.Identity{"abc", "xyz"}

	first := newRecordingReporter()
	summary := engine.Run(context.Background(), cfg, ids, snapshotOf(t, dir), first)

	assert.Equal(t, domain.Summary{Checked: 2, Downloaded: 1, Unresolved: 1}, summary)
	assert.Equal(t, []string{"sodium-0.5.abc.jar"}, listDir(t, dir))
	assert.Equal(t, domain.OutcomeDownloaded, first.only(t, "abc").Kind)
	assert.Equal(t, "Sodium", first.only(t, "abc").Title)
	xyz := first.only(t, "xyz")
	assert.Equal(t, domain.OutcomeUnresolved, xyz.Kind)
	assert.ErrorContains(t, xyz.Err, domain.ErrNoCompatibleRelease.Error())
	assert.Equal(t, []domain.Summary{summary}, first.summaries)

	// A second run with no catalog change is a no-op.
	second := newRecordingReporter()
	summary = engine.Run(context.Background(), cfg, ids, snapshotOf(t, dir), second)

	assert.Equal(t, domain.Summary{Checked: 2, AlreadyCurrent: 1, Unresolved: 1}, summary)
	assert.Equal(t, domain.OutcomeAlreadyCurrent, second.only(t, "abc").Kind)
	assert.Equal(t, []string{"sodium-0.5.abc.jar"}, listDir(t, dir))
}

func TestRun_AutoVersionFallsBackToVersionOnly(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockCatalog := mocks.NewMockCatalog(ctrl)
	mockLogger := mocks.NewMockLogger(ctrl)

	dir := t.TempDir()

	mockCatalog.EXPECT().ProjectTitle(gomock.Any(), gomock.Any()).Return("", errors.New("offline")).AnyTimes()
	mockCatalog.EXPECT().NewestVersion(gomock.Any()).Return("1.21", nil).Times(1)
	forgeOnly := domain.Release{
		ID:             "r1",
		Platforms:      []string{"forge"},
		TargetVersions: []string{"1.21"},
		Files:          []domain.FileDescriptor{{URL: "u", Filename: "lib.jar", Primary: true}},
	}
	for _, id := range []domain.Identity{"a", "b", "c"} {
		mockCatalog.EXPECT().Releases(gomock.Any(), id).Return([]domain.Release{forgeOnly}, nil)
	}
	mockCatalog.EXPECT().FetchFile(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(writeBody("jar")).Times(3)

	engine := reconciler.New(mockCatalog, fs.NewLocal(), mockLogger, telemetry.NewNoOpTracer())
	cfg := domain.RunConfiguration{Platform: "fabric", Directory: dir, Concurrency: 2}

	rep := newRecordingReporter()
	summary := engine.Run(context.Background(), cfg, []domain.Identity{"a", "b", "c"}, nil, rep)

	assert.Equal(t, domain.Summary{Checked: 3, Downloaded: 3}, summary)
	ev := rep.only(t, "a")
	assert.Equal(t, domain.TierVersionOnly, ev.Tier)
	assert.Equal(t, "1.21", ev.Version)
	assert.Equal(t, "a", ev.Title, "title falls back to the identity")
}

func TestRun_NewestLookupFailureKeepsPlatformTier(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockCatalog := mocks.NewMockCatalog(ctrl)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Warn(gomock.Any()).Times(1)

	dir := t.TempDir()
	mockCatalog.EXPECT().ProjectTitle(gomock.Any(), gomock.Any()).Return("Lithium", nil).AnyTimes()
	mockCatalog.EXPECT().NewestVersion(gomock.Any()).Return("", errors.New("catalog unavailable")).Times(1)
	mockCatalog.EXPECT().Releases(gomock.Any(), gomock.Any()).
		Return([]domain.Release{fabricRelease("r1", "1.20", "lithium.jar")}, nil).Times(2)
	mockCatalog.EXPECT().FetchFile(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(writeBody("jar")).Times(2)

	engine := reconciler.New(mockCatalog, fs.NewLocal(), mockLogger, telemetry.NewNoOpTracer())
	cfg := domain.RunConfiguration{Platform: "fabric", Directory: dir}

	rep := newRecordingReporter()
	summary := engine.Run(context.Background(), cfg, []domain.Identity{"l1", "l2"}, nil, rep)

	assert.Equal(t, 2, summary.Downloaded)
	assert.Equal(t, domain.TierPlatformOnly, rep.only(t, "l1").Tier)
}

func TestRun_PrunesDuplicates(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockCatalog := mocks.NewMockCatalog(ctrl)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Info(gomock.Any()).AnyTimes()

	dir := t.TempDir()
	for _, name := range []string{"sodium-0.4.abc.jar", "sodium-0.5.abc.jar", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600))
	}

	mockCatalog.EXPECT().ProjectTitle(gomock.Any(), gomock.Any()).Return("Sodium", nil).AnyTimes()
	mockCatalog.EXPECT().Releases(gomock.Any(), domain.Identity("abc")).
		Return([]domain.Release{fabricRelease("r1", "1.21", "sodium-0.5.jar")}, nil)
	mockCatalog.EXPECT().FetchFile(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	engine := reconciler.New(mockCatalog, fs.NewLocal(), mockLogger, telemetry.NewNoOpTracer())
	cfg := domain.RunConfiguration{Platform: "fabric", Version: "1.21", Directory: dir}

	rep := newRecordingReporter()
	engine.Run(context.Background(), cfg, []domain.Identity{"abc"}, snapshotOf(t, dir), rep)

	assert.Equal(t, domain.OutcomeAlreadyCurrent, rep.only(t, "abc").Kind)
	// "notes" is not part of the run and stays.
	assert.Equal(t, []string{"notes.txt", "sodium-0.5.abc.jar"}, listDir(t, dir))
}

func TestRun_UpdateWithDuplicatesLeavesOneFile(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockCatalog := mocks.NewMockCatalog(ctrl)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Info(gomock.Any()).AnyTimes()

	dir := t.TempDir()
	for _, name := range []string{"sodium-0.3.abc.jar", "sodium-0.4.abc.jar"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600))
	}

	mockCatalog.EXPECT().ProjectTitle(gomock.Any(), gomock.Any()).Return("Sodium", nil).AnyTimes()
	mockCatalog.EXPECT().Releases(gomock.Any(), domain.Identity("abc")).
		Return([]domain.Release{fabricRelease("r1", "1.21", "sodium-0.5.jar")}, nil)
	mockCatalog.EXPECT().FetchFile(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(writeBody("new"))

	engine := reconciler.New(mockCatalog, fs.NewLocal(), mockLogger, telemetry.NewNoOpTracer())
	cfg := domain.RunConfiguration{Platform: "fabric", Version: "1.21", Directory: dir}

	rep := newRecordingReporter()
	summary := engine.Run(context.Background(), cfg, []domain.Identity{"abc"}, snapshotOf(t, dir), rep)

	assert.Equal(t, 1, summary.Updated)
	ev := rep.only(t, "abc")
	assert.Equal(t, "sodium-0.3.abc.jar", ev.Previous)
	assert.Equal(t, []string{"sodium-0.5.abc.jar"}, listDir(t, dir))
}

func TestRun_CatalogFailureIsUnresolved(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockCatalog := mocks.NewMockCatalog(ctrl)

	mockCatalog.EXPECT().ProjectTitle(gomock.Any(), gomock.Any()).Return("", errors.New("down")).AnyTimes()
	mockCatalog.EXPECT().Releases(gomock.Any(), gomock.Any()).Return(nil, domain.ErrCatalogUnavailable)

	engine := reconciler.New(mockCatalog, fs.NewLocal(), mocks.NewMockLogger(ctrl), telemetry.NewNoOpTracer())
	cfg := domain.RunConfiguration{Platform: "fabric", Version: "1.21", Directory: t.TempDir()}

	rep := newRecordingReporter()
	summary := engine.Run(context.Background(), cfg, []domain.Identity{"abc"}, nil, rep)

	assert.Equal(t, domain.Summary{Checked: 1, Unresolved: 1}, summary)
	assert.ErrorContains(t, rep.only(t, "abc").Err, domain.ErrCatalogUnavailable.Error())
}

func TestRun_FilenameOutsideDirectoryIsUnresolved(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockCatalog := mocks.NewMockCatalog(ctrl)

	root := t.TempDir()
	dir := filepath.Join(root, "mods")
	require.NoError(t, os.Mkdir(dir, 0o750))

	mockCatalog.EXPECT().ProjectTitle(gomock.Any(), gomock.Any()).Return("T", nil).AnyTimes()
	mockCatalog.EXPECT().Releases(gomock.Any(), domain.Identity("abc")).
		Return([]domain.Release{fabricRelease("r1", "1.21", "../escape.jar")}, nil).Times(2)
	mockCatalog.EXPECT().FetchFile(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	engine := reconciler.New(mockCatalog, fs.NewLocal(), mocks.NewMockLogger(ctrl), telemetry.NewNoOpTracer())
	cfg := domain.RunConfiguration{Platform: "fabric", Version: "1.21", Directory: dir}

	for range 2 {
		rep := newRecordingReporter()
		summary := engine.Run(context.Background(), cfg, []domain.Identity{"abc"}, snapshotOf(t, dir), rep)

		assert.Equal(t, domain.Summary{Checked: 1, Unresolved: 1}, summary)
		assert.ErrorContains(t, rep.only(t, "abc").Err, domain.ErrNoDownloadableFile.Error())
	}
	assert.Empty(t, listDir(t, dir))
	assert.Equal(t, []string{"mods"}, listDir(t, root))
}

func TestRun_DottedIdentityIsUnresolved(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockCatalog := mocks.NewMockCatalog(ctrl)

	mockCatalog.EXPECT().ProjectTitle(gomock.Any(), gomock.Any()).Times(0)
	mockCatalog.EXPECT().Releases(gomock.Any(), gomock.Any()).Times(0)

	dir := t.TempDir()
	engine := reconciler.New(mockCatalog, fs.NewLocal(), mocks.NewMockLogger(ctrl), telemetry.NewNoOpTracer())
	cfg := domain.RunConfiguration{Platform: "fabric", Version: "1.21", Directory: dir}

	rep := newRecordingReporter()
	summary := engine.Run(context.Background(), cfg, []domain.Identity{"x.y"}, nil, rep)

	assert.Equal(t, domain.Summary{Checked: 1, Unresolved: 1}, summary)
	assert.ErrorContains(t, rep.only(t, "x.y").Err, domain.ErrInvalidIdentity.Error())
	assert.Empty(t, listDir(t, dir))
}

func TestRun_PanicIsContainedToOneIdentity(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockCatalog := mocks.NewMockCatalog(ctrl)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Error(gomock.Any()).Times(1)

	dir := t.TempDir()
	mockCatalog.EXPECT().ProjectTitle(gomock.Any(), gomock.Any()).Return("T", nil).AnyTimes()
	mockCatalog.EXPECT().Releases(gomock.Any(), domain.Identity("boom")).
		DoAndReturn(func(context.Context, domain.Identity) ([]domain.Release, error) {
			panic("malformed response")
		})
	mockCatalog.EXPECT().Releases(gomock.Any(), domain.Identity("ok")).
		Return([]domain.Release{fabricRelease("r1", "1.21", "ok.jar")}, nil)
	mockCatalog.EXPECT().FetchFile(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(writeBody("jar"))

	engine := reconciler.New(mockCatalog, fs.NewLocal(), mockLogger, telemetry.NewNoOpTracer())
	cfg := domain.RunConfiguration{Platform: "fabric", Version: "1.21", Directory: dir}

	rep := newRecordingReporter()
	summary := engine.Run(context.Background(), cfg, []domain.Identity{"boom", "ok"}, nil, rep)

	assert.Equal(t, domain.Summary{Checked: 2, Downloaded: 1, Unresolved: 1}, summary)
	assert.ErrorContains(t, rep.only(t, "boom").Err, domain.ErrUnexpectedPanic.Error())
}

func TestRun_DuplicateIdentitiesProcessedOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockCatalog := mocks.NewMockCatalog(ctrl)

	mockCatalog.EXPECT().ProjectTitle(gomock.Any(), gomock.Any()).Return("T", nil).AnyTimes()
	mockCatalog.EXPECT().Releases(gomock.Any(), domain.Identity("abc")).Return(nil, nil).Times(1)

	engine := reconciler.New(mockCatalog, fs.NewLocal(), mocks.NewMockLogger(ctrl), telemetry.NewNoOpTracer())
	cfg := domain.RunConfiguration{Platform: "fabric", Version: "1.21", Directory: t.TempDir()}

	mockReporter := mocks.NewMockReporter(ctrl)
	gomock.InOrder(
		mockReporter.EXPECT().OnOutcome(gomock.Any()).Times(1),
		mockReporter.EXPECT().OnSummary(domain.Summary{Checked: 1, Unresolved: 1}).Times(1),
	)

	summary := engine.Run(context.Background(), cfg, []domain.Identity{"abc", "abc"}, nil, mockReporter)
	assert.Equal(t, domain.Summary{Checked: 1, Unresolved: 1}, summary)
}

func TestRun_CancelledContextSchedulesNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockCatalog := mocks.NewMockCatalog(ctrl)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Warn(gomock.Any()).Times(1)

	engine := reconciler.New(mockCatalog, fs.NewLocal(), mockLogger, telemetry.NewNoOpTracer())
	cfg := domain.RunConfiguration{Platform: "fabric", Version: "1.21", Directory: t.TempDir()}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rep := newRecordingReporter()
	summary := engine.Run(ctx, cfg, []domain.Identity{"abc", "xyz"}, nil, rep)

	assert.Equal(t, domain.Summary{}, summary)
	assert.Equal(t, []domain.Summary{{}}, rep.summaries)
}

func TestRun_EmitsSpanPerIdentity(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	ctrl := gomock.NewController(t)
	mockCatalog := mocks.NewMockCatalog(ctrl)

	dir := t.TempDir()
	mockCatalog.EXPECT().ProjectTitle(gomock.Any(), gomock.Any()).Return("Sodium", nil).AnyTimes()
	mockCatalog.EXPECT().Releases(gomock.Any(), domain.Identity("abc")).
		Return([]domain.Release{fabricRelease("r1", "1.21", "sodium.jar")}, nil)
	mockCatalog.EXPECT().FetchFile(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(writeBody("jar"))

	tracer := telemetry.NewOTelTracerWithProvider(tp, telemetry.InstrumentationName)
	engine := reconciler.New(mockCatalog, fs.NewLocal(), mocks.NewMockLogger(ctrl), tracer)
	cfg := domain.RunConfiguration{Platform: "fabric", Version: "1.21", Directory: dir}

	engine.Run(context.Background(), cfg, []domain.Identity{"abc"}, nil)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "abc", spans[0].Name())
	assert.Contains(t, spans[0].Attributes(), attribute.String(reconciler.AttrIdentity, "abc"))
	assert.Contains(t, spans[0].Attributes(), attribute.String(reconciler.AttrOutcome, "downloaded"))
	assert.Contains(t, spans[0].Attributes(), attribute.String(reconciler.AttrFile, "sodium.abc.jar"))
}
