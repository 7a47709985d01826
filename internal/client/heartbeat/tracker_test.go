package heartbeat

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingReporter struct {
	mu      sync.Mutex
	reports []int
	err     error
}

func (r *recordingReporter) ReportProgress(ctx context.Context, lastPage, completionPercent int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, lastPage)
	return r.err
}

func (r *recordingReporter) pages() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int, len(r.reports))
	copy(out, r.reports)
	return out
}

func TestCompletionPercent(t *testing.T) {
	assert.Equal(t, 0, CompletionPercent(0, 42))
	assert.Equal(t, 50, CompletionPercent(21, 42))
	assert.Equal(t, 100, CompletionPercent(42, 42))
	assert.Equal(t, 100, CompletionPercent(50, 42))
	assert.Equal(t, 0, CompletionPercent(-3, 42))
	assert.Equal(t, 0, CompletionPercent(10, 0))
	assert.Equal(t, 2, CompletionPercent(1, 42))
}

func TestTracker_InitialReportAndFinalFlush(t *testing.T) {
	reporter := &recordingReporter{}
	tracker := NewTracker(reporter, 42, time.Hour, nil)

	tracker.SetPage(1)
	tracker.Start(context.Background())

	// The interval is far away, so only the initial report has fired.
	require.Eventually(t, func() bool { return len(reporter.pages()) == 1 }, time.Second, 5*time.Millisecond)

	tracker.SetPage(17)
	tracker.Stop()

	pages := reporter.pages()
	require.Len(t, pages, 2)
	assert.Equal(t, 1, pages[0])
	assert.Equal(t, 17, pages[1])
}

func TestTracker_PeriodicReports(t *testing.T) {
	reporter := &recordingReporter{}
	tracker := NewTracker(reporter, 42, 10*time.Millisecond, nil)

	tracker.SetPage(5)
	tracker.Start(context.Background())

	require.Eventually(t, func() bool { return len(reporter.pages()) >= 3 }, time.Second, 5*time.Millisecond)

	tracker.Stop()
}

func TestTracker_StopIsIdempotent(t *testing.T) {
	reporter := &recordingReporter{}
	tracker := NewTracker(reporter, 42, time.Hour, nil)

	tracker.SetPage(3)
	tracker.Start(context.Background())

	tracker.Stop()
	tracker.Stop()

	// Initial report plus exactly one flush, never two.
	assert.Len(t, reporter.pages(), 2)
}

func TestTracker_ContextCancelFlushes(t *testing.T) {
	reporter := &recordingReporter{}
	tracker := NewTracker(reporter, 42, time.Hour, nil)

	ctx, cancel := context.WithCancel(context.Background())
	tracker.SetPage(9)
	tracker.Start(ctx)
	cancel()

	require.Eventually(t, func() bool { return len(reporter.pages()) == 2 }, time.Second, 5*time.Millisecond)

	// Stop after a context-driven flush must not flush again.
	tracker.Stop()
	assert.Len(t, reporter.pages(), 2)
}

func TestTracker_NoopWithoutTotalPages(t *testing.T) {
	reporter := &recordingReporter{}
	tracker := NewTracker(reporter, 0, 10*time.Millisecond, nil)

	tracker.Start(context.Background())
	time.Sleep(30 * time.Millisecond)
	tracker.Stop()

	assert.Empty(t, reporter.pages())
}

func TestTracker_ReportFailuresAreDropped(t *testing.T) {
	reporter := &recordingReporter{err: errors.New("network down")}
	tracker := NewTracker(reporter, 42, 10*time.Millisecond, nil)

	tracker.SetPage(2)
	tracker.Start(context.Background())

	// Failures must not stop the ticker.
	require.Eventually(t, func() bool { return len(reporter.pages()) >= 3 }, time.Second, 5*time.Millisecond)

	tracker.Stop()
}
