// Package heartbeat reports viewing progress for an active session: one
// report immediately on start, one per interval while active, and exactly
// one final flush on end. Progress reporting must never block or fail the
// viewing experience, so delivery failures are dropped and retried on the
// next tick.
package heartbeat

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/studyvault/noteguard/internal/logging"
)

// DefaultInterval is the cadence between periodic reports.
const DefaultInterval = 20 * time.Second

// Reporter delivers one progress report.
type Reporter interface {
	ReportProgress(ctx context.Context, lastPage, completionPercent int) error
}

// CompletionPercent computes round(clamp(page/total, 0, 1) * 100).
// Callers must not report at all when total is zero or unknown.
func CompletionPercent(page, total int) int {
	if total <= 0 {
		return 0
	}
	ratio := float64(page) / float64(total)
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	return int(math.Round(ratio * 100))
}

// Tracker drives the heartbeat for one viewing instance. The periodic tick
// and the exit flush race only against each other: Stop cancels the ticker
// goroutine before flushing, and the flush itself is guarded so it can
// never fire twice even when the interval boundary coincides with exit.
type Tracker struct {
	reporter   Reporter
	totalPages int
	interval   time.Duration
	logger     logging.Logger

	mu   sync.Mutex
	page int

	cancel    context.CancelFunc
	done      chan struct{}
	flushOnce sync.Once
	started   bool
}

func NewTracker(reporter Reporter, totalPages int, interval time.Duration, logger logging.Logger) *Tracker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Tracker{
		reporter:   reporter,
		totalPages: totalPages,
		interval:   interval,
		logger:     logger,
		done:       make(chan struct{}),
	}
}

// SetPage records the page the viewer is currently on; it is picked up by
// the next tick or the final flush.
func (t *Tracker) SetPage(page int) {
	t.mu.Lock()
	t.page = page
	t.mu.Unlock()
}

// Start emits the initial report and launches the periodic ticker. It is a
// no-op when totalPages is zero or unknown: there is nothing meaningful to
// report. Cancelling ctx ends the tracking with a final flush, same as Stop.
func (t *Tracker) Start(ctx context.Context) {
	if t.totalPages <= 0 || t.started {
		return
	}
	t.started = true

	ctx, t.cancel = context.WithCancel(ctx)

	t.report(ctx)

	go func() {
		defer close(t.done)

		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				t.report(ctx)
			case <-ctx.Done():
				t.flush()
				return
			}
		}
	}()
}

// Stop cancels the periodic ticker and guarantees the single final flush
// has fired before returning. Safe to call more than once.
func (t *Tracker) Stop() {
	if !t.started {
		return
	}
	t.cancel()
	<-t.done
}

func (t *Tracker) report(ctx context.Context) {
	t.mu.Lock()
	page := t.page
	t.mu.Unlock()

	err := t.reporter.ReportProgress(ctx, page, CompletionPercent(page, t.totalPages))
	if err != nil && t.logger != nil {
		// Dropped silently; the next tick or the final flush retries.
		t.logger.Warn(ctx, "progress report failed", "error", err.Error())
	}
}

func (t *Tracker) flush() {
	t.flushOnce.Do(func() {
		// The tracking context is already cancelled; the flush gets its own
		// brief deadline so shutdown cannot hang on a dead network.
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		t.report(ctx)
	})
}
