package dictionary

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/heartmarshall/zinote-backend/internal/domain"
)

// SearchFunc runs one search for the debouncer.
type SearchFunc func(ctx context.Context, query string) ([]domain.Record, error)

// DebouncedResult is delivered once per search that survives the quiet period.
type DebouncedResult struct {
	Query   string
	Records []domain.Record
	Err     error
}

// Debouncer delays searches until input has been quiet for a while. Each new
// submission stops the pending timer and cancels the search in flight, so
// only the latest query produces a result.
type Debouncer struct {
	quiet   time.Duration
	minLen  int
	search  SearchFunc
	results chan DebouncedResult
	done    chan struct{}

	mu     sync.Mutex
	seq    uint64
	timer  *time.Timer
	cancel context.CancelFunc
	closed bool
}

// NewDebouncer creates a Debouncer. Non-blank queries shorter than minLen
// runes are ignored; a blank query is searched as-is.
func NewDebouncer(quiet time.Duration, minLen int, search SearchFunc) *Debouncer {
	return &Debouncer{
		quiet:   quiet,
		minLen:  minLen,
		search:  search,
		results: make(chan DebouncedResult, 1),
		done:    make(chan struct{}),
	}
}

// Results returns the channel results are delivered on. It is never closed.
func (d *Debouncer) Results() <-chan DebouncedResult {
	return d.results
}

// Submit schedules a search for query, superseding any earlier submission.
// A query too short to search still supersedes: the pending timer and the
// search in flight are dropped and nothing new is scheduled. It reports
// whether the query was scheduled.
func (d *Debouncer) Submit(query string) bool {
	trimmed := strings.TrimSpace(query)

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return false
	}
	d.stopLocked()
	d.seq++
	if trimmed != "" && len([]rune(trimmed)) < d.minLen {
		return false
	}

	seq := d.seq
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.timer = time.AfterFunc(d.quiet, func() {
		d.run(ctx, seq, trimmed)
	})
	return true
}

// Close stops the pending timer and cancels any search in flight.
func (d *Debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}
	d.closed = true
	d.stopLocked()
	close(d.done)
}

func (d *Debouncer) run(ctx context.Context, seq uint64, query string) {
	recs, err := d.search(ctx, query)

	d.mu.Lock()
	stale := seq != d.seq || d.closed
	d.mu.Unlock()
	if stale || ctx.Err() != nil {
		return
	}

	select {
	case d.results <- DebouncedResult{Query: query, Records: recs, Err: err}:
	case <-ctx.Done():
	case <-d.done:
	}
}

func (d *Debouncer) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}
