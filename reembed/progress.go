package reembed

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Tracker reports reembedding progress to a writer, printing a running
// count and rate every N processed entities. Safe for concurrent use.
type Tracker struct {
	mu    sync.Mutex
	out   io.Writer
	total int
	done  int
	every int
	since int
	began time.Time
}

// NewTracker creates a tracker over total entities that reports every
// `every` completions. An every of zero or less reports on every entity.
func NewTracker(out io.Writer, total, every int) *Tracker {
	if every < 1 {
		every = 1
	}
	return &Tracker{
		out:   out,
		total: total,
		every: every,
		began: time.Now(),
	}
}

// Add records n completed entities, printing a progress line whenever the
// report interval has been crossed.
func (t *Tracker) Add(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.done += n
	if t.done > t.total {
		t.done = t.total
	}
	t.since += n
	if t.since >= t.every {
		t.since = 0
		t.line()
	}
}

// Done prints the final progress line and terminates it with a newline.
func (t *Tracker) Done() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.done = t.total
	t.line()
	fmt.Fprintln(t.out)
}

// Elapsed returns the time since the tracker was created.
func (t *Tracker) Elapsed() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return time.Since(t.began)
}

// line writes one carriage-returned progress line. Callers hold the mutex.
func (t *Tracker) line() {
	if t.total == 0 {
		return
	}
	rate := 0.0
	if secs := time.Since(t.began).Seconds(); secs > 0 {
		rate = float64(t.done) / secs
	}
	fmt.Fprintf(t.out, "\rReembedded %d/%d entities (%.0f%%, %.1f/sec)",
		t.done, t.total, float64(t.done)/float64(t.total)*100, rate)
}
