// Package events records the runtime's policy decisions: a bounded ring of
// recent decisions for the inspection API plus live fan-out to stream
// subscribers.
package events

import (
	"sync"
	"time"
)

// Decision is one answered policy callback.
type Decision struct {
	Callback string    `json:"callback"`
	Outcome  string    `json:"outcome"`
	URL      string    `json:"url,omitempty"`
	Process  int       `json:"render_process_id,omitempty"`
	Time     time.Time `json:"time"`
}

// Recorder keeps the most recent decisions and fans new ones out to
// subscribers. Slow subscribers drop events rather than block the policy
// path.
type Recorder struct {
	mu    sync.RWMutex
	ring  []Decision // Protected by mu
	next  int        // Protected by mu
	count int        // Protected by mu
	subs  map[chan Decision]struct{}
}

// NewRecorder creates a recorder keeping up to capacity decisions.
func NewRecorder(capacity int) *Recorder {
	if capacity <= 0 {
		capacity = 256
	}
	return &Recorder{
		ring: make([]Decision, capacity),
		subs: make(map[chan Decision]struct{}),
	}
}

// Record stamps and stores a decision, then fans it out.
func (r *Recorder) Record(d Decision) {
	if d.Time.IsZero() {
		d.Time = time.Now()
	}

	r.mu.Lock()
	r.ring[r.next] = d
	r.next = (r.next + 1) % len(r.ring)
	if r.count < len(r.ring) {
		r.count++
	}
	for ch := range r.subs {
		select {
		case ch <- d:
		default:
		}
	}
	r.mu.Unlock()
}

// Recent returns up to n of the most recent decisions, newest first.
func (r *Recorder) Recent(n int) []Decision {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if n <= 0 || n > r.count {
		n = r.count
	}
	out := make([]Decision, 0, n)
	for i := 1; i <= n; i++ {
		idx := (r.next - i + len(r.ring)) % len(r.ring)
		out = append(out, r.ring[idx])
	}
	return out
}

// Subscribe registers a listener. The returned cancel func must be called to
// release it.
func (r *Recorder) Subscribe() (<-chan Decision, func()) {
	ch := make(chan Decision, 64)

	r.mu.Lock()
	r.subs[ch] = struct{}{}
	r.mu.Unlock()

	cancel := func() {
		r.mu.Lock()
		if _, ok := r.subs[ch]; ok {
			delete(r.subs, ch)
			close(ch)
		}
		r.mu.Unlock()
	}
	return ch, cancel
}
