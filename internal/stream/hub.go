// Package stream provides the replay-latest broadcast hub that feeds the
// live record streams, its NDJSON transport, and a Redis relay that keeps
// hubs on several replicas in sync.
package stream

import (
	"sync"

	"github.com/vietddude/movies/internal/metrics"
)

// DefaultBufferSize is the per-subscriber channel capacity used when none is given.
const DefaultBufferSize = 16

// Hub is a multicast channel that remembers the most recent value.
// A new subscriber first receives that value, then every later one.
// Publish never blocks: a subscriber whose buffer is full misses the value.
type Hub[T any] struct {
	name       string
	bufferSize int

	mu        sync.Mutex
	latest    T
	hasLatest bool
	nextID    uint64
	subs      map[uint64]chan T
}

// NewHub creates a hub. name labels the hub's metrics.
func NewHub[T any](name string, bufferSize int) *Hub[T] {
	if bufferSize < 1 {
		bufferSize = DefaultBufferSize
	}
	return &Hub[T]{
		name:       name,
		bufferSize: bufferSize,
		subs:       make(map[uint64]chan T),
	}
}

// Name returns the hub's label.
func (h *Hub[T]) Name() string {
	return h.name
}

// Publish caches v as the latest value and offers it to every subscriber.
func (h *Hub[T]) Publish(v T) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.latest = v
	h.hasLatest = true
	metrics.StreamPublishedTotal.WithLabelValues(h.name).Inc()

	for _, ch := range h.subs {
		select {
		case ch <- v:
		default:
			metrics.StreamDroppedTotal.WithLabelValues(h.name).Inc()
		}
	}
}

// Subscribe attaches a new subscriber. The returned cancel func detaches it
// and closes the channel; it is safe to call more than once.
func (h *Hub[T]) Subscribe() (<-chan T, func()) {
	ch := make(chan T, h.bufferSize)

	h.mu.Lock()
	if h.hasLatest {
		ch <- h.latest
	}
	id := h.nextID
	h.nextID++
	h.subs[id] = ch
	h.mu.Unlock()

	metrics.StreamSubscribers.WithLabelValues(h.name).Inc()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			close(ch)
			h.mu.Unlock()
			metrics.StreamSubscribers.WithLabelValues(h.name).Dec()
		})
	}
	return ch, cancel
}

// Latest returns the cached value, if any.
func (h *Hub[T]) Latest() (T, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.latest, h.hasLatest
}

// Subscribers returns the number of attached subscribers.
func (h *Hub[T]) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
