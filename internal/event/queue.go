package event

import "sync"

// Queue buffers events emitted during a tick so they can be delivered after
// the tick completes. It is not safe for concurrent use; each simulation
// owns its own queue.
type Queue struct {
	pending []Event
}

// Emit appends e to the queue. Implements Sink.
func (q *Queue) Emit(e Event) {
	q.pending = append(q.pending, e)
}

// Len returns the number of queued events.
func (q *Queue) Len() int {
	return len(q.pending)
}

// Flush delivers all queued events to s in emission order and empties the
// queue. The backing array is reused.
func (q *Queue) Flush(s Sink) {
	for _, e := range q.pending {
		s.Emit(e)
	}
	clear(q.pending)
	q.pending = q.pending[:0]
}

// Bus fans events out to any number of subscribers. Subscribing and emitting
// may happen from different goroutines.
type Bus struct {
	mu    sync.RWMutex
	sinks []Sink
}

// Subscribe registers s for all future events.
func (b *Bus) Subscribe(s Sink) {
	if s == nil {
		return
	}
	b.mu.Lock()
	b.sinks = append(b.sinks, s)
	b.mu.Unlock()
}

// Emit forwards e to every subscriber. Implements Sink.
func (b *Bus) Emit(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, s := range b.sinks {
		s.Emit(e)
	}
}
