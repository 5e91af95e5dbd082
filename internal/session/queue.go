package session

import (
	"sync"

	"gradescribe/internal/stream"
)

// eventQueue decouples the transport read loop from the apply step so a
// slow consumer never blocks the connection from reading ahead. The queue
// is unbounded; backpressure is an explicit non-feature.
type eventQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []stream.Event
	closed bool
}

func newEventQueue() *eventQueue {
	q := &eventQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push appends an event. Pushes after Close are dropped.
func (q *eventQueue) Push(event stream.Event) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.items = append(q.items, event)
	q.cond.Signal()
}

// Pop blocks until an event is available or the queue is closed and
// drained. The second return value is false once no event will follow.
func (q *eventQueue) Pop() (stream.Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 && !q.closed {
		q.cond.Wait()
	}
	if len(q.items) == 0 {
		return stream.Event{}, false
	}
	event := q.items[0]
	q.items = q.items[1:]
	return event, true
}

// Close stops the queue. Queued events remain poppable.
func (q *eventQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	q.cond.Broadcast()
}
