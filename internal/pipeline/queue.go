package pipeline

import (
	"sync"

	"github.com/ytget/ytfetch/internal/model"
)

// Queue is an unbounded FIFO of pipeline events.
// Emit never blocks; a single consumer reads C until it is closed.
type Queue struct {
	mu     sync.Mutex
	items  []model.Event
	closed bool
	wake   chan struct{}
	out    chan model.Event
}

// NewQueue creates a queue and starts its delivery goroutine
func NewQueue() *Queue {
	q := &Queue{
		wake: make(chan struct{}, 1),
		out:  make(chan model.Event),
	}
	go q.pump()
	return q
}

// Emit appends an event. Events emitted after Close are dropped.
func (q *Queue) Emit(ev model.Event) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.items = append(q.items, ev)
	q.mu.Unlock()

	q.signal()
	return true
}

// C returns the channel events are delivered on in emission order
func (q *Queue) C() <-chan model.Event {
	return q.out
}

// Close stops accepting events. Pending events are still delivered before C is closed.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()

	q.signal()
}

func (q *Queue) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *Queue) pump() {
	defer close(q.out)
	for {
		q.mu.Lock()
		for len(q.items) == 0 && !q.closed {
			q.mu.Unlock()
			<-q.wake
			q.mu.Lock()
		}
		if len(q.items) == 0 {
			q.mu.Unlock()
			return
		}
		ev := q.items[0]
		q.items[0] = nil
		q.items = q.items[1:]
		q.mu.Unlock()

		q.out <- ev
	}
}
