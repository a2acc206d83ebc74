package importer

import "sync"

// Handler processes one event. The queue never calls it concurrently.
type Handler func(Event)

// Queue is an unbounded FIFO between the ingester's worker and a single
// consumer goroutine. Push never blocks, so a slow consumer cannot stall
// an import; pending events are buffered in memory.
type Queue struct {
	mu      sync.Mutex
	cond    *sync.Cond
	pending []Event
	closed  bool
	done    chan struct{}
	handler Handler
}

// NewQueue starts the consumer goroutine that feeds handler.
func NewQueue(handler Handler) *Queue {
	q := &Queue{
		handler: handler,
		done:    make(chan struct{}),
	}
	q.cond = sync.NewCond(&q.mu)
	go q.run()
	return q
}

// Push appends e. Events pushed after Close are dropped.
func (q *Queue) Push(e Event) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.pending = append(q.pending, e)
	q.cond.Signal()
}

// Len reports how many events are waiting to be handled.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Close stops accepting events. Events already queued are still handled;
// Done is closed after the last one.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.cond.Signal()
	q.mu.Unlock()
}

// Done is closed once the consumer goroutine has exited.
func (q *Queue) Done() <-chan struct{} {
	return q.done
}

func (q *Queue) run() {
	defer close(q.done)
	for {
		q.mu.Lock()
		for len(q.pending) == 0 && !q.closed {
			q.cond.Wait()
		}
		if len(q.pending) == 0 && q.closed {
			q.mu.Unlock()
			return
		}
		batch := q.pending
		q.pending = nil
		q.mu.Unlock()

		for _, e := range batch {
			q.handler(e)
		}
	}
}
