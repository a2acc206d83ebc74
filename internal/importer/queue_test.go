package importer

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestQueue_PreservesOrderWithoutReentrancy(t *testing.T) {
	var active int32
	var overlapped atomic.Bool
	var got []int

	q := NewQueue(func(e Event) {
		if atomic.AddInt32(&active, 1) > 1 {
			overlapped.Store(true)
		}
		time.Sleep(time.Microsecond)
		got = append(got, e.Line)
		atomic.AddInt32(&active, -1)
	})

	for i := 1; i <= 500; i++ {
		q.Push(Event{Kind: EventProgress, Line: i})
	}
	q.Close()

	select {
	case <-q.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("queue did not drain in time")
	}

	assert.False(t, overlapped.Load(), "handler must never run concurrently")
	assert.Len(t, got, 500)
	for i, line := range got {
		if line != i+1 {
			t.Fatalf("event %d out of order: got line %d", i, line)
		}
	}
}

func TestQueue_PushAfterCloseIsDropped(t *testing.T) {
	var count atomic.Int32
	q := NewQueue(func(e Event) { count.Add(1) })
	q.Push(Event{})
	q.Close()
	q.Push(Event{})
	<-q.Done()
	assert.Equal(t, int32(1), count.Load())
}
