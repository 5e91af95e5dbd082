package session

import (
	"testing"
	"time"

	"gradescribe/internal/stream"
)

// TestQueueOrdering verifies events pop in push order.
func TestQueueOrdering(t *testing.T) {
	queue := newEventQueue()
	for _, delta := range []string{"a", "b", "c"} {
		queue.Push(stream.Event{Kind: stream.KindRawChunk, Delta: delta})
	}
	queue.Close()
	var got []string
	for {
		event, ok := queue.Pop()
		if !ok {
			break
		}
		got = append(got, event.Delta)
	}
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("expected FIFO order, got %v", got)
	}
}

// TestQueueDrainsAfterClose verifies queued events stay poppable after
// close while new pushes are dropped.
func TestQueueDrainsAfterClose(t *testing.T) {
	queue := newEventQueue()
	queue.Push(stream.Event{Kind: stream.KindDone})
	queue.Close()
	queue.Push(stream.Event{Kind: stream.KindError})

	event, ok := queue.Pop()
	if !ok || event.Kind != stream.KindDone {
		t.Fatalf("expected queued event after close, got %+v ok=%t", event, ok)
	}
	if _, ok := queue.Pop(); ok {
		t.Fatalf("push after close must be dropped")
	}
}

// TestQueuePopBlocksUntilPush verifies a blocked consumer wakes on push.
func TestQueuePopBlocksUntilPush(t *testing.T) {
	queue := newEventQueue()
	popped := make(chan stream.Event, 1)
	go func() {
		event, ok := queue.Pop()
		if ok {
			popped <- event
		}
	}()

	time.Sleep(10 * time.Millisecond)
	queue.Push(stream.Event{Kind: stream.KindPhase})

	select {
	case event := <-popped:
		if event.Kind != stream.KindPhase {
			t.Fatalf("unexpected event %+v", event)
		}
	case <-time.After(time.Second):
		t.Fatalf("pop did not wake on push")
	}
}
