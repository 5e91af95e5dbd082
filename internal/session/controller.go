package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"gradescribe/internal/stream"
)

// Status is the controller state machine position.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusStreaming Status = "streaming"
	StatusComplete  Status = "complete"
	StatusFailed    Status = "failed"
	StatusAborted   Status = "aborted"
)

// ErrSessionActive is returned when a session is already streaming.
var ErrSessionActive = errors.New("session already active")

// ErrSessionFinished is returned when Start is called on a finished
// session before Reset.
var ErrSessionFinished = errors.New("session finished: reset before starting again")

// Controller owns at most one live session at a time. Exactly one
// goroutine applies events, strictly in arrival order; everything else
// reads value snapshots.
type Controller struct {
	opener    Opener
	observers []Observer

	// cbMu serializes observer callbacks with Abort so no callback can
	// still be in flight once Abort returns.
	cbMu sync.Mutex

	mu         sync.Mutex
	opening    bool
	status     Status
	state      stream.State
	generation int
	queue      *eventQueue
	source     Source
	cancel     context.CancelFunc
	done       chan struct{}
}

// Handle is the single-owner reference to a live session. It is
// invalidated by Abort and by Controller.Reset.
type Handle struct {
	controller *Controller
	generation int
	done       chan struct{}
}

// Abort cancels the session this handle refers to. It is a no-op when the
// session is already terminal or the handle has been invalidated.
func (h *Handle) Abort() {
	h.controller.abort(h.generation)
}

// Done is closed when the session reaches a terminal status.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// New constructs an idle controller.
func New(opener Opener, observers ...Observer) *Controller {
	return &Controller{
		opener:    opener,
		observers: observers,
		status:    StatusIdle,
		state:     stream.NewState(),
	}
}

// Status returns the current state machine position.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// State returns a value snapshot of the session state. Captured state
// survives an abort, marked incomplete.
func (c *Controller) State() stream.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Start opens the streaming connection and begins dispatching events. It
// blocks only for connection establishment; delivery is asynchronous. The
// returned handle exposes Abort and termination signaling. Streaming is
// reachable only from idle: a finished session must be Reset first.
func (c *Controller) Start(ctx context.Context, req Request) (*Handle, error) {
	c.mu.Lock()
	if c.status == StatusStreaming || c.opening {
		c.mu.Unlock()
		return nil, ErrSessionActive
	}
	if c.status != StatusIdle {
		c.mu.Unlock()
		return nil, ErrSessionFinished
	}
	c.opening = true
	c.mu.Unlock()

	streamCtx, cancel := context.WithCancel(ctx)
	source, err := c.opener.Open(streamCtx, req)
	if err != nil {
		cancel()
		c.mu.Lock()
		c.opening = false
		c.mu.Unlock()
		return nil, fmt.Errorf("open transcription stream: %w", err)
	}

	c.mu.Lock()
	c.opening = false
	c.generation++
	c.state = stream.NewState()
	c.status = StatusStreaming
	c.queue = newEventQueue()
	c.source = source
	c.cancel = cancel
	c.done = make(chan struct{})
	handle := &Handle{controller: c, generation: c.generation, done: c.done}
	queue := c.queue
	c.mu.Unlock()

	go c.readLoop(streamCtx, source, queue)
	go c.applyLoop(queue)
	return handle, nil
}

// Reset discards the session state entirely, returning to the pre-session
// initial value. A streaming session must be aborted first.
func (c *Controller) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status == StatusStreaming || c.opening {
		return ErrSessionActive
	}
	c.generation++
	c.state = stream.NewState()
	c.status = StatusIdle
	c.queue = nil
	c.source = nil
	c.cancel = nil
	c.done = nil
	return nil
}

// abort cancels the connection and guarantees no further observer
// callbacks fire once it returns. Events already in flight are discarded.
func (c *Controller) abort(generation int) {
	c.mu.Lock()
	if generation != c.generation || c.status != StatusStreaming {
		c.mu.Unlock()
		return
	}
	c.status = StatusAborted
	c.cancel()
	_ = c.source.Close()
	c.queue.Close()
	done := c.done
	c.mu.Unlock()

	// Barrier: an observer callback that was already running finishes
	// before abort returns; later queue pops see the aborted status.
	c.cbMu.Lock()
	c.cbMu.Unlock() //nolint:staticcheck // empty critical section is the barrier
	close(done)
}

// readLoop moves transport events onto the dispatch queue. Transport
// failures surface as a terminal error event; cancellation ends the loop
// silently.
func (c *Controller) readLoop(ctx context.Context, source Source, queue *eventQueue) {
	defer func() { _ = source.Close() }()
	for {
		event, err := source.Recv()
		if err != nil {
			if !errors.Is(err, io.EOF) && ctx.Err() == nil {
				queue.Push(stream.Event{Kind: stream.KindError, Message: "transport: " + err.Error()})
			}
			queue.Close()
			return
		}
		queue.Push(event)
	}
}

// applyLoop is the single writer: it folds queued events into the state
// and fans out observer callbacks.
func (c *Controller) applyLoop(queue *eventQueue) {
	for {
		event, ok := queue.Pop()
		if !ok {
			break
		}
		c.apply(event)
	}
	c.finish()
}

// apply reduces one event under the callback lock so Abort can act as a
// barrier. Events arriving after a terminal status are discarded.
func (c *Controller) apply(event stream.Event) {
	c.cbMu.Lock()
	defer c.cbMu.Unlock()

	c.mu.Lock()
	if c.status != StatusStreaming {
		c.mu.Unlock()
		return
	}
	c.state = stream.Reduce(c.state, event)
	snapshot := c.state
	terminal := false
	if snapshot.Complete {
		c.status = StatusComplete
		terminal = true
	} else if snapshot.Error != "" {
		c.status = StatusFailed
		terminal = true
	}
	done := c.done
	c.mu.Unlock()

	for _, observer := range c.observers {
		observer.OnEvent(event, snapshot)
	}
	if terminal {
		for _, observer := range c.observers {
			observer.OnSessionEnd(snapshot)
		}
		close(done)
	}
}

// finish handles a queue that closed without a terminal event: a stream
// that ended before completion is a transport failure.
func (c *Controller) finish() {
	c.cbMu.Lock()
	defer c.cbMu.Unlock()

	c.mu.Lock()
	if c.status != StatusStreaming {
		c.mu.Unlock()
		return
	}
	c.state = stream.Reduce(c.state, stream.Event{
		Kind:    stream.KindError,
		Message: "transport: stream closed before completion",
	})
	c.status = StatusFailed
	snapshot := c.state
	done := c.done
	c.mu.Unlock()

	for _, observer := range c.observers {
		observer.OnSessionEnd(snapshot)
	}
	close(done)
}
