package live

import (
	"io"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"gradescribe/internal/stream"
)

// Controller runs the live UI and implements session.Observer.
type Controller struct {
	updates   chan Update
	program   *tea.Program
	done      chan struct{}
	closeOnce sync.Once
}

// Start launches a live UI controller that writes to stdout.
func Start(stdout io.Writer, opts Options) *Controller {
	if stdout == nil {
		stdout = os.Stdout
	}
	updates := make(chan Update, 256)
	model := NewModel(updates, opts)
	program := tea.NewProgram(model, tea.WithOutput(stdout), tea.WithAltScreen())
	controller := &Controller{
		updates: updates,
		program: program,
		done:    make(chan struct{}),
	}
	go func() {
		_, _ = program.Run()
		close(controller.done)
	}()
	return controller
}

// Close signals the UI to stop.
func (c *Controller) Close() {
	if c == nil {
		return
	}
	c.closeOnce.Do(func() {
		close(c.updates)
	})
}

// Wait blocks until the UI has exited.
func (c *Controller) Wait() {
	if c == nil {
		return
	}
	<-c.done
}

// OnEvent forwards a stream event and resulting state to the UI.
func (c *Controller) OnEvent(event stream.Event, state stream.State) {
	c.send(Update{Kind: UpdateEvent, Event: event, State: state})
}

// OnSessionEnd forwards the terminal state to the UI and closes it.
func (c *Controller) OnSessionEnd(state stream.State) {
	c.send(Update{Kind: UpdateSessionEnd, State: state})
	c.Close()
}

// send enqueues an update without blocking the caller.
func (c *Controller) send(update Update) {
	if c == nil {
		return
	}
	select {
	case c.updates <- update:
	default:
	}
}
