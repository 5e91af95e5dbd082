package live

import "gradescribe/internal/stream"

// UpdateKind identifies the type of live UI update.
type UpdateKind int

const (
	// UpdateEvent delivers a stream event and the state after applying it.
	UpdateEvent UpdateKind = iota
	// UpdateSessionEnd signals that the session reached a terminal state.
	UpdateSessionEnd
)

// Update carries a UI update payload.
type Update struct {
	Kind  UpdateKind
	Event stream.Event
	State stream.State
}
