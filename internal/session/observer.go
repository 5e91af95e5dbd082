package session

import "gradescribe/internal/stream"

// Observer receives session lifecycle callbacks for UI or logging. All
// callbacks are invoked from the apply loop, one at a time, with a value
// snapshot of the state. Observers must not call back into the
// controller from within a callback.
type Observer interface {
	// OnEvent delivers an applied event and the state that resulted.
	OnEvent(event stream.Event, state stream.State)
	// OnSessionEnd signals natural termination: completion or failure.
	// It is not invoked for aborted sessions.
	OnSessionEnd(state stream.State)
}
