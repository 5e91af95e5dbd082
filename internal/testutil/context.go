package testutil

import (
	"context"
	"testing"
	"time"
)

// DefaultTimeout is the standard timeout for unit tests.
const DefaultTimeout = 5 * time.Second

// deadliner is satisfied by *testing.T; testing.TB itself carries no
// deadline accessor.
type deadliner interface {
	Deadline() (time.Time, bool)
}

// Context returns a context with timeout tied to the test lifecycle. The
// timeout shrinks to fit the test binary deadline when one is set.
func Context(t testing.TB, timeout time.Duration) context.Context {
	t.Helper()
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if d, ok := t.(deadliner); ok {
		if deadline, ok := d.Deadline(); ok {
			remaining := time.Until(deadline) - time.Second
			if remaining > 0 && remaining < timeout {
				timeout = remaining
			}
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)
	return ctx
}
