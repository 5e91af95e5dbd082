package testutil

import (
	"testing"
	"time"
)

// Eventually polls condition every interval until it holds, failing the
// test when timeout elapses first. Useful for session assertions that
// depend on the apply loop catching up.
func Eventually(t testing.TB, timeout, interval time.Duration, condition func() bool, msg string) {
	t.Helper()
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if condition() {
			return
		}
		select {
		case <-timer.C:
			if msg == "" {
				msg = "condition not met before timeout"
			}
			t.Fatalf("%s", msg)
		case <-ticker.C:
		}
	}
}
