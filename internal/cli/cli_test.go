package cli

import (
	"bytes"
	"strings"
	"testing"
)

// TestRunWithoutArgsPrintsUsage verifies the bare invocation is a usage error.
func TestRunWithoutArgsPrintsUsage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Run(nil, &stdout, &stderr)
	if code != ExitUsage {
		t.Fatalf("expected usage exit, got %d", code)
	}
	if !strings.Contains(stdout.String(), "Usage:") {
		t.Fatalf("expected usage output, got %q", stdout.String())
	}
}

// TestRunHelp verifies help flags succeed and list commands.
func TestRunHelp(t *testing.T) {
	for _, arg := range []string{"-h", "--help", "help"} {
		var stdout, stderr bytes.Buffer
		code := Run([]string{arg}, &stdout, &stderr)
		if code != ExitOK {
			t.Fatalf("%s: expected ok exit, got %d", arg, code)
		}
		if !strings.Contains(stdout.String(), "transcribe") || !strings.Contains(stdout.String(), "validate") {
			t.Fatalf("%s: expected command list, got %q", arg, stdout.String())
		}
	}
}

// TestRunUnknownCommand verifies unknown commands are rejected.
func TestRunUnknownCommand(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Run([]string{"grade"}, &stdout, &stderr)
	if code != ExitUsage {
		t.Fatalf("expected usage exit, got %d", code)
	}
	if !strings.Contains(stderr.String(), "Unknown command: grade") {
		t.Fatalf("expected unknown command message, got %q", stderr.String())
	}
}

// TestCommandHelp verifies per-command help output.
func TestCommandHelp(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Run([]string{"transcribe", "--help"}, &stdout, &stderr)
	if code != ExitOK {
		t.Fatalf("expected ok exit, got %d", code)
	}
	if !strings.Contains(stdout.String(), "gradescribe transcribe") {
		t.Fatalf("expected transcribe usage, got %q", stdout.String())
	}
}
