package app

import (
	"errors"
	"io"
	"os"
	"strings"
	"testing"
)

func TestCopyTextToClipboardUsesSystemBackend(t *testing.T) {
	origWriteAll := clipboardWriteAll
	origWriteOSC52 := clipboardWriteOSC52
	t.Cleanup(func() {
		clipboardWriteAll = origWriteAll
		clipboardWriteOSC52 = origWriteOSC52
	})

	fallbackCalled := false
	clipboardWriteAll = func(string) error { return nil }
	clipboardWriteOSC52 = func(string) error {
		fallbackCalled = true
		return nil
	}

	method, err := copyTextToClipboard("hello")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if method != clipboardMethodSystem {
		t.Fatalf("expected system method, got %v", method)
	}
	if fallbackCalled {
		t.Fatalf("expected no OSC52 fallback call")
	}
}

func TestCopyTextToClipboardFallsBackToOSC52(t *testing.T) {
	origWriteAll := clipboardWriteAll
	origWriteOSC52 := clipboardWriteOSC52
	t.Cleanup(func() {
		clipboardWriteAll = origWriteAll
		clipboardWriteOSC52 = origWriteOSC52
	})

	fallbackCalled := false
	clipboardWriteAll = func(string) error { return errors.New("exit status 1") }
	clipboardWriteOSC52 = func(string) error {
		fallbackCalled = true
		return nil
	}

	method, err := copyTextToClipboard("hello")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if method != clipboardMethodOSC52 {
		t.Fatalf("expected OSC52 method, got %v", method)
	}
	if !fallbackCalled {
		t.Fatalf("expected OSC52 fallback call")
	}
}

func TestCopyTextToClipboardHelpfulErrorWhenDisplayMissing(t *testing.T) {
	origWriteAll := clipboardWriteAll
	origWriteOSC52 := clipboardWriteOSC52
	t.Cleanup(func() {
		clipboardWriteAll = origWriteAll
		clipboardWriteOSC52 = origWriteOSC52
	})

	t.Setenv("DISPLAY", "")
	t.Setenv("WAYLAND_DISPLAY", "")
	t.Setenv("TERM", "xterm-256color")

	clipboardWriteAll = func(string) error { return errors.New("exit status 1") }
	clipboardWriteOSC52 = func(string) error { return errors.New("open /dev/tty: no such device") }

	_, err := copyTextToClipboard("hello")
	if err == nil {
		t.Fatalf("expected copy error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "no GUI clipboard available") {
		t.Fatalf("expected no-display guidance, got %q", msg)
	}
	if !strings.Contains(msg, "OSC52 fallback failed") {
		t.Fatalf("expected OSC52 fallback details, got %q", msg)
	}
}

func TestWriteOSC52ClipboardReportsTTYError(t *testing.T) {
	origOpenTTY := openTTYForWrite
	t.Cleanup(func() { openTTYForWrite = origOpenTTY })
	t.Setenv("OUTLINE_DISABLE_OSC52", "")
	t.Setenv("TERM", "xterm-256color")
	openTTYForWrite = func() (io.WriteCloser, error) {
		return nil, os.ErrNotExist
	}

	err := writeOSC52Clipboard("hello")
	if err == nil {
		t.Fatalf("expected writeOSC52Clipboard to fail without a tty")
	}
	if !strings.Contains(err.Error(), "open /dev/tty") {
		t.Fatalf("expected /dev/tty error, got %q", err.Error())
	}
}

func TestWriteOSC52ClipboardRespectsDisable(t *testing.T) {
	t.Setenv("OUTLINE_DISABLE_OSC52", "1")
	t.Setenv("TERM", "xterm-256color")

	err := writeOSC52Clipboard("hello")
	if err == nil {
		t.Fatalf("expected error when OSC52 disabled")
	}
	if !strings.Contains(err.Error(), "OSC52 unavailable") {
		t.Fatalf("expected unavailable error, got %q", err.Error())
	}
}

func TestShouldAttemptOSC52(t *testing.T) {
	cases := []struct {
		name    string
		disable string
		term    string
		want    bool
	}{
		{"normal terminal", "", "xterm-256color", true},
		{"disabled via env", "1", "xterm-256color", false},
		{"disabled via word", "true", "xterm-256color", false},
		{"empty TERM", "", "", false},
		{"dumb terminal", "", "dumb", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("OUTLINE_DISABLE_OSC52", tc.disable)
			t.Setenv("TERM", tc.term)
			if got := shouldAttemptOSC52(); got != tc.want {
				t.Fatalf("shouldAttemptOSC52() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestWriteOSC52SequenceEmitsTmuxVariant(t *testing.T) {
	t.Setenv("TMUX", "/tmp/tmux-1000/default,1234,0")
	t.Setenv("TERM", "tmux-256color")

	var buf strings.Builder
	if err := writeOSC52Sequence(&buf, "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := strings.Count(buf.String(), "]52;"); n != 2 {
		t.Fatalf("expected plain and tmux-wrapped sequences, got %d in %q", n, buf.String())
	}
}

func TestWriteOSC52SequencePlainTerminal(t *testing.T) {
	t.Setenv("TMUX", "")
	t.Setenv("TERM", "xterm-256color")

	var buf strings.Builder
	if err := writeOSC52Sequence(&buf, "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := strings.Count(buf.String(), "]52;"); n != 1 {
		t.Fatalf("expected a single sequence, got %d in %q", n, buf.String())
	}
}

func TestHumanizeClipboardError(t *testing.T) {
	t.Setenv("DISPLAY", "")
	t.Setenv("WAYLAND_DISPLAY", "")
	if got := humanizeClipboardError(errors.New("exit status 1")); !strings.Contains(got, "no GUI clipboard available") {
		t.Fatalf("expected display hint, got %q", got)
	}

	t.Setenv("DISPLAY", ":0")
	if got := humanizeClipboardError(errors.New("exit status 1")); got != "clipboard helper exited with status 1" {
		t.Fatalf("unexpected message: %q", got)
	}
	if got := humanizeClipboardError(errors.New("custom failure")); got != "custom failure" {
		t.Fatalf("expected passthrough, got %q", got)
	}
	if got := humanizeClipboardError(nil); got != "" {
		t.Fatalf("expected empty message for nil error, got %q", got)
	}
}

func TestCopyWithStatus(t *testing.T) {
	origWriteAll := clipboardWriteAll
	origWriteOSC52 := clipboardWriteOSC52
	t.Cleanup(func() {
		clipboardWriteAll = origWriteAll
		clipboardWriteOSC52 = origWriteOSC52
	})

	m := &Model{}
	clipboardWriteAll = func(string) error { return nil }
	if ok := m.copyWithStatus("text", "copied answer"); !ok {
		t.Fatalf("expected copy to succeed")
	}
	if m.status != "copied answer" {
		t.Fatalf("unexpected status: %q", m.status)
	}

	t.Setenv("DISPLAY", ":0")
	t.Setenv("WAYLAND_DISPLAY", "")
	clipboardWriteAll = func(string) error { return errors.New("no helper") }
	clipboardWriteOSC52 = func(string) error { return errors.New("no tty") }
	if ok := m.copyWithStatus("text", "copied answer"); ok {
		t.Fatalf("expected copy to fail")
	}
	if !strings.HasPrefix(m.status, "copy failed: ") {
		t.Fatalf("expected failure status, got %q", m.status)
	}
}
