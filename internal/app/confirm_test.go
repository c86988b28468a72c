package app

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	xansi "github.com/charmbracelet/x/ansi"
)

func TestConfirmViewWrapsLongMessageWithinMaxWidth(t *testing.T) {
	c := NewConfirmController()
	longName := strings.Repeat("extremely-long-document-name-", 6)
	c.Open("Cancel job", "Stop indexing "+longName+"?")

	view, _ := c.View(confirmMaxWidth, 40)
	plain := xansi.Strip(view)
	lines := strings.Split(plain, "\n")
	if len(lines) <= 5 {
		t.Fatalf("expected wrapped dialog lines, got %d lines: %q", len(lines), plain)
	}

	widest := 0
	for _, line := range lines {
		if w := xansi.StringWidth(line); w > widest {
			widest = w
		}
	}
	if widest > confirmMaxWidth {
		t.Fatalf("expected wrapped lines to fit max width %d, got %d", confirmMaxWidth, widest)
	}
}

func TestConfirmViewCentersWithinBounds(t *testing.T) {
	c := NewConfirmController()
	c.Open("Cancel job", "Stop indexing report.pdf?")

	view, row := c.View(80, 24)
	if view == "" {
		t.Fatalf("expected dialog content")
	}
	height := len(strings.Split(view, "\n"))
	if row < 1 || row+height > 24 {
		t.Fatalf("expected dialog within bounds, row=%d height=%d", row, height)
	}

	c.Close()
	if view, row := c.View(80, 24); view != "" || row != 0 {
		t.Fatalf("expected empty view when closed")
	}
}

func TestConfirmKeySelection(t *testing.T) {
	c := NewConfirmController()
	c.Open("Cancel job", "Stop?")

	handled, choice := c.HandleKey(tea.KeyPressMsg{Code: tea.KeyEnter})
	if !handled || choice != confirmChoiceConfirm {
		t.Fatalf("expected enter on default selection to confirm, got handled=%v choice=%v", handled, choice)
	}

	if handled, choice := c.HandleKey(keyRune('l')); !handled || choice != confirmChoiceNone {
		t.Fatalf("expected selection move, got handled=%v choice=%v", handled, choice)
	}
	if _, choice := c.HandleKey(tea.KeyPressMsg{Code: tea.KeyEnter}); choice != confirmChoiceCancel {
		t.Fatalf("expected enter on No to cancel, got %v", choice)
	}

	if _, choice := c.HandleKey(keyRune('y')); choice != confirmChoiceConfirm {
		t.Fatalf("expected y to confirm, got %v", choice)
	}
	if _, choice := c.HandleKey(keyRune('n')); choice != confirmChoiceCancel {
		t.Fatalf("expected n to cancel, got %v", choice)
	}
	if _, choice := c.HandleKey(tea.KeyPressMsg{Code: tea.KeyEsc}); choice != confirmChoiceCancel {
		t.Fatalf("expected esc to cancel, got %v", choice)
	}
	if handled, _ := c.HandleKey(keyRune('z')); handled {
		t.Fatalf("expected unknown key to pass through")
	}
}

func TestConfirmHandleKeyClosedIsInert(t *testing.T) {
	c := NewConfirmController()
	if handled, _ := c.HandleKey(tea.KeyPressMsg{Code: tea.KeyEnter}); handled {
		t.Fatalf("expected closed controller to ignore keys")
	}
	var nilController *ConfirmController
	if nilController.IsOpen() {
		t.Fatalf("expected nil controller to report closed")
	}
}
