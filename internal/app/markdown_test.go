package app

import (
	"strings"
	"testing"

	xansi "github.com/charmbracelet/x/ansi"
)

func TestBuildStyleConfigDisablesDocumentOuterMargins(t *testing.T) {
	for _, dark := range []bool{true, false} {
		cfg := buildStyleConfig(dark)
		if cfg.Document.StylePrimitive.BlockPrefix != "" {
			t.Fatalf("dark=%v: expected empty document block prefix, got %q", dark, cfg.Document.StylePrimitive.BlockPrefix)
		}
		if cfg.Document.StylePrimitive.BlockSuffix != "" {
			t.Fatalf("dark=%v: expected empty document block suffix, got %q", dark, cfg.Document.StylePrimitive.BlockSuffix)
		}
		if cfg.Document.Margin == nil {
			t.Fatalf("dark=%v: expected document margin pointer", dark)
		}
		if *cfg.Document.Margin != 0 {
			t.Fatalf("dark=%v: expected zero document margin, got %d", dark, *cfg.Document.Margin)
		}
	}
}

func TestBuildStyleConfigStylesSpeakerHeadings(t *testing.T) {
	cfg := buildStyleConfig(true)
	if cfg.H3.StylePrimitive.Color == nil || *cfg.H3.StylePrimitive.Color != "63" {
		t.Fatalf("expected speaker heading color 63, got %v", cfg.H3.StylePrimitive.Color)
	}
	if cfg.H3.StylePrimitive.Bold == nil || !*cfg.H3.StylePrimitive.Bold {
		t.Fatalf("expected bold speaker headings")
	}
	if cfg.BlockQuote.StylePrimitive.Faint == nil || !*cfg.BlockQuote.StylePrimitive.Faint {
		t.Fatalf("expected faint notice quotes")
	}
}

func TestRenderTranscriptPlainPath(t *testing.T) {
	out := renderTranscript([]string{"question line", "", "answer line"}, 40, false)
	if out != "question line\n\nanswer line" {
		t.Fatalf("unexpected plain render: %q", out)
	}
}

func TestRenderTranscriptPlainPathHardwrapsLongLines(t *testing.T) {
	long := strings.Repeat("abcde ", 10)
	out := renderTranscript([]string{long}, 12, false)
	rows := strings.Split(out, "\n")
	if len(rows) < 2 {
		t.Fatalf("expected wrapped output, got %q", out)
	}
	for _, row := range rows {
		if w := xansi.StringWidth(row); w > 12 {
			t.Fatalf("row %q exceeds width: %d", row, w)
		}
	}
}

func TestRenderTranscriptEmptyInput(t *testing.T) {
	if out := renderTranscript(nil, 40, false); out != "" {
		t.Fatalf("expected empty plain render, got %q", out)
	}
	if out := renderTranscript([]string{"", ""}, 40, false); out != "" {
		t.Fatalf("expected blank lines to render empty, got %q", out)
	}
	if out := renderTranscript(nil, 40, true); out != "" {
		t.Fatalf("expected empty markdown render, got %q", out)
	}
}

func TestRenderTranscriptZeroWidthUsesDefault(t *testing.T) {
	out := renderTranscript([]string{"short line"}, 0, false)
	if out != "short line" {
		t.Fatalf("expected default width to keep short line intact, got %q", out)
	}
}

func TestEscapeMarkdown(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"plain text", "plain text"},
		{"`code`", "\\`code\\`"},
		{"# heading", "\\# heading"},
		{"> quoted", "\\> quoted"},
		{"- bullet", "\\- bullet"},
		{"* bullet", "\\* bullet"},
		{"+ bullet", "\\+ bullet"},
		{"1. Introduction", "\\1. Introduction"},
		{"12. Later section", "\\12. Later section"},
		{"2.3 Methods", "2.3 Methods"},
		{"  - indented", "  \\- indented"},
		{"one\n# two", "one\n\\# two"},
	}
	for _, tc := range cases {
		if got := escapeMarkdown(tc.in); got != tc.want {
			t.Fatalf("escapeMarkdown(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestIsNumberedList(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"1. item", true},
		{"42. item", true},
		{"1.item", false},
		{". item", false},
		{"1a. item", false},
		{"1.", false},
		{"", false},
		{"no dot here", false},
	}
	for _, tc := range cases {
		if got := isNumberedList(tc.in); got != tc.want {
			t.Fatalf("isNumberedList(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestSetMarkdownBackgroundDarkReportsChanges(t *testing.T) {
	orig := markdownBackgroundDark()
	defer setMarkdownBackgroundDark(orig)

	setMarkdownBackgroundDark(true)
	if changed := setMarkdownBackgroundDark(true); changed {
		t.Fatalf("expected no change when setting same mode")
	}
	if changed := setMarkdownBackgroundDark(false); !changed {
		t.Fatalf("expected change when flipping mode")
	}
	if markdownBackgroundDark() {
		t.Fatalf("expected light mode after flip")
	}
}

func TestGetRendererCachesPerWidthAndTheme(t *testing.T) {
	a := getRenderer(72, true)
	if a == nil {
		t.Fatalf("expected renderer")
	}
	if b := getRenderer(72, true); b != a {
		t.Fatalf("expected cached renderer for same width and theme")
	}
	if c := getRenderer(60, true); c == a {
		t.Fatalf("expected distinct renderer for different width")
	}
	if d := getRenderer(72, false); d == a {
		t.Fatalf("expected distinct renderer for different theme")
	}
}
