package app

import (
	"strings"
	"testing"
)

func transcriptText(t *Transcript) string {
	return strings.Join(t.Lines(), "\n")
}

func TestTranscriptQuestionAndAnswerBlocks(t *testing.T) {
	tr := NewTranscript(0)
	if !tr.Empty() {
		t.Fatalf("expected new transcript to be empty")
	}

	tr.AppendQuestion("What is chapter two about?")
	tr.StartAnswer()
	tr.AppendAnswerDelta("It covers ")
	tr.AppendAnswerDelta("the setup.")
	tr.FinishAnswer()

	want := strings.Join([]string{
		"### You",
		"",
		"What is chapter two about?",
		"",
		"### Assistant",
		"",
		"It covers the setup.",
		"",
	}, "\n")
	if got := transcriptText(tr); got != want {
		t.Fatalf("unexpected transcript:\n%q\nwant:\n%q", got, want)
	}
}

func TestTranscriptDeltaSplitsOnNewlines(t *testing.T) {
	tr := NewTranscript(0)
	tr.StartAnswer()
	tr.AppendAnswerDelta("first li")
	tr.AppendAnswerDelta("ne\nsecond line\nthi")
	tr.AppendAnswerDelta("rd")

	lines := tr.Lines()
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d: %q", len(lines), lines)
	}
	if lines[2] != "first line" || lines[3] != "second line" || lines[4] != "third" {
		t.Fatalf("unexpected answer lines: %q", lines[2:])
	}
}

func TestTranscriptDeltaWithoutStartOpensAnswer(t *testing.T) {
	tr := NewTranscript(0)
	tr.AppendAnswerDelta("orphan text")

	lines := tr.Lines()
	if len(lines) != 3 || lines[0] != "### Assistant" || lines[2] != "orphan text" {
		t.Fatalf("expected auto-opened answer block, got %q", lines)
	}
}

func TestTranscriptQuestionClosesOpenAnswer(t *testing.T) {
	tr := NewTranscript(0)
	tr.StartAnswer()
	tr.AppendAnswerDelta("partial")
	tr.AppendQuestion("next question")

	lines := tr.Lines()
	// The open answer line is followed by a separating blank before the
	// question heading.
	if lines[2] != "partial" || lines[3] != "" || lines[4] != "### You" {
		t.Fatalf("expected closed answer before question, got %q", lines)
	}

	tr.AppendAnswerDelta("new answer")
	last := tr.Lines()[len(tr.Lines())-1]
	if last != "new answer" {
		t.Fatalf("expected fresh answer block after question, got %q", last)
	}
}

func TestTranscriptSourcesSkipBlankLabels(t *testing.T) {
	tr := NewTranscript(0)
	tr.StartAnswer()
	tr.AppendAnswerDelta("done")
	tr.FinishAnswer()
	tr.AppendSources([]string{"1. Introduction", "  ", "2.3 Methods"})

	want := []string{"Sources:", "- \\1. Introduction", "- 2.3 Methods", ""}
	lines := tr.Lines()
	got := lines[len(lines)-len(want):]
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected sources block: %q", got)
		}
	}

	tr.AppendSources(nil)
	if len(tr.Lines()) != len(lines) {
		t.Fatalf("expected empty label list to append nothing")
	}
}

func TestTranscriptNotice(t *testing.T) {
	tr := NewTranscript(0)
	tr.AppendNotice("run failed: provider unavailable")
	lines := tr.Lines()
	if len(lines) != 2 || lines[0] != "> run failed: provider unavailable" {
		t.Fatalf("unexpected notice lines: %q", lines)
	}
	tr.AppendNotice("   ")
	if len(tr.Lines()) != 2 {
		t.Fatalf("expected blank notice to be dropped")
	}
}

func TestTranscriptTrimKeepsOpenAnswerWritable(t *testing.T) {
	tr := NewTranscript(4)
	tr.AppendQuestion("q")
	tr.StartAnswer()
	tr.AppendAnswerDelta("abc")

	if got := len(tr.Lines()); got != 4 {
		t.Fatalf("expected transcript trimmed to 4 lines, got %d", got)
	}
	// Deltas still land on the tail after the trim shifted the open line.
	tr.AppendAnswerDelta("def")
	lines := tr.Lines()
	if lines[len(lines)-1] != "abcdef" {
		t.Fatalf("expected delta to extend trimmed answer line, got %q", lines)
	}
}

func TestTranscriptTrimmedAwayAnswerReopens(t *testing.T) {
	tr := NewTranscript(2)
	tr.StartAnswer()
	tr.AppendAnswerDelta("one\ntwo\nthree")
	tr.AppendQuestion("interrupt")

	// The question pushed the open answer line out of the window.
	tr.AppendAnswerDelta("fresh")
	lines := tr.Lines()
	if lines[len(lines)-1] != "fresh" {
		t.Fatalf("expected reopened answer after trim, got %q", lines)
	}
}

func TestTranscriptReset(t *testing.T) {
	tr := NewTranscript(0)
	tr.AppendQuestion("q")
	tr.StartAnswer()
	tr.Reset()
	if !tr.Empty() {
		t.Fatalf("expected empty transcript after reset")
	}
	tr.AppendAnswerDelta("x")
	lines := tr.Lines()
	if len(lines) != 3 || lines[0] != "### Assistant" {
		t.Fatalf("expected clean answer block after reset, got %q", lines)
	}
}
