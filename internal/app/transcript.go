package app

import "strings"

// Transcript accumulates the chat exchange as markdown lines. Answer text
// arrives as deltas appended to the currently open answer block; everything
// else is appended whole.
type Transcript struct {
	lines            []string
	maxLines         int
	activeAnswerLine int
	answerOpen       bool
}

func NewTranscript(maxLines int) *Transcript {
	return &Transcript{
		maxLines:         maxLines,
		activeAnswerLine: -1,
	}
}

func (t *Transcript) Reset() {
	if t == nil {
		return
	}
	t.lines = nil
	t.activeAnswerLine = -1
	t.answerOpen = false
}

func (t *Transcript) Lines() []string {
	if t == nil {
		return nil
	}
	return t.lines
}

func (t *Transcript) Empty() bool {
	return t == nil || len(t.lines) == 0
}

func (t *Transcript) AppendQuestion(text string) {
	if t == nil || strings.TrimSpace(text) == "" {
		return
	}
	t.closeAnswer()
	t.lines = append(t.lines, "### You", "")
	t.lines = append(t.lines, escapeMarkdown(text), "")
	t.trim()
}

func (t *Transcript) StartAnswer() {
	if t == nil {
		return
	}
	t.closeAnswer()
	t.lines = append(t.lines, "### Assistant", "", "")
	t.activeAnswerLine = len(t.lines) - 1
	t.answerOpen = true
	t.trim()
}

func (t *Transcript) AppendAnswerDelta(delta string) {
	if t == nil || delta == "" {
		return
	}
	if !t.answerOpen || t.activeAnswerLine < 0 || t.activeAnswerLine >= len(t.lines) {
		t.StartAnswer()
	}
	parts := strings.Split(delta, "\n")
	t.lines[t.activeAnswerLine] += parts[0]
	for _, part := range parts[1:] {
		t.lines = append(t.lines, part)
		t.activeAnswerLine = len(t.lines) - 1
	}
	t.trim()
}

func (t *Transcript) FinishAnswer() {
	if t == nil {
		return
	}
	t.closeAnswer()
	t.trim()
}

// AppendSources lists citation labels under the answer they belong to.
func (t *Transcript) AppendSources(labels []string) {
	if t == nil || len(labels) == 0 {
		return
	}
	t.closeAnswer()
	t.lines = append(t.lines, "Sources:")
	for _, label := range labels {
		if strings.TrimSpace(label) == "" {
			continue
		}
		t.lines = append(t.lines, "- "+escapeMarkdown(label))
	}
	t.lines = append(t.lines, "")
	t.trim()
}

func (t *Transcript) AppendNotice(text string) {
	if t == nil || strings.TrimSpace(text) == "" {
		return
	}
	t.closeAnswer()
	t.lines = append(t.lines, "> "+text, "")
	t.trim()
}

func (t *Transcript) closeAnswer() {
	if !t.answerOpen {
		return
	}
	t.answerOpen = false
	t.activeAnswerLine = -1
	if n := len(t.lines); n > 0 && t.lines[n-1] != "" {
		t.lines = append(t.lines, "")
	}
}

func (t *Transcript) trim() {
	if t.maxLines <= 0 || len(t.lines) <= t.maxLines {
		return
	}
	cut := len(t.lines) - t.maxLines
	t.lines = t.lines[cut:]
	if t.activeAnswerLine >= 0 {
		t.activeAnswerLine -= cut
		if t.activeAnswerLine < 0 {
			t.activeAnswerLine = -1
			t.answerOpen = false
		}
	}
}
