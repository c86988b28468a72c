package app

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"

	"outline/internal/live"
	"outline/internal/outline"
	"outline/internal/types"
)

const maxCandidateLines = 6

// resolveCitationLabels fills in titles and bounds for citations that only
// carry a node id, using the flattened result tree, then renders each label.
func resolveCitationLabels(citations []types.NodeCitation, nodes map[string]*types.ResultNode) []string {
	if len(citations) == 0 {
		return nil
	}
	labels := make([]string, 0, len(citations))
	for _, c := range citations {
		if node, ok := nodes[c.NodeID]; ok && node != nil {
			if strings.TrimSpace(c.Title) == "" {
				c.Title = node.Title
			}
			if c.StartIndex == nil {
				c.StartIndex = node.StartIndex
			}
			if c.EndIndex == nil {
				c.EndIndex = node.EndIndex
			}
			if c.LineNum == nil {
				c.LineNum = node.LineNum
			}
		}
		labels = append(labels, outline.CitationLabel(c))
	}
	return labels
}

// renderChatContent builds the chat tab viewport content. The input line
// itself lives outside the viewport.
func renderChatContent(job *types.JobDetail, chat *live.ChatCoordinator, transcript *Transcript, nodes map[string]*types.ResultNode, width int, markdown bool) string {
	if job == nil {
		return helpStyle.Render("No job selected.")
	}
	if job.Status != types.JobStatusCompleted {
		switch job.Status {
		case types.JobStatusFailed:
			return helpStyle.Render("Chat is unavailable; the job failed.")
		case types.JobStatusCancelled:
			return helpStyle.Render("Chat is unavailable; the job was cancelled.")
		default:
			return helpStyle.Render("Chat opens once the job completes.")
		}
	}
	if chat == nil || chat.Session() == nil {
		return helpStyle.Render("Preparing chat session…")
	}

	var sections []string
	if transcript == nil || transcript.Empty() {
		sections = append(sections, helpStyle.Render("Ask a question about this document. Press a to focus the input."))
	} else {
		sections = append(sections, renderTranscript(transcript.Lines(), width, markdown))
	}
	if footer := renderRunFooter(chat, nodes, width); footer != "" {
		sections = append(sections, footer)
	}
	return strings.Join(sections, "\n")
}

// renderRunFooter shows transient run state below the transcript while a
// run is in flight, plus any send error.
func renderRunFooter(chat *live.ChatCoordinator, nodes map[string]*types.ResultNode, width int) string {
	var lines []string
	switch chat.Phase() {
	case live.PhaseAwaitingRun:
		lines = append(lines, thinkingStyle.Render("sending…"))
	case live.PhaseStreaming:
		if thinking := strings.TrimSpace(chat.Thinking()); thinking != "" {
			wrapped := xansi.Hardwrap(thinking, max(1, width-2), true)
			for _, tl := range strings.Split(wrapped, "\n") {
				lines = append(lines, thinkingStyle.Render(tl))
			}
		} else {
			lines = append(lines, thinkingStyle.Render("thinking…"))
		}
		labels := resolveCitationLabels(chat.Candidates(), nodes)
		if len(labels) > maxCandidateLines {
			labels = labels[:maxCandidateLines]
		}
		for _, label := range labels {
			lines = append(lines, sourceStyle.Render("→ "+truncateToWidth(label, max(1, width-4))))
		}
	}
	if errText := chat.LastError(); errText != "" {
		lines = append(lines, errorStyle.Render(truncateToWidth(errText, max(1, width))))
	}
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n")
}
