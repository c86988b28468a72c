package app

import (
	"fmt"
	"strings"

	"outline/internal/outline"
	"outline/internal/types"
)

// renderOutlineLines builds the outline tab content from the cached or
// freshly fetched result document.
func renderOutlineLines(job *types.JobDetail, entry *resultEntry, showIDs bool, width int) []string {
	if job == nil {
		return []string{helpStyle.Render("No job selected.")}
	}
	if job.Status != types.JobStatusCompleted {
		switch job.Status {
		case types.JobStatusFailed:
			return []string{helpStyle.Render("No outline; the job failed.")}
		case types.JobStatusCancelled:
			return []string{helpStyle.Render("No outline; the job was cancelled.")}
		default:
			return []string{helpStyle.Render("Outline becomes available once the job completes.")}
		}
	}
	if entry == nil || entry.doc == nil {
		return []string{helpStyle.Render("Loading result…")}
	}

	doc := entry.doc
	lines := make([]string, 0, 8)
	title := strings.TrimSpace(doc.DocName)
	if title == "" {
		title = strings.TrimSpace(job.Filename)
	}
	head := headerStyle.Render(truncateToWidth(title, max(1, width-12)))
	head += "  " + statusStyle.Render(fmt.Sprintf("%d nodes", outline.CountNodes(doc.Structure)))
	if entry.cached {
		head += " " + helpStyle.Render("(cached)")
	}
	lines = append(lines, head)
	if desc := strings.TrimSpace(doc.DocDescription); desc != "" {
		lines = append(lines, statusStyle.Render(truncateToWidth(desc, max(1, width))))
	}
	lines = append(lines, "")

	body := outline.Lines(doc.Structure, showIDs)
	if len(body) == 0 {
		lines = append(lines, helpStyle.Render("(empty outline)"))
		return lines
	}
	for _, line := range body {
		lines = append(lines, truncateToWidth(line, max(1, width)))
	}
	return lines
}
