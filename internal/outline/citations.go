package outline

import (
	"fmt"
	"strings"

	"outline/internal/types"
)

// CitationLabel renders a citation for display. Citations that resolved to
// a real node carry a title plus page or line bounds; ones that did not
// fall back to the bare node id.
func CitationLabel(c types.NodeCitation) string {
	title := strings.TrimSpace(c.Title)
	if title == "" {
		return c.NodeID
	}
	if span := pageSpan(c.StartIndex, c.EndIndex); span != "" {
		return title + " " + span
	}
	if c.LineNum != nil {
		return fmt.Sprintf("%s (line %d)", title, *c.LineNum)
	}
	return title
}

// CitationLabels renders every citation in order.
func CitationLabels(citations []types.NodeCitation) []string {
	if len(citations) == 0 {
		return nil
	}
	labels := make([]string, 0, len(citations))
	for _, c := range citations {
		labels = append(labels, CitationLabel(c))
	}
	return labels
}
