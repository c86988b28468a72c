// Package outline derives display structures from job result documents:
// the flattened node map, indented outline listings, and citation labels.
package outline

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"outline/internal/types"
)

// ParseDocument decodes a raw result payload. A document without a
// structure list is rejected; everything else in the payload is optional.
func ParseDocument(data []byte) (*types.ResultDocument, error) {
	var doc types.ResultDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode result document: %w", err)
	}
	if doc.Structure == nil {
		return nil, errors.New("result document has no structure")
	}
	return &doc, nil
}

// FlattenTree walks the structure depth first and maps node ids to nodes.
// Nodes without an id are skipped but their children are still visited.
func FlattenTree(roots []*types.ResultNode) map[string]*types.ResultNode {
	nodeMap := make(map[string]*types.ResultNode)
	var walk func(node *types.ResultNode)
	walk = func(node *types.ResultNode) {
		if node == nil {
			return
		}
		if node.NodeID != "" {
			nodeMap[node.NodeID] = node
		}
		for _, child := range node.Nodes {
			walk(child)
		}
	}
	for _, root := range roots {
		walk(root)
	}
	return nodeMap
}

// Lines renders the tree as an indented listing, one node per line, with
// page bounds and (optionally) node ids appended to each title.
func Lines(roots []*types.ResultNode, showIDs bool) []string {
	var lines []string
	var walk func(node *types.ResultNode, depth int)
	walk = func(node *types.ResultNode, depth int) {
		if node == nil {
			return
		}
		var b strings.Builder
		b.WriteString(strings.Repeat("  ", depth))
		title := strings.TrimSpace(node.Title)
		if title == "" {
			title = "(untitled)"
		}
		b.WriteString(title)
		if span := pageSpan(node.StartIndex, node.EndIndex); span != "" {
			b.WriteString("  ")
			b.WriteString(span)
		}
		if showIDs && node.NodeID != "" {
			b.WriteString("  [")
			b.WriteString(node.NodeID)
			b.WriteString("]")
		}
		lines = append(lines, b.String())
		for _, child := range node.Nodes {
			walk(child, depth+1)
		}
	}
	for _, root := range roots {
		walk(root, 0)
	}
	return lines
}

// CountNodes returns the total number of nodes in the tree.
func CountNodes(roots []*types.ResultNode) int {
	count := 0
	var walk func(node *types.ResultNode)
	walk = func(node *types.ResultNode) {
		if node == nil {
			return
		}
		count++
		for _, child := range node.Nodes {
			walk(child)
		}
	}
	for _, root := range roots {
		walk(root)
	}
	return count
}

func pageSpan(start, end *int) string {
	switch {
	case start != nil && end != nil && *start != *end:
		return fmt.Sprintf("(pp. %d-%d)", *start, *end)
	case start != nil && end != nil:
		return fmt.Sprintf("(p. %d)", *start)
	case start != nil:
		return fmt.Sprintf("(p. %d)", *start)
	default:
		return ""
	}
}
