package types

// ResultDocument is the indexing output for one completed job. It is
// produced exactly once and never mutated afterwards.
type ResultDocument struct {
	DocName        string        `json:"doc_name,omitempty"`
	DocDescription string        `json:"doc_description,omitempty"`
	Structure      []*ResultNode `json:"structure"`
}

type ResultNode struct {
	Title         string        `json:"title"`
	NodeID        string        `json:"node_id,omitempty"`
	Summary       string        `json:"summary,omitempty"`
	PrefixSummary string        `json:"prefix_summary,omitempty"`
	StartIndex    *int          `json:"start_index,omitempty"`
	EndIndex      *int          `json:"end_index,omitempty"`
	Text          string        `json:"text,omitempty"`
	LineNum       *int          `json:"line_num,omitempty"`
	Nodes         []*ResultNode `json:"nodes,omitempty"`
}
