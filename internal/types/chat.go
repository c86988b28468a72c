package types

import "time"

type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
	RoleSystem    ChatRole = "system"
)

type ChatRunStatus string

const (
	RunStatusRunning   ChatRunStatus = "RUNNING"
	RunStatusCompleted ChatRunStatus = "COMPLETED"
	RunStatusFailed    ChatRunStatus = "FAILED"
)

func (s ChatRunStatus) Terminal() bool {
	return s == RunStatusCompleted || s == RunStatusFailed
}

// NodeCitation points at a result node by id. The display hints are
// best-effort copies taken when the citation was built; the node itself may
// be absent from the tree, in which case renderers fall back to the bare id.
type NodeCitation struct {
	NodeID     string `json:"node_id"`
	Title      string `json:"title,omitempty"`
	StartIndex *int   `json:"start_index,omitempty"`
	EndIndex   *int   `json:"end_index,omitempty"`
	LineNum    *int   `json:"line_num,omitempty"`
}

type ChatMessage struct {
	ID        string         `json:"id"`
	Role      ChatRole       `json:"role"`
	Content   string         `json:"content"`
	CreatedAt time.Time      `json:"created_at"`
	Citations []NodeCitation `json:"citations,omitempty"`
}

type ChatRun struct {
	ID                 string        `json:"id"`
	Status             ChatRunStatus `json:"status"`
	UserMessageID      string        `json:"user_message_id"`
	AssistantMessageID string        `json:"assistant_message_id"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
	RetrievalThinking  string        `json:"retrieval_thinking,omitempty"`
	SelectedNodeIDs    []string      `json:"selected_node_ids,omitempty"`
	Error              string        `json:"error,omitempty"`
}

type ChatSessionSummary struct {
	ID                 string        `json:"id"`
	JobID              string        `json:"job_id"`
	Title              string        `json:"title"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
	MessageCount       int           `json:"message_count"`
	LastMessagePreview string        `json:"last_message_preview,omitempty"`
	ActiveRunID        string        `json:"active_run_id,omitempty"`
	ActiveRunStatus    ChatRunStatus `json:"active_run_status,omitempty"`
}

type ChatSessionDetail struct {
	ChatSessionSummary
	Messages []ChatMessage `json:"messages,omitempty"`
	Runs     []ChatRun     `json:"runs,omitempty"`
}
