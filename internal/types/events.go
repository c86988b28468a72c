package types

import "time"

// Named events delivered on the job channel.
const (
	EventJobUpdate    = "job.update"
	EventJobActivity  = "job.activity"
	EventJobError     = "job.error"
	EventJobCompleted = "job.completed"
)

// Named events delivered on the chat channel.
const (
	EventChatRunStarted         = "chat.run.started"
	EventChatRetrievalCompleted = "chat.retrieval.completed"
	EventChatAnswerDelta        = "chat.answer.delta"
	EventChatAnswerCompleted    = "chat.answer.completed"
	EventChatRunCompleted       = "chat.run.completed"
	EventChatRunFailed          = "chat.run.failed"
)

type JobUpdateEvent struct {
	Job JobDetail `json:"job"`
}

type JobActivityEvent struct {
	JobID    string       `json:"job_id"`
	Activity ActivityItem `json:"activity"`
}

type JobErrorEvent struct {
	JobID     string    `json:"job_id"`
	Error     string    `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}

type JobCompletedEvent struct {
	JobID      string    `json:"job_id"`
	Timestamp  time.Time `json:"timestamp"`
	ResultFile string    `json:"result_file,omitempty"`
}

type ChatRunStartedEvent struct {
	SessionID          string    `json:"session_id"`
	RunID              string    `json:"run_id"`
	UserMessageID      string    `json:"user_message_id"`
	AssistantMessageID string    `json:"assistant_message_id"`
	Timestamp          time.Time `json:"timestamp"`
}

type ChatRetrievalCompletedEvent struct {
	SessionID string         `json:"session_id"`
	RunID     string         `json:"run_id"`
	Thinking  string         `json:"thinking,omitempty"`
	NodeIDs   []string       `json:"node_ids,omitempty"`
	Citations []NodeCitation `json:"citations,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

type ChatAnswerDeltaEvent struct {
	SessionID          string    `json:"session_id"`
	RunID              string    `json:"run_id"`
	AssistantMessageID string    `json:"assistant_message_id"`
	Delta              string    `json:"delta"`
	Timestamp          time.Time `json:"timestamp"`
}

type ChatAnswerCompletedEvent struct {
	SessionID          string         `json:"session_id"`
	RunID              string         `json:"run_id"`
	AssistantMessageID string         `json:"assistant_message_id"`
	Citations          []NodeCitation `json:"citations,omitempty"`
	Timestamp          time.Time      `json:"timestamp"`
}

type ChatRunCompletedEvent struct {
	SessionID string    `json:"session_id"`
	RunID     string    `json:"run_id"`
	Timestamp time.Time `json:"timestamp"`
}

type ChatRunFailedEvent struct {
	SessionID string    `json:"session_id"`
	RunID     string    `json:"run_id"`
	Error     string    `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}
