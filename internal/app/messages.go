package app

import (
	"time"

	"outline/internal/client"
	"outline/internal/types"
)

type jobsMsg struct {
	jobs []*types.JobSummary
	err  error
}

type jobDetailMsg struct {
	id     string
	detail *types.JobDetail
	err    error
}

type cancelMsg struct {
	id     string
	detail *types.JobDetail
	err    error
}

type resultMsg struct {
	jobID  string
	doc    *types.ResultDocument
	cached bool
	err    error
}

type sessionMsg struct {
	jobID   string
	session *types.ChatSessionDetail
	err     error
}

type sessionResetMsg struct {
	jobID   string
	session *types.ChatSessionDetail
	deleted int
	err     error
}

type sendMsg struct {
	sessionID string
	content   string
	resp      *client.SendMessageResponse
	err       error
}

type healthMsg struct {
	err error
}

type selectDebounceMsg struct {
	id  string
	seq int
}

// Messages forwarded from the push event streams. The stream reader
// goroutines queue these; the tick loop drains and applies them so all
// reconciler state stays on the UI goroutine.

type jobUpdateMsg struct {
	ev types.JobUpdateEvent
}

type jobActivityMsg struct {
	ev types.JobActivityEvent
}

type jobErrorMsg struct {
	ev types.JobErrorEvent
}

type jobCompletedMsg struct {
	ev types.JobCompletedEvent
}

type jobStreamLostMsg struct {
	jobID string
}

type chatRunStartedMsg struct {
	ev types.ChatRunStartedEvent
}

type chatRetrievalMsg struct {
	ev types.ChatRetrievalCompletedEvent
}

type chatAnswerDeltaMsg struct {
	ev types.ChatAnswerDeltaEvent
}

type chatAnswerDoneMsg struct {
	ev types.ChatAnswerCompletedEvent
}

type chatRunDoneMsg struct {
	ev types.ChatRunCompletedEvent
}

type chatRunFailedMsg struct {
	ev types.ChatRunFailedEvent
}

type chatStreamLostMsg struct {
	sessionID string
	runID     string
}

type tickMsg time.Time
