package app

import (
	"sync"

	tea "charm.land/bubbletea/v2"

	"outline/internal/live"
	"outline/internal/logging"
	"outline/internal/types"
)

// liveQueue buffers messages produced on stream reader goroutines until the
// tick loop drains them on the UI goroutine.
type liveQueue struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func newLiveQueue() *liveQueue {
	return &liveQueue{}
}

func (q *liveQueue) push(msg tea.Msg) {
	if q == nil || msg == nil {
		return
	}
	q.mu.Lock()
	q.msgs = append(q.msgs, msg)
	q.mu.Unlock()
}

func (q *liveQueue) drain(limit int) []tea.Msg {
	if q == nil {
		return nil
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.msgs) == 0 {
		return nil
	}
	if limit <= 0 || limit >= len(q.msgs) {
		out := q.msgs
		q.msgs = nil
		return out
	}
	out := q.msgs[:limit:limit]
	q.msgs = append([]tea.Msg(nil), q.msgs[limit:]...)
	return out
}

func (q *liveQueue) pending() int {
	if q == nil {
		return 0
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.msgs)
}

func newJobEventChannel(streams StreamAPI, queue *liveQueue, logger logging.Logger) *live.JobChannel {
	handlers := live.JobHandlers{
		Update: func(ev types.JobUpdateEvent) {
			queue.push(jobUpdateMsg{ev: ev})
		},
		Activity: func(ev types.JobActivityEvent) {
			queue.push(jobActivityMsg{ev: ev})
		},
		JobError: func(ev types.JobErrorEvent) {
			queue.push(jobErrorMsg{ev: ev})
		},
		Completed: func(ev types.JobCompletedEvent) {
			queue.push(jobCompletedMsg{ev: ev})
		},
		ConnectionLost: func(jobID string) {
			queue.push(jobStreamLostMsg{jobID: jobID})
		},
	}
	return live.NewJobChannel(streams, handlers, live.WithLogger(logger))
}

func newChatEventChannel(streams StreamAPI, queue *liveQueue, logger logging.Logger) *live.ChatChannel {
	handlers := live.ChatHandlers{
		RunStarted: func(ev types.ChatRunStartedEvent) {
			queue.push(chatRunStartedMsg{ev: ev})
		},
		RetrievalCompleted: func(ev types.ChatRetrievalCompletedEvent) {
			queue.push(chatRetrievalMsg{ev: ev})
		},
		AnswerDelta: func(ev types.ChatAnswerDeltaEvent) {
			queue.push(chatAnswerDeltaMsg{ev: ev})
		},
		AnswerCompleted: func(ev types.ChatAnswerCompletedEvent) {
			queue.push(chatAnswerDoneMsg{ev: ev})
		},
		RunCompleted: func(ev types.ChatRunCompletedEvent) {
			queue.push(chatRunDoneMsg{ev: ev})
		},
		RunFailed: func(ev types.ChatRunFailedEvent) {
			queue.push(chatRunFailedMsg{ev: ev})
		},
		ConnectionLost: func(sessionID, runID string) {
			queue.push(chatStreamLostMsg{sessionID: sessionID, runID: runID})
		},
	}
	return live.NewChatChannel(streams, handlers, live.WithLogger(logger))
}
