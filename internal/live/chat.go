package live

import (
	"errors"
	"strings"
	"time"

	"outline/internal/client"
	"outline/internal/types"
)

// Phase is the chat run state machine position. A send moves Idle to
// AwaitingRun and run.started confirms Streaming; the run's terminal
// event lands on Completed or Failed. Replacing or clearing the session
// returns to Idle.
type Phase string

const (
	PhaseIdle        Phase = "idle"
	PhaseAwaitingRun Phase = "awaiting_run"
	PhaseStreaming   Phase = "streaming"
	PhaseCompleted   Phase = "completed"
	PhaseFailed      Phase = "failed"
)

// Busy reports whether a run is in flight, which blocks new sends.
func (p Phase) Busy() bool {
	return p == PhaseAwaitingRun || p == PhaseStreaming
}

// Local precondition violations, rejected before any network call.
var (
	ErrEmptyMessage = errors.New("message is empty")
	ErrRunActive    = errors.New("a run is already in progress")
	ErrNoSession    = errors.New("no chat session")
)

// ChatEffects describes follow-up work after a terminal run event.
type ChatEffects struct {
	// CloseChannel asks the caller to unsubscribe the run's event channel.
	CloseChannel bool
	// RefetchSession names the session to re-fetch so fields not covered
	// by incremental events (counts, previews, run list) reconcile.
	RefetchSession string
}

func (e ChatEffects) Empty() bool {
	return !e.CloseChannel && e.RefetchSession == ""
}

// ChatCoordinator owns the canonical chat session for the selected job
// and drives the run state machine from push events. Streamed answer
// fragments accumulate in arrival order on the assistant message they
// name; citations attach only once answer.completed arrives.
//
// Methods must be called from a single goroutine.
type ChatCoordinator struct {
	session    *types.ChatSessionDetail
	phase      Phase
	activeRun  string
	thinking   string
	nodeIDs    []string
	candidates []types.NodeCitation
	lastError  string
	refetched  map[string]bool
	degraded   bool
}

func NewChatCoordinator() *ChatCoordinator {
	return &ChatCoordinator{
		phase:     PhaseIdle,
		refetched: make(map[string]bool),
	}
}

// ApplySession replaces the held session wholesale from a snapshot fetch.
// It reports whether the snapshot was applied: a snapshot that does not
// know about the run currently in flight is stale and is discarded, so a
// slow re-fetch from a finished run cannot wipe a newer exchange.
func (c *ChatCoordinator) ApplySession(detail *types.ChatSessionDetail) bool {
	if detail == nil {
		return false
	}
	if c.phase.Busy() && c.activeRun != "" && detail.ActiveRunID != c.activeRun {
		return false
	}
	d := *detail
	c.session = &d
	if d.ActiveRunID != "" && d.ActiveRunStatus == types.RunStatusRunning {
		c.phase = PhaseStreaming
		c.activeRun = d.ActiveRunID
	} else {
		c.phase = PhaseIdle
		c.activeRun = ""
		c.thinking = ""
		c.nodeIDs = nil
		c.candidates = nil
	}
	return true
}

// Clear drops all session state, used when the selected job changes.
func (c *ChatCoordinator) Clear() {
	c.session = nil
	c.phase = PhaseIdle
	c.activeRun = ""
	c.thinking = ""
	c.nodeIDs = nil
	c.candidates = nil
	c.lastError = ""
	c.degraded = false
}

// BeginSend validates a new message locally and moves to AwaitingRun. It
// returns the trimmed content to post. No state is touched on rejection.
func (c *ChatCoordinator) BeginSend(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", ErrEmptyMessage
	}
	if c.phase.Busy() {
		return "", ErrRunActive
	}
	if c.session == nil {
		return "", ErrNoSession
	}
	c.phase = PhaseAwaitingRun
	c.lastError = ""
	c.thinking = ""
	c.nodeIDs = nil
	c.candidates = nil
	return trimmed, nil
}

// FailSend returns to Idle after the send request itself failed.
func (c *ChatCoordinator) FailSend(err error) {
	c.phase = PhaseIdle
	if err != nil {
		c.lastError = err.Error()
	}
}

// ApplySendAccepted records the server's response to a send: the user
// message, the empty assistant message the stream will fill, and the new
// RUNNING run. The phase stays AwaitingRun until run.started confirms.
func (c *ChatCoordinator) ApplySendAccepted(resp client.SendMessageResponse, content string, now time.Time) {
	if c.session == nil {
		return
	}
	c.session.Messages = append(c.session.Messages,
		types.ChatMessage{
			ID:        resp.UserMessageID,
			Role:      types.RoleUser,
			Content:   content,
			CreatedAt: now,
		},
		types.ChatMessage{
			ID:        resp.AssistantMessageID,
			Role:      types.RoleAssistant,
			CreatedAt: now,
		})
	c.session.Runs = append(c.session.Runs, types.ChatRun{
		ID:                 resp.RunID,
		Status:             types.RunStatusRunning,
		UserMessageID:      resp.UserMessageID,
		AssistantMessageID: resp.AssistantMessageID,
		CreatedAt:          now,
		UpdatedAt:          now,
	})
	c.session.MessageCount += 2
	c.session.ActiveRunID = resp.RunID
	c.session.ActiveRunStatus = types.RunStatusRunning
	c.activeRun = resp.RunID
}

// ApplyRunStarted confirms the in-flight run is live.
func (c *ChatCoordinator) ApplyRunStarted(ev types.ChatRunStartedEvent) {
	c.degraded = false
	if ev.RunID != c.activeRun {
		return
	}
	c.phase = PhaseStreaming
}

// ApplyRetrievalCompleted stores the retrieval rationale and candidate
// nodes for display. The run keeps streaming afterwards; an empty
// candidate list is valid.
func (c *ChatCoordinator) ApplyRetrievalCompleted(ev types.ChatRetrievalCompletedEvent) {
	c.degraded = false
	if ev.RunID != c.activeRun {
		return
	}
	c.thinking = ev.Thinking
	c.nodeIDs = ev.NodeIDs
	c.candidates = ev.Citations
	if c.session == nil {
		return
	}
	for i := range c.session.Runs {
		if c.session.Runs[i].ID == ev.RunID {
			c.session.Runs[i].RetrievalThinking = ev.Thinking
			c.session.Runs[i].SelectedNodeIDs = ev.NodeIDs
			return
		}
	}
}

// ApplyAnswerDelta appends one streamed fragment to the assistant message
// it names, preserving arrival order. A fragment for a message not held
// locally is a no-op rather than an error.
func (c *ChatCoordinator) ApplyAnswerDelta(ev types.ChatAnswerDeltaEvent) {
	c.degraded = false
	msg := c.findMessage(ev.AssistantMessageID)
	if msg == nil {
		return
	}
	msg.Content += ev.Delta
}

// ApplyAnswerCompleted attaches the final citation list to the assistant
// message. Accumulated text is untouched; deltas are the sole source of
// content.
func (c *ChatCoordinator) ApplyAnswerCompleted(ev types.ChatAnswerCompletedEvent) {
	c.degraded = false
	msg := c.findMessage(ev.AssistantMessageID)
	if msg == nil {
		return
	}
	msg.Citations = ev.Citations
}

// ApplyRunCompleted marks the run COMPLETED. The first application asks
// the caller to close the run channel and re-fetch the session; replays
// change nothing and ask for nothing.
func (c *ChatCoordinator) ApplyRunCompleted(ev types.ChatRunCompletedEvent) ChatEffects {
	c.degraded = false
	c.markRunTerminal(ev.RunID, types.RunStatusCompleted, "", ev.Timestamp)
	if ev.RunID == c.activeRun {
		c.phase = PhaseCompleted
	}
	return c.terminalEffects(ev.RunID, ev.SessionID)
}

// ApplyRunFailed marks the run FAILED and records the error for display.
func (c *ChatCoordinator) ApplyRunFailed(ev types.ChatRunFailedEvent) ChatEffects {
	c.degraded = false
	c.markRunTerminal(ev.RunID, types.RunStatusFailed, ev.Error, ev.Timestamp)
	if ev.RunID == c.activeRun {
		c.phase = PhaseFailed
		c.lastError = ev.Error
	}
	return c.terminalEffects(ev.RunID, ev.SessionID)
}

// NoteConnectionLost raises the degraded warning for the chat panel. Any
// subsequently dispatched event clears it.
func (c *ChatCoordinator) NoteConnectionLost() {
	c.degraded = true
}

func (c *ChatCoordinator) Degraded() bool {
	return c.degraded
}

func (c *ChatCoordinator) Phase() Phase {
	return c.phase
}

func (c *ChatCoordinator) Session() *types.ChatSessionDetail {
	return c.session
}

func (c *ChatCoordinator) SessionID() string {
	if c.session == nil {
		return ""
	}
	return c.session.ID
}

// Messages returns the held message sequence. Callers must not mutate it.
func (c *ChatCoordinator) Messages() []types.ChatMessage {
	if c.session == nil {
		return nil
	}
	return c.session.Messages
}

func (c *ChatCoordinator) ActiveRunID() string {
	return c.activeRun
}

// Thinking is the retrieval rationale of the run in flight, if delivered.
func (c *ChatCoordinator) Thinking() string {
	return c.thinking
}

func (c *ChatCoordinator) CandidateNodeIDs() []string {
	return c.nodeIDs
}

func (c *ChatCoordinator) Candidates() []types.NodeCitation {
	return c.candidates
}

func (c *ChatCoordinator) LastError() string {
	return c.lastError
}

func (c *ChatCoordinator) ClearError() {
	c.lastError = ""
}

func (c *ChatCoordinator) markRunTerminal(runID string, status types.ChatRunStatus, errText string, at time.Time) {
	if c.session == nil {
		return
	}
	if c.session.ActiveRunID == runID {
		c.session.ActiveRunID = ""
		c.session.ActiveRunStatus = ""
	}
	for i := range c.session.Runs {
		if c.session.Runs[i].ID != runID {
			continue
		}
		c.session.Runs[i].Status = status
		if errText != "" {
			c.session.Runs[i].Error = errText
		}
		if !at.IsZero() {
			c.session.Runs[i].UpdatedAt = at
		}
		return
	}
}

func (c *ChatCoordinator) terminalEffects(runID, sessionID string) ChatEffects {
	if c.refetched[runID] {
		return ChatEffects{}
	}
	c.refetched[runID] = true
	if sessionID == "" && c.session != nil {
		sessionID = c.session.ID
	}
	return ChatEffects{CloseChannel: true, RefetchSession: sessionID}
}

func (c *ChatCoordinator) findMessage(id string) *types.ChatMessage {
	if c.session == nil || id == "" {
		return nil
	}
	for i := range c.session.Messages {
		if c.session.Messages[i].ID == id {
			return &c.session.Messages[i]
		}
	}
	return nil
}
