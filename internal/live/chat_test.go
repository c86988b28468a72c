package live

import (
	"errors"
	"testing"
	"time"

	"outline/internal/client"
	"outline/internal/types"
)

func newSessionDetail(id string) *types.ChatSessionDetail {
	return &types.ChatSessionDetail{
		ChatSessionSummary: types.ChatSessionSummary{
			ID:        id,
			JobID:     "job-1",
			Title:     "Chat",
			CreatedAt: time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC),
		},
	}
}

// startedRun drives a coordinator through send acceptance for one run.
func startedRun(t *testing.T, c *ChatCoordinator, runID string) client.SendMessageResponse {
	t.Helper()
	content, err := c.BeginSend("  What does chapter two cover?  ")
	if err != nil {
		t.Fatalf("begin send: %v", err)
	}
	if content != "What does chapter two cover?" {
		t.Fatalf("trimmed content = %q", content)
	}
	resp := client.SendMessageResponse{
		RunID:              runID,
		UserMessageID:      runID + "-user",
		AssistantMessageID: runID + "-asst",
	}
	c.ApplySendAccepted(resp, content, time.Date(2026, 8, 20, 9, 5, 0, 0, time.UTC))
	return resp
}

func TestChatDeltaAccumulationAndCitations(t *testing.T) {
	c := NewChatCoordinator()
	c.ApplySession(newSessionDetail("sess-1"))
	resp := startedRun(t, c, "run-1")

	c.ApplyRunStarted(types.ChatRunStartedEvent{SessionID: "sess-1", RunID: "run-1"})
	if c.Phase() != PhaseStreaming {
		t.Fatalf("phase = %v, want streaming", c.Phase())
	}

	for _, delta := range []string{"Hel", "lo", " world"} {
		c.ApplyAnswerDelta(types.ChatAnswerDeltaEvent{
			SessionID:          "sess-1",
			RunID:              "run-1",
			AssistantMessageID: resp.AssistantMessageID,
			Delta:              delta,
		})
	}

	msgs := c.Messages()
	if len(msgs) != 2 {
		t.Fatalf("message count = %d, want 2", len(msgs))
	}
	asst := msgs[1]
	if asst.Content != "Hello world" {
		t.Fatalf("accumulated content = %q, want %q", asst.Content, "Hello world")
	}
	if len(asst.Citations) != 0 {
		t.Fatalf("citations before answer.completed = %+v, want none", asst.Citations)
	}

	want := []types.NodeCitation{
		{NodeID: "0002", Title: "Background"},
		{NodeID: "0005"},
	}
	c.ApplyAnswerCompleted(types.ChatAnswerCompletedEvent{
		SessionID:          "sess-1",
		RunID:              "run-1",
		AssistantMessageID: resp.AssistantMessageID,
		Citations:          want,
	})
	asst = c.Messages()[1]
	if asst.Content != "Hello world" {
		t.Fatalf("answer.completed altered content: %q", asst.Content)
	}
	if len(asst.Citations) != len(want) {
		t.Fatalf("citations = %+v, want %+v", asst.Citations, want)
	}
	for i := range want {
		if asst.Citations[i] != want[i] {
			t.Fatalf("citation %d = %+v, want %+v", i, asst.Citations[i], want[i])
		}
	}
}

func TestChatRejectsSendWhileRunActive(t *testing.T) {
	c := NewChatCoordinator()
	c.ApplySession(newSessionDetail("sess-1"))
	startedRun(t, c, "run-1")

	// AwaitingRun blocks a second send.
	if _, err := c.BeginSend("again"); !errors.Is(err, ErrRunActive) {
		t.Fatalf("err = %v, want ErrRunActive", err)
	}
	c.ApplyRunStarted(types.ChatRunStartedEvent{SessionID: "sess-1", RunID: "run-1"})
	// So does Streaming.
	if _, err := c.BeginSend("again"); !errors.Is(err, ErrRunActive) {
		t.Fatalf("err = %v, want ErrRunActive", err)
	}
	// Rejection leaves state untouched.
	if got := len(c.Messages()); got != 2 {
		t.Fatalf("message count after rejection = %d, want 2", got)
	}
}

func TestChatRejectsEmptyAndSessionlessSends(t *testing.T) {
	c := NewChatCoordinator()
	if _, err := c.BeginSend("hi"); !errors.Is(err, ErrNoSession) {
		t.Fatalf("err = %v, want ErrNoSession", err)
	}
	c.ApplySession(newSessionDetail("sess-1"))
	if _, err := c.BeginSend("   "); !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("err = %v, want ErrEmptyMessage", err)
	}
	if c.Phase() != PhaseIdle {
		t.Fatalf("rejection moved phase to %v", c.Phase())
	}
}

func TestChatFailSendReturnsToIdle(t *testing.T) {
	c := NewChatCoordinator()
	c.ApplySession(newSessionDetail("sess-1"))

	if _, err := c.BeginSend("hello"); err != nil {
		t.Fatalf("begin send: %v", err)
	}
	c.FailSend(errors.New("api error (503): overloaded"))
	if c.Phase() != PhaseIdle {
		t.Fatalf("phase after failed send = %v, want idle", c.Phase())
	}
	if c.LastError() == "" {
		t.Fatalf("expected recorded error")
	}
	if _, err := c.BeginSend("hello again"); err != nil {
		t.Fatalf("send after failure should be allowed: %v", err)
	}
}

func TestChatRunCompletedEffectsFireOnce(t *testing.T) {
	c := NewChatCoordinator()
	c.ApplySession(newSessionDetail("sess-1"))
	startedRun(t, c, "run-1")
	c.ApplyRunStarted(types.ChatRunStartedEvent{SessionID: "sess-1", RunID: "run-1"})

	done := types.ChatRunCompletedEvent{
		SessionID: "sess-1",
		RunID:     "run-1",
		Timestamp: time.Date(2026, 8, 20, 9, 6, 0, 0, time.UTC),
	}
	fx := c.ApplyRunCompleted(done)
	if !fx.CloseChannel || fx.RefetchSession != "sess-1" {
		t.Fatalf("terminal effects = %+v", fx)
	}
	if c.Phase() != PhaseCompleted {
		t.Fatalf("phase = %v, want completed", c.Phase())
	}
	if c.Session().ActiveRunID != "" {
		t.Fatalf("active run pointer not cleared")
	}
	run := c.Session().Runs[0]
	if run.Status != types.RunStatusCompleted || !run.UpdatedAt.Equal(done.Timestamp) {
		t.Fatalf("run row = %+v", run)
	}

	// Replaying the terminal event asks for nothing and changes nothing.
	if fx = c.ApplyRunCompleted(done); !fx.Empty() {
		t.Fatalf("replay produced effects: %+v", fx)
	}
	if c.Session().Runs[0].Status != types.RunStatusCompleted {
		t.Fatalf("replay altered run state")
	}
}

func TestChatRunFailedRecordsError(t *testing.T) {
	c := NewChatCoordinator()
	c.ApplySession(newSessionDetail("sess-1"))
	startedRun(t, c, "run-1")

	fx := c.ApplyRunFailed(types.ChatRunFailedEvent{
		SessionID: "sess-1",
		RunID:     "run-1",
		Error:     "model unavailable",
	})
	if !fx.CloseChannel || fx.RefetchSession != "sess-1" {
		t.Fatalf("terminal effects = %+v", fx)
	}
	if c.Phase() != PhaseFailed {
		t.Fatalf("phase = %v, want failed", c.Phase())
	}
	if c.LastError() != "model unavailable" {
		t.Fatalf("last error = %q", c.LastError())
	}
	if run := c.Session().Runs[0]; run.Status != types.RunStatusFailed || run.Error != "model unavailable" {
		t.Fatalf("run row = %+v", run)
	}
	if fx = c.ApplyRunFailed(types.ChatRunFailedEvent{SessionID: "sess-1", RunID: "run-1", Error: "model unavailable"}); !fx.Empty() {
		t.Fatalf("replay produced effects: %+v", fx)
	}
}

func TestChatStaleSessionSnapshotIsDiscarded(t *testing.T) {
	c := NewChatCoordinator()
	c.ApplySession(newSessionDetail("sess-1"))
	startedRun(t, c, "run-2")

	// A re-fetch from a previous run resolves late: it does not know about
	// run-2 and must not wipe the in-flight exchange.
	stale := newSessionDetail("sess-1")
	if c.ApplySession(stale) {
		t.Fatalf("stale snapshot was applied")
	}
	if len(c.Messages()) != 2 || c.ActiveRunID() != "run-2" {
		t.Fatalf("stale snapshot disturbed state: %d messages, run %q", len(c.Messages()), c.ActiveRunID())
	}

	// A snapshot that shows the in-flight run applies fine.
	fresh := newSessionDetail("sess-1")
	fresh.ActiveRunID = "run-2"
	fresh.ActiveRunStatus = types.RunStatusRunning
	fresh.Messages = []types.ChatMessage{
		{ID: "run-2-user", Role: types.RoleUser, Content: "What does chapter two cover?"},
		{ID: "run-2-asst", Role: types.RoleAssistant},
	}
	if !c.ApplySession(fresh) {
		t.Fatalf("matching snapshot was rejected")
	}
	if c.Phase() != PhaseStreaming {
		t.Fatalf("phase = %v, want streaming", c.Phase())
	}
}

func TestChatApplySessionDerivesPhase(t *testing.T) {
	c := NewChatCoordinator()

	mid := newSessionDetail("sess-1")
	mid.ActiveRunID = "run-9"
	mid.ActiveRunStatus = types.RunStatusRunning
	c.ApplySession(mid)
	if c.Phase() != PhaseStreaming || c.ActiveRunID() != "run-9" {
		t.Fatalf("phase = %v run = %q, want streaming run-9", c.Phase(), c.ActiveRunID())
	}

	c.ApplySession(newSessionDetail("sess-1"))
	if c.Phase() != PhaseIdle || c.ActiveRunID() != "" {
		t.Fatalf("phase = %v run = %q, want idle", c.Phase(), c.ActiveRunID())
	}
}

func TestChatRetrievalStoredForDisplay(t *testing.T) {
	c := NewChatCoordinator()
	c.ApplySession(newSessionDetail("sess-1"))
	startedRun(t, c, "run-1")

	c.ApplyRetrievalCompleted(types.ChatRetrievalCompletedEvent{
		SessionID: "sess-1",
		RunID:     "run-1",
		Thinking:  "Chapter two discusses background.",
		NodeIDs:   []string{"0002", "0003"},
		Citations: []types.NodeCitation{{NodeID: "0002", Title: "Background"}},
	})
	if c.Thinking() == "" || len(c.CandidateNodeIDs()) != 2 || len(c.Candidates()) != 1 {
		t.Fatalf("retrieval state not stored: %q %v %v", c.Thinking(), c.CandidateNodeIDs(), c.Candidates())
	}
	if run := c.Session().Runs[0]; run.RetrievalThinking == "" || len(run.SelectedNodeIDs) != 2 {
		t.Fatalf("run row missing retrieval fields: %+v", run)
	}

	// Retrieval for a different run is ignored.
	c.ApplyRetrievalCompleted(types.ChatRetrievalCompletedEvent{RunID: "run-other", Thinking: "noise"})
	if c.Thinking() == "noise" {
		t.Fatalf("foreign run retrieval applied")
	}
}

func TestChatDeltaForUnknownMessageIsNoop(t *testing.T) {
	c := NewChatCoordinator()
	c.ApplySession(newSessionDetail("sess-1"))

	c.ApplyAnswerDelta(types.ChatAnswerDeltaEvent{AssistantMessageID: "ghost", Delta: "boo"})
	if got := len(c.Messages()); got != 0 {
		t.Fatalf("no-op delta created %d messages", got)
	}
	c.ApplyAnswerCompleted(types.ChatAnswerCompletedEvent{AssistantMessageID: "ghost"})
	c.ApplyRunStarted(types.ChatRunStartedEvent{RunID: "ghost-run"})
	if c.Phase() != PhaseIdle {
		t.Fatalf("foreign run.started changed phase to %v", c.Phase())
	}
}

func TestChatClearDropsEverything(t *testing.T) {
	c := NewChatCoordinator()
	c.ApplySession(newSessionDetail("sess-1"))
	startedRun(t, c, "run-1")
	c.NoteConnectionLost()

	c.Clear()
	if c.Session() != nil || c.Phase() != PhaseIdle || c.ActiveRunID() != "" || c.Degraded() {
		t.Fatalf("clear left state behind")
	}
}

func TestChatDegradedClearsOnNextEvent(t *testing.T) {
	c := NewChatCoordinator()
	c.ApplySession(newSessionDetail("sess-1"))
	resp := startedRun(t, c, "run-1")

	c.NoteConnectionLost()
	if !c.Degraded() {
		t.Fatalf("expected degraded after loss")
	}
	c.ApplyAnswerDelta(types.ChatAnswerDeltaEvent{
		AssistantMessageID: resp.AssistantMessageID,
		Delta:              "more",
	})
	if c.Degraded() {
		t.Fatalf("dispatched event should clear degraded")
	}
}
