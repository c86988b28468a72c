package live

import (
	"context"

	"outline/internal/types"
)

// SessionAPI is the slice of the snapshot client the session lifecycle
// helpers need.
type SessionAPI interface {
	ListChatSessions(ctx context.Context, jobID string) ([]*types.ChatSessionSummary, error)
	CreateChatSession(ctx context.Context, jobID string) (*types.ChatSessionSummary, error)
	GetChatSession(ctx context.Context, sessionID string) (*types.ChatSessionDetail, error)
	ClearChatSessions(ctx context.Context, jobID string) (int, error)
}

// EnsureSession returns the job's chat session detail, reusing the first
// existing session or creating one when the job has none.
func EnsureSession(ctx context.Context, api SessionAPI, jobID string) (*types.ChatSessionDetail, error) {
	sessions, err := api.ListChatSessions(ctx, jobID)
	if err != nil {
		return nil, err
	}
	var sessionID string
	if len(sessions) > 0 && sessions[0] != nil {
		sessionID = sessions[0].ID
	} else {
		created, err := api.CreateChatSession(ctx, jobID)
		if err != nil {
			return nil, err
		}
		sessionID = created.ID
	}
	return api.GetChatSession(ctx, sessionID)
}

// ResetSessions deletes every session for the job and immediately creates
// a fresh empty one, so callers always have a session to address. It
// returns the fresh detail and how many sessions were deleted.
func ResetSessions(ctx context.Context, api SessionAPI, jobID string) (*types.ChatSessionDetail, int, error) {
	deleted, err := api.ClearChatSessions(ctx, jobID)
	if err != nil {
		return nil, 0, err
	}
	created, err := api.CreateChatSession(ctx, jobID)
	if err != nil {
		return nil, deleted, err
	}
	detail, err := api.GetChatSession(ctx, created.ID)
	if err != nil {
		return nil, deleted, err
	}
	return detail, deleted, nil
}
