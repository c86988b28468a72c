package app

import (
	"context"

	"outline/internal/client"
	"outline/internal/types"
)

type JobAPI interface {
	Health(ctx context.Context) (*client.HealthResponse, error)
	ListJobs(ctx context.Context) ([]*types.JobSummary, error)
	GetJob(ctx context.Context, jobID string) (*types.JobDetail, error)
	CancelJob(ctx context.Context, jobID string) (*types.JobDetail, error)
	GetJobResult(ctx context.Context, jobID string) ([]byte, error)
}

type ChatAPI interface {
	ListChatSessions(ctx context.Context, jobID string) ([]*types.ChatSessionSummary, error)
	CreateChatSession(ctx context.Context, jobID string) (*types.ChatSessionSummary, error)
	GetChatSession(ctx context.Context, sessionID string) (*types.ChatSessionDetail, error)
	ClearChatSessions(ctx context.Context, jobID string) (int, error)
	SendChatMessage(ctx context.Context, sessionID, content string) (*client.SendMessageResponse, error)
}

type StreamAPI interface {
	JobEvents(ctx context.Context, jobID string) (<-chan client.StreamEvent, func(), error)
	ChatRunEvents(ctx context.Context, sessionID, runID string) (<-chan client.StreamEvent, func(), error)
}

type ClientAPI struct {
	client *client.Client
}

func NewClientAPI(client *client.Client) *ClientAPI {
	return &ClientAPI{client: client}
}

func (a *ClientAPI) Health(ctx context.Context) (*client.HealthResponse, error) {
	return a.client.Health(ctx)
}

func (a *ClientAPI) ListJobs(ctx context.Context) ([]*types.JobSummary, error) {
	return a.client.ListJobs(ctx)
}

func (a *ClientAPI) GetJob(ctx context.Context, jobID string) (*types.JobDetail, error) {
	return a.client.GetJob(ctx, jobID)
}

func (a *ClientAPI) CancelJob(ctx context.Context, jobID string) (*types.JobDetail, error) {
	return a.client.CancelJob(ctx, jobID)
}

func (a *ClientAPI) GetJobResult(ctx context.Context, jobID string) ([]byte, error) {
	return a.client.GetJobResult(ctx, jobID)
}

func (a *ClientAPI) ListChatSessions(ctx context.Context, jobID string) ([]*types.ChatSessionSummary, error) {
	return a.client.ListChatSessions(ctx, jobID)
}

func (a *ClientAPI) CreateChatSession(ctx context.Context, jobID string) (*types.ChatSessionSummary, error) {
	return a.client.CreateChatSession(ctx, jobID)
}

func (a *ClientAPI) GetChatSession(ctx context.Context, sessionID string) (*types.ChatSessionDetail, error) {
	return a.client.GetChatSession(ctx, sessionID)
}

func (a *ClientAPI) ClearChatSessions(ctx context.Context, jobID string) (int, error) {
	return a.client.ClearChatSessions(ctx, jobID)
}

func (a *ClientAPI) SendChatMessage(ctx context.Context, sessionID, content string) (*client.SendMessageResponse, error) {
	return a.client.SendChatMessage(ctx, sessionID, content)
}

func (a *ClientAPI) JobEvents(ctx context.Context, jobID string) (<-chan client.StreamEvent, func(), error) {
	return a.client.JobEvents(ctx, jobID)
}

func (a *ClientAPI) ChatRunEvents(ctx context.Context, sessionID, runID string) (<-chan client.StreamEvent, func(), error) {
	return a.client.ChatRunEvents(ctx, sessionID, runID)
}
