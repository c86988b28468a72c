package main

import (
	"context"

	"outline/internal/app"
	outlineclient "outline/internal/client"
	"outline/internal/config"
	"outline/internal/types"
)

type clientFactory func() (commandClient, error)

// commandClient is the slice of the HTTP client the CLI commands use. It
// doubles as the live package's stream and session interfaces, so commands
// can hand it straight to the coordinators.
type commandClient interface {
	BaseURL() string
	Health(ctx context.Context) (*outlineclient.HealthResponse, error)
	ListJobs(ctx context.Context) ([]*types.JobSummary, error)
	GetJob(ctx context.Context, jobID string) (*types.JobDetail, error)
	SubmitJob(ctx context.Context, path string, opts outlineclient.SubmitOptions) (*types.JobSummary, error)
	CancelJob(ctx context.Context, jobID string) (*types.JobDetail, error)
	GetJobResult(ctx context.Context, jobID string) ([]byte, error)
	ListChatSessions(ctx context.Context, jobID string) ([]*types.ChatSessionSummary, error)
	CreateChatSession(ctx context.Context, jobID string) (*types.ChatSessionSummary, error)
	ClearChatSessions(ctx context.Context, jobID string) (int, error)
	GetChatSession(ctx context.Context, sessionID string) (*types.ChatSessionDetail, error)
	SendChatMessage(ctx context.Context, sessionID, content string) (*outlineclient.SendMessageResponse, error)
	JobEvents(ctx context.Context, jobID string) (<-chan outlineclient.StreamEvent, func(), error)
	ChatRunEvents(ctx context.Context, sessionID, runID string) (<-chan outlineclient.StreamEvent, func(), error)
	RunUI() error
}

type outlineClientAdapter struct {
	client   *outlineclient.Client
	settings config.Settings
}

func newOutlineClient() (commandClient, error) {
	settings, err := config.Load()
	if err != nil {
		return nil, err
	}
	client, err := outlineclient.New()
	if err != nil {
		return nil, err
	}
	return &outlineClientAdapter{client: client, settings: settings}, nil
}

func (c *outlineClientAdapter) BaseURL() string {
	return c.client.BaseURL()
}

func (c *outlineClientAdapter) Health(ctx context.Context) (*outlineclient.HealthResponse, error) {
	return c.client.Health(ctx)
}

func (c *outlineClientAdapter) ListJobs(ctx context.Context) ([]*types.JobSummary, error) {
	return c.client.ListJobs(ctx)
}

func (c *outlineClientAdapter) GetJob(ctx context.Context, jobID string) (*types.JobDetail, error) {
	return c.client.GetJob(ctx, jobID)
}

func (c *outlineClientAdapter) SubmitJob(ctx context.Context, path string, opts outlineclient.SubmitOptions) (*types.JobSummary, error) {
	return c.client.SubmitJob(ctx, path, opts)
}

func (c *outlineClientAdapter) CancelJob(ctx context.Context, jobID string) (*types.JobDetail, error) {
	return c.client.CancelJob(ctx, jobID)
}

func (c *outlineClientAdapter) GetJobResult(ctx context.Context, jobID string) ([]byte, error) {
	return c.client.GetJobResult(ctx, jobID)
}

func (c *outlineClientAdapter) ListChatSessions(ctx context.Context, jobID string) ([]*types.ChatSessionSummary, error) {
	return c.client.ListChatSessions(ctx, jobID)
}

func (c *outlineClientAdapter) CreateChatSession(ctx context.Context, jobID string) (*types.ChatSessionSummary, error) {
	return c.client.CreateChatSession(ctx, jobID)
}

func (c *outlineClientAdapter) ClearChatSessions(ctx context.Context, jobID string) (int, error) {
	return c.client.ClearChatSessions(ctx, jobID)
}

func (c *outlineClientAdapter) GetChatSession(ctx context.Context, sessionID string) (*types.ChatSessionDetail, error) {
	return c.client.GetChatSession(ctx, sessionID)
}

func (c *outlineClientAdapter) SendChatMessage(ctx context.Context, sessionID, content string) (*outlineclient.SendMessageResponse, error) {
	return c.client.SendChatMessage(ctx, sessionID, content)
}

func (c *outlineClientAdapter) JobEvents(ctx context.Context, jobID string) (<-chan outlineclient.StreamEvent, func(), error) {
	return c.client.JobEvents(ctx, jobID)
}

func (c *outlineClientAdapter) ChatRunEvents(ctx context.Context, sessionID, runID string) (<-chan outlineclient.StreamEvent, func(), error) {
	return c.client.ChatRunEvents(ctx, sessionID, runID)
}

func (c *outlineClientAdapter) RunUI() error {
	return app.Run(c.client, c.settings)
}
