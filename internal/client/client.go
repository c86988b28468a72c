package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"outline/internal/config"
	"outline/internal/types"
)

const defaultBaseURL = "http://127.0.0.1:8000"

type Client struct {
	baseURL string
	http    *http.Client
}

func New() (*Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	c := NewWithBaseURL(cfg.BaseURL())
	c.http.Timeout = cfg.RequestTimeout()
	return c, nil
}

func NewWithBaseURL(baseURL string) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/health", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ListJobs(ctx context.Context) ([]*types.JobSummary, error) {
	var jobs []*types.JobSummary
	if err := c.doJSON(ctx, http.MethodGet, "/api/jobs", nil, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

func (c *Client) GetJob(ctx context.Context, jobID string) (*types.JobDetail, error) {
	var job types.JobDetail
	if err := c.doJSON(ctx, http.MethodGet, "/api/jobs/"+jobID, nil, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (c *Client) CancelJob(ctx context.Context, jobID string) (*types.JobDetail, error) {
	var job types.JobDetail
	if err := c.doJSON(ctx, http.MethodPost, "/api/jobs/"+jobID+"/cancel", nil, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// GetJobResult returns the raw result document. Result payloads can be
// large and are fetched with the caller's context as the only deadline.
func (c *Client) GetJobResult(ctx context.Context, jobID string) ([]byte, error) {
	return c.doRaw(ctx, http.MethodGet, "/api/jobs/"+jobID+"/result")
}

func (c *Client) ListChatSessions(ctx context.Context, jobID string) ([]*types.ChatSessionSummary, error) {
	var sessions []*types.ChatSessionSummary
	if err := c.doJSON(ctx, http.MethodGet, "/api/jobs/"+jobID+"/chat/sessions", nil, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (c *Client) CreateChatSession(ctx context.Context, jobID string) (*types.ChatSessionSummary, error) {
	var session types.ChatSessionSummary
	if err := c.doJSON(ctx, http.MethodPost, "/api/jobs/"+jobID+"/chat/sessions", nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) ClearChatSessions(ctx context.Context, jobID string) (int, error) {
	var resp ClearSessionsResponse
	if err := c.doJSON(ctx, http.MethodDelete, "/api/jobs/"+jobID+"/chat/sessions", nil, &resp); err != nil {
		return 0, err
	}
	return resp.DeletedCount, nil
}

func (c *Client) GetChatSession(ctx context.Context, sessionID string) (*types.ChatSessionDetail, error) {
	var session types.ChatSessionDetail
	if err := c.doJSON(ctx, http.MethodGet, "/api/chat/sessions/"+sessionID, nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) DeleteChatSession(ctx context.Context, sessionID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/chat/sessions/"+sessionID, nil, nil)
}

func (c *Client) SendChatMessage(ctx context.Context, sessionID, content string) (*SendMessageResponse, error) {
	req := SendMessageRequest{Content: content}
	var resp SendMessageResponse
	path := "/api/chat/sessions/" + sessionID + "/messages"
	if err := c.doJSON(ctx, http.MethodPost, path, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// doRaw issues a request on a client without a fixed timeout so large
// responses are bounded only by ctx.
func (c *Client) doRaw(ctx context.Context, method, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}

	httpClient := &http.Client{Transport: c.http.Transport}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeAPIError(resp)
	}
	return io.ReadAll(resp.Body)
}

func decodeAPIError(resp *http.Response) error {
	var payload struct {
		Detail any `json:"detail"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	switch detail := payload.Detail.(type) {
	case string:
		if detail != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: detail}
		}
	case nil:
	default:
		return &APIError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("%v", detail)}
	}
	return &APIError{StatusCode: resp.StatusCode, Message: resp.Status}
}

type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
}

// AsAPIError unwraps err to an APIError, or nil when it is not one.
func AsAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return nil
}
