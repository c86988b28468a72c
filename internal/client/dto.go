package client

type HealthResponse struct {
	Status string `json:"status"`
}

type SendMessageRequest struct {
	Content string `json:"content"`
}

type SendMessageResponse struct {
	RunID              string `json:"run_id"`
	UserMessageID      string `json:"user_message_id"`
	AssistantMessageID string `json:"assistant_message_id"`
}

type ClearSessionsResponse struct {
	DeletedCount int `json:"deleted_count"`
}
