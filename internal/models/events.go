package models

// WebSocket message types
type WSMessage struct {
	Type    string      `json:"type"` // "status_update" | "done"
	Payload interface{} `json:"payload"`
}

type StatusUpdate struct {
	Step     int    `json:"step"`
	StepName string `json:"step_name"`
}

// API Error response
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}
