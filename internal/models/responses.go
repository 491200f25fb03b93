package models

// MessageResponse is the body of successful write operations
type MessageResponse struct {
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}
