package models

// Response is the standard JSON envelope. Successful reads usually attach
// their payload under a named key (appointment, tasks, ...) via gin.H, so
// Data stays empty on most of those.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}
