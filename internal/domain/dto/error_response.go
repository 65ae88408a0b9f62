package dto

import "time"

// ErrorResponse is the JSON envelope for every API error.
type ErrorResponse struct {
	Message      string    `json:"message" example:"invalid amount"`
	ErrorDetails string    `json:"error_details,omitempty" example:"amount must be at least 1"`
	Timestamp    time.Time `json:"timestamp" example:"2026-10-19T14:30:05Z"`
}

func (e ErrorResponse) Error() string {
	if e.ErrorDetails == "" {
		return e.Message
	}
	return e.Message + ": " + e.ErrorDetails
}

// NewErrorResponse stamps a response with the current time; err may be nil.
func NewErrorResponse(message string, err error) ErrorResponse {
	resp := ErrorResponse{Message: message, Timestamp: time.Now()}
	if err != nil {
		resp.ErrorDetails = err.Error()
	}
	return resp
}
