package handler

import "time"

// Response is the standard API response envelope. All JSON responses
// use this format; /metrics and /admin/v1/export are the binary
// exceptions.
type Response struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
	Timestamp int64  `json:"timestamp"`
	Data      any    `json:"data,omitempty"`
}

// NewResponse creates a success response.
func NewResponse(requestID string, data any) *Response {
	return &Response{
		Code:      "OK",
		Message:   "Success",
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Data:      data,
	}
}

// NewErrorResponse creates an error response.
func NewErrorResponse(requestID, code, message string) *Response {
	return &Response{
		Code:      code,
		Message:   message,
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
	}
}

// StateResponse is the response body for GET /state.
type StateResponse struct {
	CurrentRoute    string   `json:"current_route"`
	RouteHistory    []string `json:"route_history"`
	LastActiveAt    int64    `json:"last_active_at"`
	WasInBackground bool     `json:"was_in_background"`
	Phase           string   `json:"phase"`
}

// DecisionEntry represents one journal record in API responses.
type DecisionEntry struct {
	ID           string `json:"id"`
	DecidedAt    int64  `json:"decided_at"`
	Outcome      string `json:"outcome"`
	Route        string `json:"route,omitempty"`
	Reason       string `json:"reason"`
	BackgroundMs int64  `json:"background_ms"`
	SavedRoute   string `json:"saved_route,omitempty"`
}

// DecisionsResponse is the response body for GET /decisions.
type DecisionsResponse struct {
	Items []DecisionEntry `json:"items"`
	Total int             `json:"total"`
}

// LifecycleEventRequest is the request body for POST /events/lifecycle.
type LifecycleEventRequest struct {
	Event string `json:"event"`
}

// RouteEventRequest is the request body for POST /events/route.
type RouteEventRequest struct {
	Route string `json:"route"`
}

// EventAcceptedResponse is the response body for accepted ingest events.
type EventAcceptedResponse struct {
	Accepted bool   `json:"accepted"`
	Phase    string `json:"phase,omitempty"`
}

// ResetResponse is the response body for POST /admin/v1/reset.
type ResetResponse struct {
	Reset bool `json:"reset"`
}
