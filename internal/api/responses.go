package api

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Message string         `json:"message"`
	Code    string         `json:"code"`
	Fields  []FieldProblem `json:"fields,omitempty"`
}

// FieldProblem is every failed check of one request field
type FieldProblem struct {
	Field    string   `json:"field"`
	Messages []string `json:"messages"`
}

// MessageResponse acknowledges an operation that returns no resource
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse is returned by the health endpoint
type HealthResponse struct {
	Status string `json:"status"`
}

const (
	msgTaskRemoved = "Task removed"
	msgLoggedOut   = "Logged out"
)
