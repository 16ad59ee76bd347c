package client

// ChatRequest Request from client
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse Response to client
type ChatResponse struct {
	Message string `json:"message"`
}

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status   string `json:"status"`
	Upstream string `json:"upstream"`
}

const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"

	UpstreamConnected      = "connected"
	UpstreamNotInitialized = "not_initialized"
	UpstreamUnavailable    = "unavailable"
)

// ErrorResponse is the envelope of every non-validation error.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// ValidationErrorResponse is the 422 envelope: one detail entry per failed
// constraint plus a summary meant for the end user.
type ValidationErrorResponse struct {
	Detail  []ValidationDetail `json:"detail"`
	Message string             `json:"message"`
}

type ValidationDetail struct {
	Type  string   `json:"type"`
	Loc   []string `json:"loc"`
	Msg   string   `json:"msg"`
	Input any      `json:"input,omitempty"`
}
