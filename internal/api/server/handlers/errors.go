package handlers

import (
	"errors"
	"net/http"

	"github.com/bz888/gunther/internal/api/server/client"
)

// User-facing messages. Upstream error details are logged, never sent to the caller.
const (
	MsgServiceUnavailable  = "Chat service is currently unavailable. Please try again later."
	MsgModelNotFound       = "The requested AI model was not found."
	MsgBadRequest          = "There was a problem with your request. The input may be invalid."
	MsgUpstreamServerError = "The AI service is experiencing issues. Please try again later."
	MsgUnexpectedStatus    = "An unexpected error occurred while processing your request."
	MsgConnectionFailure   = "Unable to connect to the AI service. It may be down or unreachable."
	MsgTimeout             = "The AI service took too long to respond. Please try again later."
	MsgUnknown             = "An unexpected error occurred. Our team has been notified."
)

// translateError maps a failed upstream call to the HTTP status and message
// returned to the caller. Upstream status codes pass through unchanged.
func translateError(err error) (int, string) {
	var upstreamErr *client.UpstreamError
	if !errors.As(err, &upstreamErr) {
		return http.StatusInternalServerError, MsgUnknown
	}

	switch upstreamErr.Kind {
	case client.KindNotFound:
		return passthrough(upstreamErr.StatusCode, http.StatusNotFound), MsgModelNotFound
	case client.KindBadRequest:
		return passthrough(upstreamErr.StatusCode, http.StatusBadRequest), MsgBadRequest
	case client.KindServerError:
		return passthrough(upstreamErr.StatusCode, http.StatusInternalServerError), MsgUpstreamServerError
	case client.KindStatus:
		return passthrough(upstreamErr.StatusCode, http.StatusInternalServerError), MsgUnexpectedStatus
	case client.KindConnection:
		return http.StatusServiceUnavailable, MsgConnectionFailure
	case client.KindTimeout:
		return http.StatusGatewayTimeout, MsgTimeout
	default:
		return http.StatusInternalServerError, MsgUnknown
	}
}

func passthrough(status, fallback int) int {
	if status == 0 {
		return fallback
	}
	return status
}
