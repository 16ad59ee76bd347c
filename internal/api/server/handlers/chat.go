package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/apex/log"
	"github.com/bz888/gunther/internal/api/server/client"
	"github.com/gin-gonic/gin"
)

var (
	errNotObject    = errors.New("request body must be a JSON object")
	errTrailingData = errors.New("unexpected data after JSON object")
)

// Chat handles POST /api/chat: one user message in, one assistant reply out.
func (h *Handler) Chat(c *gin.Context) {
	localLogger := h.chatLog.WithField(RequestIDKey, c.GetString(RequestIDKey))
	localLogger.Info("Received chat request")

	ollama, ok := h.upstream.Client()
	if !ok {
		localLogger.WithError(h.upstream.Err()).Error("Ollama client not initialized")
		h.respondError(c, http.StatusServiceUnavailable, MsgServiceUnavailable)
		return
	}

	message, details, summary := h.bindChatRequest(c)
	if details != nil {
		localLogger.WithField("errors", details).Error("Validation error")
		h.metrics.RecordChat(http.StatusUnprocessableEntity)
		c.JSON(http.StatusUnprocessableEntity, client.ValidationErrorResponse{
			Detail:  details,
			Message: summary,
		})
		return
	}

	localLogger.Infof("Sending request to Ollama model '%s'", h.model)

	// the upstream call outlives a client that hangs up; only the client timeout bounds it
	ctx := context.WithoutCancel(c.Request.Context())
	start := time.Now()
	resp, err := ollama.Chat(ctx, h.model, []client.OllamaMessage{
		{Role: client.RoleUser, Content: message},
	})
	elapsed := time.Since(start)

	if err != nil {
		kind := client.KindOf(err)
		h.metrics.RecordUpstream("chat", elapsed, kind.String())
		status, detail := translateError(err)

		fields := log.Fields{"kind": kind.String(), "status": status, "duration_ms": elapsed.Milliseconds()}
		var upstreamErr *client.UpstreamError
		if errors.As(err, &upstreamErr) && upstreamErr.StatusCode != 0 {
			fields["upstream_status"] = upstreamErr.StatusCode
		}
		localLogger.WithFields(fields).WithError(err).Error("Ollama chat request failed")

		h.respondError(c, status, detail)
		return
	}
	h.metrics.RecordUpstream("chat", elapsed, "")

	localLogger.WithField("duration_ms", elapsed.Milliseconds()).Info("Successfully received response from Ollama")
	h.metrics.RecordChat(http.StatusOK)
	c.JSON(http.StatusOK, client.ChatResponse{Message: resp.Message.Content})
}

// bindChatRequest decodes and validates the body. On failure it returns the
// validation details and the summary shown to the user.
func (h *Handler) bindChatRequest(c *gin.Context) (string, []client.ValidationDetail, string) {
	invalid := fmt.Sprintf("Invalid chat request. Please send a text message of at most %d characters.", h.maxLength)

	fields, err := decodeObject(c.Request.Body)
	if err != nil {
		return "", []client.ValidationDetail{{
			Type: "json_invalid",
			Loc:  []string{"body"},
			Msg:  "JSON decode error",
		}}, invalid
	}

	raw, ok := fields["message"]
	if !ok {
		return "", []client.ValidationDetail{{
			Type: "missing",
			Loc:  []string{"body", "message"},
			Msg:  "Field required",
		}}, invalid
	}

	var message string
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) || json.Unmarshal(raw, &message) != nil {
		var input any
		_ = json.Unmarshal(raw, &input)
		return "", []client.ValidationDetail{{
			Type:  "string_type",
			Loc:   []string{"body", "message"},
			Msg:   "Input should be a valid string",
			Input: input,
		}}, invalid
	}

	message, err = ValidateMessage(message, h.maxLength)
	if err != nil {
		return "", []client.ValidationDetail{{
			Type: "string_too_long",
			Loc:  []string{"body", "message"},
			Msg:  err.Error(),
		}}, fmt.Sprintf("Message is too long! Please keep it under %d characters.", h.maxLength)
	}
	return message, nil, ""
}

// decodeObject reads exactly one JSON object from body. Anything after it,
// other than whitespace, is an error.
func decodeObject(body io.Reader) (map[string]json.RawMessage, error) {
	dec := json.NewDecoder(body)

	var fields map[string]json.RawMessage
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, errNotObject
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, errTrailingData
	}
	return fields, nil
}

func (h *Handler) respondError(c *gin.Context, status int, detail string) {
	h.metrics.RecordChat(status)
	c.JSON(status, client.ErrorResponse{Detail: detail})
}
