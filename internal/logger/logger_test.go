package logger

import (
	"errors"
	"testing"

	"github.com/apex/log"
	"github.com/apex/log/handlers/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerTagsEntries(t *testing.T) {
	h := memory.New()
	SetHandler(h, log.DebugLevel)

	l := NewLogger("chat")
	l.Info("Received chat request")
	l.WithError(errors.New("boom")).WithField("status", 503).Error("upstream failed")

	require.Len(t, h.Entries, 2)
	assert.Equal(t, "Received chat request", h.Entries[0].Message)
	assert.Equal(t, "chat", h.Entries[0].Fields["tag"])
	assert.Equal(t, log.ErrorLevel, h.Entries[1].Level)
	assert.Equal(t, "boom", h.Entries[1].Fields["error"])
	assert.Equal(t, 503, h.Entries[1].Fields["status"])
}

func TestLoggerCreatedBeforeHandlerFollowsIt(t *testing.T) {
	l := NewLogger("early")

	h := memory.New()
	SetHandler(h, log.InfoLevel)
	l.Infof("listening on %s", ":8000")

	require.Len(t, h.Entries, 1)
	assert.Equal(t, "listening on :8000", h.Entries[0].Message)
}

func TestLoggerRespectsLevel(t *testing.T) {
	h := memory.New()
	SetHandler(h, log.InfoLevel)

	NewLogger("quiet").Debug("hidden")
	assert.Empty(t, h.Entries)
}
