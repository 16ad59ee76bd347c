package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bz888/gunther/internal/api"
	serverClient "github.com/bz888/gunther/internal/api/server/client"
	"github.com/rivo/tview"
)

type command int

const (
	cmdNone command = iota
	cmdHelp
	cmdQuit
	cmdDebug
	cmdHealth
)

const helpText = `Here are some commands you can use:
- /help: Display this help message
- /bye: Exit the console (also /quit, /exit)
- /debug: Toggle the debug console
- /health: Check the connection to the AI service`

func parseCommand(input string) command {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "/help":
		return cmdHelp
	case "/bye", "/quit", "/exit":
		return cmdQuit
	case "/debug":
		return cmdDebug
	case "/health":
		return cmdHealth
	default:
		return cmdNone
	}
}

type role string

const (
	roleYou role = "You"
	roleBot role = "Gunther"
)

// formatMessage renders one turn of the conversation. Text is escaped so
// square brackets in a message are not read as colour tags.
func formatMessage(r role, text string) string {
	colour := "green"
	if r == roleYou {
		colour = "red"
	}
	return fmt.Sprintf("\n[%s::b]%s:[-::-]\n%s\n", colour, r, tview.Escape(text))
}

func errorText(err error) string {
	msg := err.Error()
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		msg = apiErr.Message
	}
	return "Sorry, there was an error: " + msg
}

func healthText(h *serverClient.HealthResponse) string {
	switch {
	case h.Status == serverClient.StatusOK:
		return "The AI service is up and running."
	case h.Upstream == serverClient.UpstreamNotInitialized:
		return "The gateway is running, but the AI service is not configured."
	default:
		return "The gateway is running, but the AI service is unreachable."
	}
}
