// Package ui is the terminal chat console for the gateway.
package ui

import (
	"context"
	"fmt"
	"io"
	"strings"

	serverClient "github.com/bz888/gunther/internal/api/server/client"
	"github.com/bz888/gunther/internal/logger"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

const (
	title    = "Chat with Gunther"
	greeting = "Hello! How can I help you today?"
)

// Gateway is the part of the gateway client the console needs.
type Gateway interface {
	Chat(ctx context.Context, text string) (string, error)
	Health(ctx context.Context) (*serverClient.HealthResponse, error)
}

type Console struct {
	app          *tview.Application
	conversation *tview.TextView
	input        *tview.TextArea
	debugConsole *tview.TextView
	layout       *tview.Flex

	// only touched from the event loop
	showDebug bool

	gateway     Gateway
	localLogger *logger.Logger
}

// New builds the console widgets. The debug pane starts visible when dev is set.
func New(dev bool) *Console {
	c := &Console{
		app:       tview.NewApplication(),
		showDebug: dev,
	}
	c.app.EnablePaste(true)
	c.app.EnableMouse(true)

	c.conversation = initConversation()
	c.input = initChatInput()
	c.debugConsole = c.initDebugConsole()
	return c
}

// the conversation is only written from the event loop, which redraws on its own
func initConversation() *tview.TextView {
	textView := tview.NewTextView().
		SetDynamicColors(true).
		SetRegions(true).
		SetWordWrap(true)

	textView.SetTitle(title).SetBorder(true)
	textView.SetScrollable(true)
	textView.ScrollToEnd()
	return textView
}

func initChatInput() *tview.TextArea {
	textArea := tview.NewTextArea().SetPlaceholder("Type your message... (/help for commands)")
	textArea.SetTitle("Message").SetBorder(true)
	return textArea
}

func (c *Console) initDebugConsole() *tview.TextView {
	console := tview.NewTextView().
		SetChangedFunc(func() {
			c.app.Draw()
		}).
		SetDynamicColors(true).
		SetRegions(true).
		SetWordWrap(true)

	console.SetTitle("Debugger").SetBorder(true)
	console.ScrollToEnd()
	return console
}

// DebugWriter is the log sink for the debug pane. ANSI colours from the text
// log handler are translated to tview tags.
func (c *Console) DebugWriter() io.Writer {
	return tview.ANSIWriter(c.debugConsole)
}

// Run shows the console until the user quits or ctx is cancelled.
func (c *Console) Run(ctx context.Context, gateway Gateway) error {
	c.gateway = gateway
	c.localLogger = logger.NewLogger("console")

	c.conversation.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEnter {
			c.app.SetFocus(c.input)
		}
		return event
	})

	chatFlex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(c.conversation, 0, 1, false).
		AddItem(c.input, 5, 0, true)
	c.layout = tview.NewFlex().AddItem(chatFlex, 0, 2, true)
	if c.showDebug {
		c.layout.AddItem(c.debugConsole, 0, 1, false)
	}

	fmt.Fprint(c.conversation, formatMessage(roleBot, greeting))
	c.setInputCapture(ctx)

	go func() {
		<-ctx.Done()
		c.app.Stop()
	}()

	return c.app.SetRoot(c.layout, true).SetFocus(c.input).Run()
}

func (c *Console) setInputCapture(ctx context.Context) {
	c.input.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyESC:
			if c.conversation.GetText(false) != "" {
				c.app.SetFocus(c.conversation)
			}
			return event
		case tcell.KeyEnter:
		default:
			return event
		}

		// shift+enter or alt+enter inserts a newline
		if event.Modifiers()&(tcell.ModShift|tcell.ModAlt) != 0 {
			return event
		}

		content := strings.TrimSpace(c.input.GetText())
		if content == "" {
			return nil
		}
		c.input.SetText("", true)

		switch parseCommand(content) {
		case cmdHelp:
			fmt.Fprint(c.conversation, formatMessage(roleYou, content))
			fmt.Fprint(c.conversation, formatMessage(roleBot, helpText))
		case cmdQuit:
			fmt.Fprint(c.conversation, "\nBye bye\n")
			c.localLogger.Info("Console closed by user")
			c.app.Stop()
		case cmdDebug:
			c.toggleDebugConsole()
		case cmdHealth:
			c.input.SetDisabled(true)
			go c.checkHealth(ctx)
		default:
			c.input.SetDisabled(true)
			fmt.Fprint(c.conversation, formatMessage(roleYou, content))
			go c.send(ctx, content)
		}
		return nil
	})
}

func (c *Console) send(ctx context.Context, content string) {
	c.localLogger.WithField("length", len([]rune(content))).Debug("Sending chat message")
	reply, err := c.gateway.Chat(ctx, content)

	c.app.QueueUpdateDraw(func() {
		if err != nil {
			c.localLogger.WithError(err).Error("Chat request failed")
			fmt.Fprint(c.conversation, formatMessage(roleBot, errorText(err)))
		} else {
			fmt.Fprint(c.conversation, formatMessage(roleBot, reply))
		}
		c.input.SetDisabled(false)
	})
}

func (c *Console) checkHealth(ctx context.Context) {
	health, err := c.gateway.Health(ctx)

	c.app.QueueUpdateDraw(func() {
		if err != nil {
			fmt.Fprint(c.conversation, formatMessage(roleBot, errorText(err)))
		} else {
			fmt.Fprint(c.conversation, formatMessage(roleBot, healthText(health)))
		}
		c.input.SetDisabled(false)
	})
}

func (c *Console) toggleDebugConsole() {
	if c.showDebug {
		c.layout.RemoveItem(c.debugConsole)
		fmt.Fprint(c.conversation, "\nDebug console disabled\n")
	} else {
		c.layout.AddItem(c.debugConsole, 0, 1, false)
		fmt.Fprint(c.conversation, "\nDebug console enabled\n")
	}
	c.showDebug = !c.showDebug
}
