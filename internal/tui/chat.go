package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/paperchat/cli/internal/store"
)

// ChatView renders the conversation and accepts user turns.
type ChatView struct {
	app      *App
	flex     *tview.Flex
	messages *tview.TextView
	status   *tview.TextView
	input    *tview.TextArea

	messagesData []bubble
	loading      bool
}

// bubble is one rendered chat message.
type bubble struct {
	Role    string
	Content string
}

// NewChatView creates a new chat view
func NewChatView(app *App) *ChatView {
	cv := &ChatView{app: app}

	cv.messages = tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetScrollable(true)
	cv.messages.SetBorder(true).SetTitle(" Chat ")

	cv.status = tview.NewTextView().SetDynamicColors(true)

	cv.input = tview.NewTextArea().
		SetPlaceholder("Type your message here (Ctrl+Enter to send)").
		SetWrap(true)

	cv.input.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEnter && event.Modifiers()&tcell.ModCtrl != 0 {
			cv.sendMessage()
			return nil
		}
		return event
	})

	cv.flex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(cv.messages, 0, 1, false).
		AddItem(cv.status, 1, 0, false).
		AddItem(cv.input, 3, 0, true)

	cv.renderStatus()

	return cv
}

// GetPrimitive returns the tview primitive
func (cv *ChatView) GetPrimitive() tview.Primitive {
	return cv.flex
}

// Clear empties the rendered conversation (used when starting fresh).
func (cv *ChatView) Clear() {
	cv.messagesData = nil
	cv.renderMessages()
	cv.renderStatus()
}

// ReloadFromStore replaces the rendered conversation with the persisted
// history of the current session.
func (cv *ChatView) ReloadFromStore() {
	cv.messagesData = nil
	if cv.app.session.Established() {
		history, err := cv.app.store.LoadHistory(context.Background(), cv.app.session.Key(), defaultUserID)
		if err != nil {
			cv.app.logger.Error("failed to load history", "error", err)
		}
		for _, m := range history {
			if m.Kind != store.KindText {
				continue
			}
			cv.messagesData = append(cv.messagesData, bubble{Role: m.SenderType, Content: m.Content})
		}
	}
	cv.renderMessages()
	cv.renderStatus()
}

// sendMessage runs one chat turn.
func (cv *ChatView) sendMessage() {
	userMsg := strings.TrimSpace(cv.input.GetText())
	if userMsg == "" || cv.loading {
		return
	}

	cv.input.SetText("", false)
	cv.loading = true

	cv.messagesData = append(cv.messagesData, bubble{Role: store.RoleUser, Content: userMsg})
	cv.messagesData = append(cv.messagesData, bubble{Role: store.RoleAssistant, Content: "[yellow]Thinking..."})
	cv.renderMessages()

	// Snapshot the turn's inputs here on the event loop; the worker
	// goroutine must not touch state that event handlers mutate.
	go cv.runTurn(cv.app.session.Key(), cv.app.model, cv.app.pdfChat, userMsg)
}

// runTurn loads the history window, asks the orchestrator for a reply and
// persists both sides of the turn. Backend failures come back as reply text,
// so the persistence path is identical either way.
func (cv *ChatView) runTurn(key, model string, pdfChat bool, userMsg string) {
	ctx := context.Background()
	app := cv.app

	history, err := app.store.LoadRecentHistory(ctx, key, defaultUserID, app.cfg.Chat.MemoryLength)
	if err != nil {
		app.logger.Error("failed to load recent history", "error", err)
		history = nil
	}

	reply := app.orchestrator.Respond(ctx, model, userMsg, history, pdfChat)

	if err := app.store.AppendMessage(ctx, key, defaultUserID, store.RoleUser, store.KindText, userMsg); err != nil {
		app.logger.Error("failed to save user message", "error", err)
	}
	if err := app.store.AppendMessage(ctx, key, defaultUserID, store.RoleAssistant, store.KindText, reply); err != nil {
		app.logger.Error("failed to save assistant message", "error", err)
	}

	app.app.QueueUpdateDraw(func() {
		cv.finishTurn(reply)
	})
}

// finishTurn lands the reply in the conversation. Runs on the event loop.
// Session switches are ignored while loading is set, but the length check
// still guards against the conversation having been cleared underneath an
// in-flight turn.
func (cv *ChatView) finishTurn(reply string) {
	if n := len(cv.messagesData); n > 0 {
		cv.messagesData[n-1] = bubble{Role: store.RoleAssistant, Content: reply}
	}
	cv.loading = false
	cv.app.session.Establish()
	cv.renderMessages()
	cv.renderStatus()
}

// renderMessages updates the messages display
func (cv *ChatView) renderMessages() {
	var lines []string
	for _, msg := range cv.messagesData {
		if msg.Role == store.RoleUser {
			lines = append(lines, fmt.Sprintf("[cyan]You: %s[white]", tview.Escape(msg.Content)))
		} else {
			lines = append(lines, fmt.Sprintf("[white]AI: %s[white]", msg.Content))
		}
		lines = append(lines, "")
	}
	cv.messages.SetText(strings.Join(lines, "\n"))
	cv.messages.ScrollToEnd()
}

// renderStatus updates the one-line mode indicator.
func (cv *ChatView) renderStatus() {
	mode := "plain"
	if cv.app.pdfChat {
		mode = "pdf"
	}
	session := "new"
	if cv.app.session.Established() {
		session = cv.app.session.Key()
	}
	cv.status.SetText(fmt.Sprintf(
		"[gray]model: %s | mode: %s | session: %s | ^S sessions ^D documents ^L models ^P pdf-mode ^N new[white]",
		cv.app.model, mode, session,
	))
}
