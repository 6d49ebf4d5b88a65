package tui

import (
	"io"
	"log/slog"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/paperchat/cli/config"
	"github.com/paperchat/cli/internal/store"
)

func newTestApp() *App {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewApp(config.Default(), logger, nil, nil, nil, nil, "test-model")
}

func pendingTurn(cv *ChatView) {
	cv.messagesData = []bubble{
		{Role: store.RoleUser, Content: "hello"},
		{Role: store.RoleAssistant, Content: "[yellow]Thinking..."},
	}
	cv.loading = true
}

func TestNewSessionIgnoredWhileReplyPending(t *testing.T) {
	a := newTestApp()
	cv := a.chatView
	pendingTurn(cv)

	capture := a.app.GetInputCapture()
	capture(tcell.NewEventKey(tcell.KeyCtrlN, 0, tcell.ModCtrl))

	if len(cv.messagesData) != 2 {
		t.Fatalf("pending conversation was cleared, %d bubbles left", len(cv.messagesData))
	}

	cv.finishTurn("hi there")
	if got := cv.messagesData[1].Content; got != "hi there" {
		t.Errorf("reply bubble: got %q", got)
	}
	if cv.loading {
		t.Error("loading flag still set after the turn finished")
	}

	// With the turn done, Ctrl+N clears as usual.
	capture(tcell.NewEventKey(tcell.KeyCtrlN, 0, tcell.ModCtrl))
	if len(cv.messagesData) != 0 {
		t.Errorf("expected a cleared conversation, got %d bubbles", len(cv.messagesData))
	}
}

func TestFinishTurnSurvivesClearedConversation(t *testing.T) {
	a := newTestApp()
	cv := a.chatView
	pendingTurn(cv)

	cv.Clear()
	cv.finishTurn("late reply")

	if cv.loading {
		t.Error("loading flag still set after the turn finished")
	}
	if len(cv.messagesData) != 0 {
		t.Errorf("late reply resurrected %d bubbles", len(cv.messagesData))
	}
}

func TestSessionSwitchIgnoredWhileReplyPending(t *testing.T) {
	a := newTestApp()
	pendingTurn(a.chatView)
	a.session.Resume("busy-session")

	sv := a.sessionsView
	sv.keys = []string{"busy-session", "other-session"}
	sv.list.AddItem("+ new session", "", 0, nil)
	sv.list.AddItem("busy-session", "", 0, nil)
	sv.list.AddItem("other-session", "", 0, nil)
	sv.list.SetCurrentItem(1)
	sv.deleteSelected()

	if !a.session.Established() || a.session.Key() != "busy-session" {
		t.Error("session changed underneath an in-flight turn")
	}
	if len(a.chatView.messagesData) != 2 {
		t.Errorf("pending conversation was cleared, %d bubbles left", len(a.chatView.messagesData))
	}
}
