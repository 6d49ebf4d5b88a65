package tui

import (
	"context"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// SessionsView lists stored sessions, most recent first.
type SessionsView struct {
	app  *App
	flex *tview.Flex
	list *tview.List

	keys []string
}

// NewSessionsView creates a new sessions view
func NewSessionsView(app *App) *SessionsView {
	sv := &SessionsView{app: app}

	sv.list = tview.NewList().ShowSecondaryText(false)
	sv.list.SetBorder(true).SetTitle(" Sessions (Enter resume, d delete, Esc back) ")

	sv.list.SetSelectedFunc(func(index int, _, _ string, _ rune) {
		if sv.app.chatView.loading {
			return
		}
		if index == 0 {
			sv.app.session.Reset()
		} else if index-1 < len(sv.keys) {
			sv.app.session.Resume(sv.keys[index-1])
		}
		sv.app.chatView.ReloadFromStore()
		sv.app.pages.SwitchToPage("chat")
	})

	sv.list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Rune() == 'd' {
			sv.deleteSelected()
			return nil
		}
		return event
	})

	sv.flex = tview.NewFlex().AddItem(sv.list, 0, 1, true)

	return sv
}

// GetPrimitive returns the tview primitive
func (sv *SessionsView) GetPrimitive() tview.Primitive {
	return sv.flex
}

// Reload refreshes the session list from storage.
func (sv *SessionsView) Reload() {
	keys, err := sv.app.store.ListSessions(context.Background(), defaultUserID)
	if err != nil {
		sv.app.logger.Error("failed to list sessions", "error", err)
		keys = nil
	}
	sv.keys = keys

	sv.list.Clear()
	sv.list.AddItem("+ new session", "", 0, nil)
	for _, key := range keys {
		sv.list.AddItem(key, "", 0, nil)
	}
}

// deleteSelected removes the highlighted session and its messages. A failed
// delete degrades silently beyond the log line.
func (sv *SessionsView) deleteSelected() {
	if sv.app.chatView.loading {
		return
	}
	index := sv.list.GetCurrentItem()
	if index == 0 || index-1 >= len(sv.keys) {
		return
	}
	key := sv.keys[index-1]

	if err := sv.app.store.DeleteSession(context.Background(), key, defaultUserID); err != nil {
		sv.app.logger.Error("failed to delete session", "key", key, "error", err)
	}

	if sv.app.session.Established() && sv.app.session.Key() == key {
		sv.app.session.Reset()
		sv.app.chatView.Clear()
	}
	sv.Reload()
}
