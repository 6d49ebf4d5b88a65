// Package tui is the terminal presentation layer: session list, chat
// history, document ingestion and model picker around the RAG pipeline.
package tui

import (
	"log/slog"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/paperchat/cli/config"
	"github.com/paperchat/cli/internal/documents"
	"github.com/paperchat/cli/internal/ollama"
	"github.com/paperchat/cli/internal/rag"
	"github.com/paperchat/cli/internal/store"
)

// Single hardcoded user until authentication exists.
const defaultUserID int64 = 1

// App represents the main TUI application using tview
type App struct {
	app   *tview.Application
	pages *tview.Pages

	cfg          *config.Config
	logger       *slog.Logger
	store        *store.DB
	ingestor     *documents.Ingestor
	orchestrator *rag.Orchestrator
	client       *ollama.Client

	// Explicit per-app state instead of package globals.
	session sessionState
	model   string
	pdfChat bool

	chatView      *ChatView
	sessionsView  *SessionsView
	documentsView *DocumentsView
	modelsView    *ModelsView
}

// NewApp wires the already-built pipeline components into the TUI.
func NewApp(
	cfg *config.Config,
	logger *slog.Logger,
	st *store.DB,
	ingestor *documents.Ingestor,
	orchestrator *rag.Orchestrator,
	client *ollama.Client,
	defaultModel string,
) *App {
	if logger == nil {
		logger = slog.Default()
	}

	a := &App{
		cfg:          cfg,
		logger:       logger,
		store:        st,
		ingestor:     ingestor,
		orchestrator: orchestrator,
		client:       client,
		model:        defaultModel,
	}

	a.app = tview.NewApplication()
	a.pages = tview.NewPages()

	a.chatView = NewChatView(a)
	a.sessionsView = NewSessionsView(a)
	a.documentsView = NewDocumentsView(a)
	a.modelsView = NewModelsView(a)

	a.pages.AddPage("chat", a.chatView.GetPrimitive(), true, true)
	a.pages.AddPage("sessions", a.sessionsView.GetPrimitive(), true, false)
	a.pages.AddPage("documents", a.documentsView.GetPrimitive(), true, false)
	a.pages.AddPage("models", a.modelsView.GetPrimitive(), true, false)

	a.app.SetRoot(a.pages, true).SetFocus(a.pages)

	a.pages.SetChangedFunc(func() {
		name, _ := a.pages.GetFrontPage()
		switch name {
		case "chat":
			a.app.SetFocus(a.chatView.input)
		case "sessions":
			a.sessionsView.Reload()
		case "documents":
			a.documentsView.Reload()
		case "models":
			a.modelsView.Reload()
		}
	})

	a.setupGlobalKeys()

	return a
}

// setupGlobalKeys sets up keyboard shortcuts shared by every page.
func (a *App) setupGlobalKeys() {
	a.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyCtrlC:
			a.app.Stop()
			return nil
		case tcell.KeyEsc:
			name, _ := a.pages.GetFrontPage()
			if name == "chat" {
				a.app.Stop()
				return nil
			}
			a.pages.SwitchToPage("chat")
			return nil
		case tcell.KeyCtrlS:
			a.pages.SwitchToPage("sessions")
			return nil
		case tcell.KeyCtrlD:
			a.pages.SwitchToPage("documents")
			return nil
		case tcell.KeyCtrlL:
			a.pages.SwitchToPage("models")
			return nil
		case tcell.KeyCtrlP:
			a.pdfChat = !a.pdfChat
			a.chatView.renderStatus()
			return nil
		case tcell.KeyCtrlN:
			// A reply is still pending for the current session.
			if a.chatView.loading {
				return nil
			}
			a.session.Reset()
			a.chatView.Clear()
			a.pages.SwitchToPage("chat")
			return nil
		}
		return event
	})
}

// Run starts the TUI application
func (a *App) Run() error {
	return a.app.Run()
}
