package tui

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// ModelsView picks the chat model and pulls new ones.
type ModelsView struct {
	app    *App
	flex   *tview.Flex
	list   *tview.List
	pull   *tview.InputField
	status *tview.TextView

	models []string
}

// NewModelsView creates a new models view
func NewModelsView(app *App) *ModelsView {
	mv := &ModelsView{app: app}

	mv.list = tview.NewList().ShowSecondaryText(false)
	mv.list.SetBorder(true).SetTitle(" Models (Enter select, Esc back) ")

	mv.list.SetSelectedFunc(func(index int, _, _ string, _ rune) {
		if index < 0 || index >= len(mv.models) {
			return
		}
		mv.app.model = mv.models[index]
		mv.app.chatView.renderStatus()
		mv.app.pages.SwitchToPage("chat")
	})

	mv.pull = tview.NewInputField().SetLabel("Pull model: ")
	mv.pull.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter {
			return
		}
		mv.pullModel(mv.pull.GetText())
		mv.pull.SetText("")
	})

	mv.status = tview.NewTextView().SetDynamicColors(true)

	mv.flex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(mv.list, 0, 1, true).
		AddItem(mv.pull, 1, 0, false).
		AddItem(mv.status, 1, 0, false)

	return mv
}

// GetPrimitive returns the tview primitive
func (mv *ModelsView) GetPrimitive() tview.Primitive {
	return mv.flex
}

// Reload refreshes the model list from the backend. Embedding-only models
// are already filtered out by the client.
func (mv *ModelsView) Reload() {
	models, err := mv.app.client.ListModels(context.Background())
	if err != nil {
		mv.status.SetText(fmt.Sprintf("[red]cannot list models: %v", err))
		return
	}
	mv.models = models

	mv.list.Clear()
	for _, name := range models {
		mv.list.AddItem(name, "", 0, nil)
	}

	if len(models) == 0 {
		mv.status.SetText("[yellow]No models available. Pull one, e.g. qwen2.5:latest")
	} else {
		mv.status.SetText("")
	}
}

// pullModel starts a background pull and reports its outcome when done.
func (mv *ModelsView) pullModel(name string) {
	if name == "" {
		return
	}
	mv.status.SetText(fmt.Sprintf("[yellow]pulling %s...", name))

	done := mv.app.client.PullInBackground(context.Background(), name)
	go func() {
		result := <-done
		mv.app.app.QueueUpdateDraw(func() {
			if result.Err != nil {
				mv.status.SetText(fmt.Sprintf("[red]pull failed: %v", result.Err))
				return
			}
			mv.status.SetText(fmt.Sprintf("[green]pulled %s", result.Model))
			mv.Reload()
		})
	}()
}
