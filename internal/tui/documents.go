package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rivo/tview"
)

// DocumentsView lists the PDFs in the configured documents directory and
// triggers ingestion. Ingesting replaces the whole index collection with the
// new batch.
type DocumentsView struct {
	app    *App
	flex   *tview.Flex
	list   *tview.List
	status *tview.TextView

	files     []string
	ingesting bool
}

// NewDocumentsView creates a new documents view
func NewDocumentsView(app *App) *DocumentsView {
	dv := &DocumentsView{app: app}

	dv.list = tview.NewList().ShowSecondaryText(false)
	dv.list.SetBorder(true).SetTitle(" PDFs (Enter ingest all, Esc back) ")

	dv.status = tview.NewTextView().SetDynamicColors(true)

	dv.list.SetSelectedFunc(func(int, string, string, rune) {
		dv.ingestAll()
	})

	dv.flex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(dv.list, 0, 1, true).
		AddItem(dv.status, 1, 0, false)

	return dv
}

// GetPrimitive returns the tview primitive
func (dv *DocumentsView) GetPrimitive() tview.Primitive {
	return dv.flex
}

// Reload rescans the documents directory.
func (dv *DocumentsView) Reload() {
	dv.files = nil
	dv.list.Clear()

	dir := dv.app.cfg.Paths.DocumentsDir
	entries, err := os.ReadDir(dir)
	if err != nil {
		dv.setStatus(fmt.Sprintf("[red]cannot read %s: %v", dir, err))
		return
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}
		dv.files = append(dv.files, filepath.Join(dir, entry.Name()))
		dv.list.AddItem(entry.Name(), "", 0, nil)
	}

	if len(dv.files) == 0 {
		dv.setStatus(fmt.Sprintf("[gray]no PDFs in %s", dir))
	} else {
		dv.setStatus(fmt.Sprintf("[gray]%d PDFs; Enter rebuilds the index from them", len(dv.files)))
	}
}

// ingestAll reads every listed PDF and rebuilds the index collection.
func (dv *DocumentsView) ingestAll() {
	if dv.ingesting || len(dv.files) == 0 {
		return
	}
	dv.ingesting = true
	dv.setStatus("[yellow]Processing PDFs...")

	files := append([]string(nil), dv.files...)
	go func() {
		var pdfs [][]byte
		for _, path := range files {
			data, err := os.ReadFile(path)
			if err != nil {
				dv.app.logger.Warn("failed to read PDF", "path", path, "error", err)
				continue
			}
			pdfs = append(pdfs, data)
		}

		count, err := dv.app.ingestor.Ingest(context.Background(), pdfs)

		dv.app.app.QueueUpdateDraw(func() {
			dv.ingesting = false
			if err != nil {
				dv.setStatus(fmt.Sprintf("[red]ingestion failed: %v", err))
				return
			}
			// Uploading documents switches the chat into retrieval mode.
			dv.app.pdfChat = true
			dv.app.chatView.renderStatus()
			dv.setStatus(fmt.Sprintf("[green]indexed %d chunks from %d PDFs at %s",
				count, len(pdfs), time.Now().Format("15:04:05")))
		})
	}()
}

func (dv *DocumentsView) setStatus(text string) {
	dv.status.SetText(text)
}
