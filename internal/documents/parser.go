// Package documents turns PDF bytes into embedded chunks in the vector index.
package documents

import (
	"log/slog"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// PDFParser extracts text from PDF byte streams.
type PDFParser struct {
	logger *slog.Logger
}

// NewPDFParser creates a new PDF parser
func NewPDFParser(logger *slog.Logger) *PDFParser {
	if logger == nil {
		logger = slog.Default()
	}
	return &PDFParser{logger: logger}
}

// ExtractText decodes a PDF and returns the concatenated page text in page
// order. A malformed document yields an empty string and a log line, so one
// bad file never aborts a batch.
func (p *PDFParser) ExtractText(data []byte) string {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		p.logger.Error("failed to open PDF", "error", err)
		return ""
	}
	defer doc.Close()

	var pages []string
	for i := 0; i < doc.NumPage(); i++ {
		text, err := doc.Text(i)
		if err != nil {
			p.logger.Warn("failed to read PDF page", "page", i, "error", err)
			continue
		}
		if strings.TrimSpace(text) != "" {
			pages = append(pages, text)
		}
	}

	return strings.Join(pages, "\n")
}
