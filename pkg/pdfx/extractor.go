package pdfx

import (
	"fmt"

	"github.com/ledongthuc/pdf"
)

// Page is the extracted text of one PDF page, 1-based.
type Page struct {
	Number int
	Text   string
}

// Extractor pulls per-page plain text out of PDF files on disk.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the plain text of every page of the PDF at path, in page
// order. A page whose text cannot be decoded contributes an empty string
// rather than failing the whole document; an unreadable file is an error.
func (e *Extractor) Extract(path string) ([]Page, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	pages := make([]Page, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		p := reader.Page(i)
		if p.V.IsNull() {
			pages = append(pages, Page{Number: i})
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			// Damaged page streams happen in scanned PDFs; the page just
			// yields no chunks.
			pages = append(pages, Page{Number: i})
			continue
		}
		pages = append(pages, Page{Number: i, Text: text})
	}
	return pages, nil
}
