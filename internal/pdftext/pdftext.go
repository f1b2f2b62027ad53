// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdftext extracts the embedded text layer from PDF files.
// Scanned (image-only) PDFs yield empty text; OCR is out of scope.
package pdftext

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Extractor turns a PDF file into its plain-text content. The pipeline
// depends on this interface so tests can substitute canned text.
type Extractor interface {
	// Extract reads the PDF at path and returns its text layer,
	// pages joined by newlines.
	Extract(path string) (string, error)
}

// LayerExtractor reads the text layer with the ledongthuc/pdf parser.
type LayerExtractor struct{}

// New returns the default text-layer extractor.
func New() *LayerExtractor {
	return &LayerExtractor{}
}

// Extract implements Extractor.
func (LayerExtractor) Extract(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening pdf %s: %w", path, err)
	}
	defer f.Close()

	fonts := make(map[string]*pdf.Font)
	var pages []string

	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}

		for _, name := range p.Fonts() {
			if _, ok := fonts[name]; !ok {
				font := p.Font(name)
				fonts[name] = &font
			}
		}

		text, err := p.GetPlainText(fonts)
		if err != nil {
			return "", fmt.Errorf("reading pdf page %d of %s: %w", i, path, err)
		}
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			pages = append(pages, trimmed)
		}
	}

	return strings.Join(pages, "\n"), nil
}
