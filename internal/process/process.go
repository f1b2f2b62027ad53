// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package process drives the NF-e pipeline for one PDF or a batch:
// text extraction, field parsing, registry enrichment, row storage,
// sidecar metadata, and the move into the processed directory.
package process

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/GabrielG71/nf-automate/internal/parse"
	"github.com/GabrielG71/nf-automate/internal/pdftext"
	"github.com/GabrielG71/nf-automate/pkg/types"
)

// Enricher resolves a CNPJ to a registered company name. The registry
// client implements it; a nil Enricher skips enrichment.
type Enricher interface {
	CompanyName(ctx context.Context, cnpj string) (string, error)
}

// Storer persists extracted invoices. The store package implements it.
type Storer interface {
	HasInvoice(ctx context.Context, id string) (bool, error)
	UpsertInvoice(ctx context.Context, inv *types.Invoice) error
}

// BatchResult holds the outcome of a batch processing run.
type BatchResult struct {
	Processed int
	Skipped   int
	Failed    int
}

// Total returns the total number of PDFs handled.
func (r BatchResult) Total() int {
	return r.Processed + r.Skipped + r.Failed
}

// HasFailures reports whether any PDFs failed processing.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// InboxPDFs lists the PDF files in the inbox directory, sorted by name.
// A missing inbox is not an error; it returns an empty list.
func InboxPDFs(inboxDir string) ([]string, error) {
	entries, err := os.ReadDir(inboxDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading inbox %s: %w", inboxDir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}
		paths = append(paths, filepath.Join(inboxDir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// Slug derives the invoice ID from a PDF path: the base name without
// extension.
func Slug(pdfPath string) string {
	base := filepath.Base(pdfPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ProcessFile runs the pipeline for a single PDF, writing status lines to
// w and warnings to errW. The skipped return value indicates the PDF was
// already in the store and Force is off. A PDF whose text layer yields no
// tracked material items is an error; the file stays in the inbox.
func ProcessFile(ctx context.Context, ex pdftext.Extractor, en Enricher, st Storer, pdfPath string, cfg types.ProcessConfig, w, errW io.Writer) (inv *types.Invoice, skipped bool, err error) {
	id := Slug(pdfPath)

	if !cfg.Force {
		has, err := st.HasInvoice(ctx, id)
		if err != nil {
			return nil, false, err
		}
		if has {
			fmt.Fprintf(w, "skipped: %s (already processed)\n", id)
			return nil, true, nil
		}
	}

	text, err := ex.Extract(pdfPath)
	if err != nil {
		return nil, false, fmt.Errorf("extracting text from %s: %w", id, err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, false, fmt.Errorf("no text layer in %s (scanned PDF?)", id)
	}

	md := parse.ExtractMetadata(text)
	items := parse.ExtractItems(text)
	if len(items) == 0 {
		return nil, false, fmt.Errorf("no tracked material items in %s", id)
	}

	inv = &types.Invoice{
		ID:           id,
		Numero:       md.Numero,
		Emissao:      md.Emissao,
		Emitente:     types.Party{CNPJ: md.EmitenteCNPJ},
		Destinatario: types.Party{CNPJ: md.DestinatarioCNPJ},
		SourcePDF:    pdfPath,
		ProcessedAt:  time.Now().UTC(),
		Items:        items,
	}

	if en != nil {
		enrich(ctx, en, &inv.Emitente, errW)
		enrich(ctx, en, &inv.Destinatario, errW)
	}

	if err := st.UpsertInvoice(ctx, inv); err != nil {
		return nil, false, fmt.Errorf("storing %s: %w", id, err)
	}

	if !cfg.KeepInInbox {
		if err := archive(inv, cfg.ProcessedDir); err != nil {
			return nil, false, fmt.Errorf("archiving %s: %w", id, err)
		}
	}

	fmt.Fprintf(w, "processed: %s (%d items)\n", id, len(items))
	return inv, false, nil
}

// ProcessBatch runs the pipeline over multiple PDFs, printing per-file
// status to w and warnings to errW, and returning a summary. It continues
// after individual failures.
func ProcessBatch(ctx context.Context, ex pdftext.Extractor, en Enricher, st Storer, pdfPaths []string, cfg types.ProcessConfig, w, errW io.Writer) BatchResult {
	var result BatchResult
	for _, p := range pdfPaths {
		select {
		case <-ctx.Done():
			return result
		default:
		}

		_, wasSkipped, err := ProcessFile(ctx, ex, en, st, p, cfg, w, errW)
		switch {
		case err != nil:
			fmt.Fprintf(w, "failed:  %s (%v)\n", Slug(p), err)
			result.Failed++
		case wasSkipped:
			result.Skipped++
		default:
			result.Processed++
		}
	}
	fmt.Fprintf(w, "\nBatch summary: %d processed, %d skipped, %d failed (total: %d)\n",
		result.Processed, result.Skipped, result.Failed, result.Total())
	return result
}

// enrich fills in a party's company name. Lookup failures are warnings,
// never processing failures.
func enrich(ctx context.Context, en Enricher, party *types.Party, errW io.Writer) {
	if party.CNPJ == "" {
		return
	}
	name, err := en.CompanyName(ctx, party.CNPJ)
	if err != nil {
		fmt.Fprintf(errW, "  warning: CNPJ lookup failed for %s: %v\n", party.CNPJ, err)
		return
	}
	party.RazaoSocial = name
}

// sidecarItem renders amounts as strings; the yaml encoder cannot see
// inside decimal.Decimal.
type sidecarItem struct {
	Descricao  string `yaml:"descricao"`
	Material   string `yaml:"material"`
	Quantidade string `yaml:"quantidade"`
	Valor      string `yaml:"valor"`
}

// sidecarDoc is the YAML document written next to each processed PDF.
type sidecarDoc struct {
	ID           string        `yaml:"id"`
	Numero       string        `yaml:"numero"`
	Emissao      string        `yaml:"emissao,omitempty"`
	Emitente     types.Party   `yaml:"emitente"`
	Destinatario types.Party   `yaml:"destinatario"`
	SourcePDF    string        `yaml:"source_pdf"`
	ProcessedAt  string        `yaml:"processed_at"`
	Items        []sidecarItem `yaml:"items"`
}

// archive writes the invoice's YAML sidecar into the processed directory
// and moves the PDF next to it.
func archive(inv *types.Invoice, processedDir string) error {
	if err := os.MkdirAll(processedDir, 0o755); err != nil {
		return fmt.Errorf("creating processed directory: %w", err)
	}

	doc := sidecarDoc{
		ID:           inv.ID,
		Numero:       inv.Numero,
		Emitente:     inv.Emitente,
		Destinatario: inv.Destinatario,
		SourcePDF:    inv.SourcePDF,
		ProcessedAt:  inv.ProcessedAt.Format(time.RFC3339),
	}
	if !inv.Emissao.IsZero() {
		doc.Emissao = inv.Emissao.Format("2006-01-02")
	}
	for _, item := range inv.Items {
		doc.Items = append(doc.Items, sidecarItem{
			Descricao:  item.Descricao,
			Material:   string(item.Material),
			Quantidade: item.Quantidade.String(),
			Valor:      item.Valor.String(),
		})
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshaling sidecar: %w", err)
	}
	sidecarPath := filepath.Join(processedDir, inv.ID+".yaml")
	if err := os.WriteFile(sidecarPath, data, 0o644); err != nil {
		return fmt.Errorf("writing sidecar: %w", err)
	}

	destPath := filepath.Join(processedDir, filepath.Base(inv.SourcePDF))
	if err := os.Rename(inv.SourcePDF, destPath); err != nil {
		return fmt.Errorf("moving PDF: %w", err)
	}
	return nil
}
