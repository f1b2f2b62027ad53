// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package process

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/GabrielG71/nf-automate/internal/store"
	"github.com/GabrielG71/nf-automate/pkg/types"
)

const danfeText = `RECICLAGEM BOA VISTA LTDA
CNPJ: 11.222.333/0001-81
DANFE - Documento Auxiliar da Nota Fiscal Eletrônica
NF-e Nº 123456
DATA DE EMISSÃO: 15/03/2026
DESTINATÁRIO / REMETENTE
COOPERATIVA VERDE SA
CNPJ/CPF: 11.444.777/0001-61
001 SUCATA DE PAPELAO PRENSADO 47071000 000 5102 KG 1.250,00 0,55 687,50
002 GARRAFA PET TRANSPARENTE 39076100 000 5102 KG 300,00 1,20 360,00`

// fakeExtractor returns canned text, or an error, keyed by file base name.
type fakeExtractor struct {
	text string
	err  error
}

func (f *fakeExtractor) Extract(path string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

// fakeEnricher resolves CNPJs from a fixed map.
type fakeEnricher struct {
	names map[string]string
}

func (f *fakeEnricher) CompanyName(_ context.Context, cnpj string) (string, error) {
	name, ok := f.names[cnpj]
	if !ok {
		return "", errors.New("registry unavailable")
	}
	return name, nil
}

func setup(t *testing.T) (st *store.Store, cfg types.ProcessConfig, pdfPath string) {
	t.Helper()
	dir := t.TempDir()
	cfg = types.ProcessConfig{
		InboxDir:     filepath.Join(dir, "inbox"),
		ProcessedDir: filepath.Join(dir, "processed"),
	}
	require.NoError(t, os.MkdirAll(cfg.InboxDir, 0o755))

	pdfPath = filepath.Join(cfg.InboxDir, "nfe-000123.pdf")
	require.NoError(t, os.WriteFile(pdfPath, []byte("%PDF-fake"), 0o644))

	var err error
	st, err = store.NewStore(types.StoreConfig{DataDir: filepath.Join(dir, "data")}, 0)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st, cfg, pdfPath
}

func TestProcessFile(t *testing.T) {
	st, cfg, pdfPath := setup(t)
	ex := &fakeExtractor{text: danfeText}
	en := &fakeEnricher{names: map[string]string{
		"11.222.333/0001-81": "RECICLAGEM BOA VISTA LTDA",
		"11.444.777/0001-61": "COOPERATIVA VERDE SA",
	}}

	var log, warnings bytes.Buffer
	inv, skipped, err := ProcessFile(context.Background(), ex, en, st, pdfPath, cfg, &log, &warnings)
	require.NoError(t, err)
	assert.False(t, skipped)
	assert.Empty(t, warnings.String())

	assert.Equal(t, "nfe-000123", inv.ID)
	assert.Equal(t, "123456", inv.Numero)
	assert.Equal(t, "RECICLAGEM BOA VISTA LTDA", inv.Emitente.RazaoSocial)
	assert.Equal(t, "COOPERATIVA VERDE SA", inv.Destinatario.RazaoSocial)
	require.Len(t, inv.Items, 2)

	// The PDF moved to processed/ with a YAML sidecar next to it.
	assert.NoFileExists(t, pdfPath)
	assert.FileExists(t, filepath.Join(cfg.ProcessedDir, "nfe-000123.pdf"))

	data, err := os.ReadFile(filepath.Join(cfg.ProcessedDir, "nfe-000123.yaml"))
	require.NoError(t, err)
	var doc sidecarDoc
	require.NoError(t, yaml.Unmarshal(data, &doc))
	assert.Equal(t, "nfe-000123", doc.ID)
	assert.Equal(t, "2026-03-15", doc.Emissao)
	require.Len(t, doc.Items, 2)
	assert.Equal(t, "687.50", doc.Items[0].Valor)

	// Rows landed in the store.
	rows, err := st.Rows(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	assert.Contains(t, log.String(), "processed: nfe-000123")
}

func TestProcessFile_SkipsAlreadyProcessed(t *testing.T) {
	st, cfg, pdfPath := setup(t)
	cfg.KeepInInbox = true
	ex := &fakeExtractor{text: danfeText}

	var log bytes.Buffer
	_, skipped, err := ProcessFile(context.Background(), ex, nil, st, pdfPath, cfg, &log, &log)
	require.NoError(t, err)
	require.False(t, skipped)

	_, skipped, err = ProcessFile(context.Background(), ex, nil, st, pdfPath, cfg, &log, &log)
	require.NoError(t, err)
	assert.True(t, skipped)
	assert.Contains(t, log.String(), "skipped: nfe-000123")

	// Force reprocesses.
	cfg.Force = true
	_, skipped, err = ProcessFile(context.Background(), ex, nil, st, pdfPath, cfg, &log, &log)
	require.NoError(t, err)
	assert.False(t, skipped)
}

func TestProcessFile_EnrichmentFailureIsWarning(t *testing.T) {
	st, cfg, pdfPath := setup(t)
	ex := &fakeExtractor{text: danfeText}
	en := &fakeEnricher{names: map[string]string{}}

	var log, warnings bytes.Buffer
	inv, _, err := ProcessFile(context.Background(), ex, en, st, pdfPath, cfg, &log, &warnings)
	require.NoError(t, err)
	assert.Empty(t, inv.Emitente.RazaoSocial)
	assert.Contains(t, warnings.String(), "warning: CNPJ lookup failed")

	// Warnings stay off the status stream.
	assert.NotContains(t, log.String(), "warning")
}

func TestProcessFile_Failures(t *testing.T) {
	tests := []struct {
		name    string
		ex      *fakeExtractor
		wantErr string
	}{
		{"extraction error", &fakeExtractor{err: errors.New("broken xref")}, "extracting text"},
		{"empty text layer", &fakeExtractor{text: "   \n"}, "no text layer"},
		{"no material items", &fakeExtractor{text: "NF-e Nº 1 sem itens"}, "no tracked material items"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, cfg, pdfPath := setup(t)

			var log bytes.Buffer
			_, _, err := ProcessFile(context.Background(), tt.ex, nil, st, pdfPath, cfg, &log, &log)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)

			// Failed PDFs stay in the inbox.
			assert.FileExists(t, pdfPath)
		})
	}
}

func TestProcessBatch(t *testing.T) {
	st, cfg, pdfPath := setup(t)

	badPath := filepath.Join(cfg.InboxDir, "scan-only.pdf")
	require.NoError(t, os.WriteFile(badPath, []byte("%PDF-fake"), 0o644))

	ex := &selectiveExtractor{good: pdfPath}

	var log, warnings bytes.Buffer
	result := ProcessBatch(context.Background(), ex, nil, st, []string{pdfPath, badPath}, cfg, &log, &warnings)

	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 2, result.Total())
	assert.True(t, result.HasFailures())
	assert.Contains(t, log.String(), "Batch summary: 1 processed, 0 skipped, 1 failed")
}

// selectiveExtractor returns DANFE text for one path and empty text otherwise.
type selectiveExtractor struct {
	good string
}

func (s *selectiveExtractor) Extract(path string) (string, error) {
	if path == s.good {
		return danfeText, nil
	}
	return "", nil
}

func TestInboxPDFs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.pdf", "a.PDF", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.pdf"), 0o755))

	paths, err := InboxPDFs(dir)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.True(t, strings.HasSuffix(paths[0], "a.PDF"))
	assert.True(t, strings.HasSuffix(paths[1], "b.pdf"))

	paths, err = InboxPDFs(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "nfe-000123", Slug("/tmp/inbox/nfe-000123.pdf"))
	assert.Equal(t, "doc", Slug("doc.PDF"))
}
