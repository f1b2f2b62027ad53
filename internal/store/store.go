// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists extracted invoice rows and the CNPJ registry
// cache in a local SQLite database. Processing ingests rows; export
// queries them back, so runs are incremental and re-exportable.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/GabrielG71/nf-automate/pkg/types"
)

const dbFile = "nfe.db"

// dateLayout is the storage form for emission dates.
const dateLayout = "2006-01-02"

// Store manages the invoice SQLite database.
type Store struct {
	db       *sql.DB
	cacheTTL time.Duration
}

// NewStore opens or creates the database at dataDir/nfe.db, creating the
// schema if it does not exist. cacheTTL bounds the age of registry cache
// entries; zero means entries never expire.
func NewStore(cfg types.StoreConfig, cacheTTL time.Duration) (*Store, error) {
	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = "data"
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, cacheTTL: cacheTTL}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS invoices (
			id TEXT PRIMARY KEY,
			numero TEXT,
			emissao TEXT,
			emit_cnpj TEXT,
			emit_nome TEXT,
			dest_cnpj TEXT,
			dest_nome TEXT,
			source_pdf TEXT,
			processed_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS items (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			invoice_id TEXT NOT NULL REFERENCES invoices(id),
			descricao TEXT NOT NULL,
			material TEXT NOT NULL,
			quantidade TEXT NOT NULL,
			valor TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_items_invoice_id ON items(invoice_id)`,
		`CREATE INDEX IF NOT EXISTS idx_items_material ON items(material)`,
		`CREATE TABLE IF NOT EXISTS registry_cache (
			cnpj TEXT PRIMARY KEY,
			razao_social TEXT,
			fetched_at TEXT NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// HasInvoice reports whether rows for the given invoice ID are already stored.
func (s *Store) HasInvoice(ctx context.Context, id string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM invoices WHERE id = ?`, id).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking invoice %s: %w", id, err)
	}
	return n > 0, nil
}

// UpsertInvoice stores an invoice and its items, replacing any rows from a
// previous run so re-processing never duplicates spreadsheet rows.
func (s *Store) UpsertInvoice(ctx context.Context, inv *types.Invoice) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM items WHERE invoice_id = ?`, inv.ID); err != nil {
		return fmt.Errorf("deleting old items: %w", err)
	}

	emissao := ""
	if !inv.Emissao.IsZero() {
		emissao = inv.Emissao.Format(dateLayout)
	}
	processedAt := inv.ProcessedAt.UTC().Format(time.RFC3339)

	_, err = tx.ExecContext(ctx,
		`INSERT INTO invoices (id, numero, emissao, emit_cnpj, emit_nome, dest_cnpj, dest_nome, source_pdf, processed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			numero=excluded.numero, emissao=excluded.emissao,
			emit_cnpj=excluded.emit_cnpj, emit_nome=excluded.emit_nome,
			dest_cnpj=excluded.dest_cnpj, dest_nome=excluded.dest_nome,
			source_pdf=excluded.source_pdf, processed_at=excluded.processed_at`,
		inv.ID, inv.Numero, emissao,
		inv.Emitente.CNPJ, inv.Emitente.RazaoSocial,
		inv.Destinatario.CNPJ, inv.Destinatario.RazaoSocial,
		inv.SourcePDF, processedAt,
	)
	if err != nil {
		return fmt.Errorf("upserting invoice %s: %w", inv.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO items (invoice_id, descricao, material, quantidade, valor)
		 VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing item insert: %w", err)
	}
	defer stmt.Close()

	for _, item := range inv.Items {
		_, err := stmt.ExecContext(ctx,
			inv.ID, item.Descricao, string(item.Material),
			item.Quantidade.String(), item.Valor.String())
		if err != nil {
			return fmt.Errorf("inserting item %q: %w", item.Descricao, err)
		}
	}

	return tx.Commit()
}

// Rows returns every stored line item joined with its invoice metadata,
// ordered by emission date then invoice number, ready for export.
func (s *Store) Rows(ctx context.Context) ([]types.ExportRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT i.emit_nome, i.emit_cnpj, i.dest_nome, i.dest_cnpj,
		        i.numero, i.emissao, t.quantidade, t.valor, t.material, t.descricao
		 FROM items t JOIN invoices i ON i.id = t.invoice_id
		 ORDER BY i.emissao, i.numero, t.rowid`)
	if err != nil {
		return nil, fmt.Errorf("querying rows: %w", err)
	}
	defer rows.Close()

	var out []types.ExportRow
	for rows.Next() {
		var r types.ExportRow
		var quantidade, valor string
		if err := rows.Scan(&r.EmitenteRazao, &r.EmitenteCNPJ, &r.DestRazao, &r.DestCNPJ,
			&r.Numero, &r.Emissao, &quantidade, &valor, &r.Material, &r.Descricao); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if r.Quantidade, err = decimal.NewFromString(quantidade); err != nil {
			return nil, fmt.Errorf("stored quantity %q: %w", quantidade, err)
		}
		if r.Valor, err = decimal.NewFromString(valor); err != nil {
			return nil, fmt.Errorf("stored value %q: %w", valor, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CompanyName returns the cached registry answer for a CNPJ (digits only).
// ok is false when there is no entry or the entry has expired. A cached
// empty name is a valid negative answer.
func (s *Store) CompanyName(ctx context.Context, cnpj string) (name string, ok bool, err error) {
	var fetchedAt string
	err = s.db.QueryRowContext(ctx,
		`SELECT razao_social, fetched_at FROM registry_cache WHERE cnpj = ?`, cnpj,
	).Scan(&name, &fetchedAt)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading registry cache: %w", err)
	}

	if s.cacheTTL > 0 {
		t, parseErr := time.Parse(time.RFC3339, fetchedAt)
		if parseErr != nil || time.Since(t) > s.cacheTTL {
			return "", false, nil
		}
	}
	return name, true, nil
}

// PutCompanyName stores a registry answer for a CNPJ (digits only).
// An empty name records a negative answer so failed lookups are not
// repeated within the TTL window.
func (s *Store) PutCompanyName(ctx context.Context, cnpj, name string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO registry_cache (cnpj, razao_social, fetched_at) VALUES (?, ?, ?)
		 ON CONFLICT(cnpj) DO UPDATE SET
			razao_social=excluded.razao_social, fetched_at=excluded.fetched_at`,
		cnpj, name, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("writing registry cache: %w", err)
	}
	return nil
}
