// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export serializes stored invoice rows into spreadsheets: an XLSX
// workbook with detail and per-material summary sheets, or a CSV file.
package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/GabrielG71/nf-automate/pkg/types"
)

// DefaultFilename returns the timestamped output name used when the
// configuration does not name one.
func DefaultFilename(format types.ExportFormat) string {
	return fmt.Sprintf("materiais_reciclaveis_%s.%s",
		time.Now().Format("20060102_150405"), format)
}

const (
	detailSheet  = "Materiais_Reciclaveis"
	summarySheet = "Resumo_por_Material"

	// maxColWidth caps the auto-sized column width.
	maxColWidth = 50
)

// detailHeaders is the column order of the detail sheet.
var detailHeaders = []string{
	"Razão Social Emitente",
	"CNPJ Emitente",
	"Razão Social Destinatário",
	"CNPJ Destinatário",
	"Número NFe",
	"Data Emissão",
	"Quantidade",
	"Valor Total",
	"Tipo Material",
	"Descrição",
}

// WriteXLSX writes rows to an XLSX workbook at path with a detail sheet
// and a per-material summary sheet. An empty row set is an error.
func WriteXLSX(rows []types.ExportRow, path string) error {
	if len(rows) == 0 {
		return fmt.Errorf("no rows to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", detailSheet); err != nil {
		return fmt.Errorf("naming detail sheet: %w", err)
	}

	widths := make([]int, len(detailHeaders))
	for i, h := range detailHeaders {
		widths[i] = len(h)
	}

	if err := writeRow(f, detailSheet, 1, toCells(detailHeaders)); err != nil {
		return err
	}
	for i, r := range rows {
		cells := []interface{}{
			r.EmitenteRazao, r.EmitenteCNPJ, r.DestRazao, r.DestCNPJ,
			r.Numero, r.Emissao,
			r.Quantidade.InexactFloat64(), r.Valor.InexactFloat64(),
			r.Material, r.Descricao,
		}
		if err := writeRow(f, detailSheet, i+2, cells); err != nil {
			return err
		}
		for col, c := range cells {
			if n := len(fmt.Sprint(c)); n > widths[col] {
				widths[col] = n
			}
		}
	}

	for col, w := range widths {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return fmt.Errorf("column name: %w", err)
		}
		width := float64(w + 2)
		if width > maxColWidth {
			width = maxColWidth
		}
		if err := f.SetColWidth(detailSheet, name, name, width); err != nil {
			return fmt.Errorf("setting column width: %w", err)
		}
	}

	if err := writeSummarySheet(f, rows); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, rows []types.ExportRow) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("creating summary sheet: %w", err)
	}

	headers := []interface{}{"Tipo Material", "Quantidade", "Valor Total", "Qtd Registros"}
	if err := writeRow(f, summarySheet, 1, headers); err != nil {
		return err
	}

	for i, s := range Summarize(rows) {
		cells := []interface{}{
			s.Material,
			s.Quantidade.InexactFloat64(),
			s.Valor.InexactFloat64(),
			s.Registros,
		}
		if err := writeRow(f, summarySheet, i+2, cells); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, cells []interface{}) error {
	for col, v := range cells {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("cell coordinates: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("writing cell %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

func toCells(ss []string) []interface{} {
	out := make([]interface{}, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
