// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"fmt"
	"io"
	"sort"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/GabrielG71/nf-automate/pkg/types"
)

// MaterialSummary aggregates the rows of one material type.
type MaterialSummary struct {
	Material   string
	Quantidade decimal.Decimal
	Valor      decimal.Decimal
	Registros  int
}

// Summarize groups rows by material type, summing quantity and value.
// Results are ordered by material name.
func Summarize(rows []types.ExportRow) []MaterialSummary {
	byMaterial := make(map[string]*MaterialSummary)
	for _, r := range rows {
		s, ok := byMaterial[r.Material]
		if !ok {
			s = &MaterialSummary{Material: r.Material}
			byMaterial[r.Material] = s
		}
		s.Quantidade = s.Quantidade.Add(r.Quantidade)
		s.Valor = s.Valor.Add(r.Valor)
		s.Registros++
	}

	out := make([]MaterialSummary, 0, len(byMaterial))
	for _, s := range byMaterial {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Material < out[j].Material })
	return out
}

// Report prints a per-material totals report to w, with values formatted
// as BRL.
func Report(rows []types.ExportRow, w io.Writer) {
	summaries := Summarize(rows)

	total := decimal.Zero
	for _, s := range summaries {
		fmt.Fprintf(w, "  %-10s %4d registros  %s\n",
			s.Material, s.Registros, brl(s.Valor))
		total = total.Add(s.Valor)
	}
	fmt.Fprintf(w, "  Total: %s (%d linhas)\n", brl(total), len(rows))
}

// brl renders a decimal BRL amount with Brazilian separators.
func brl(d decimal.Decimal) string {
	cents := d.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	return money.New(cents, money.BRL).Display()
}
