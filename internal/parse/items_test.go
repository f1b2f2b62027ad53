// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GabrielG71/nf-automate/pkg/types"
)

const danfeItems = `CÓDIGO DESCRIÇÃO DO PRODUTO NCM/SH CST CFOP UNID QUANT VALOR UNIT VALOR TOTAL
001 SUCATA DE PAPELAO PRENSADO 47071000 000 5102 KG 1.250,00 0,55 687,50
002 GARRAFA PET TRANSPARENTE 39076100 000 5102 KG 300,00 1,20 360,00
003 SERVICO DE TRANSPORTE 99999999 000 5353 UN 1,00 100,00 100,00
004 VIDRO MISTO LIMPO 70010000 000 5102 KG 80,50 0,30 24,15`

func TestExtractItems(t *testing.T) {
	items := ExtractItems(danfeItems)
	require.Len(t, items, 3, "the service row must be filtered out")

	assert.Equal(t, "SUCATA DE PAPELAO PRENSADO", items[0].Descricao)
	assert.Equal(t, types.MaterialPapel, items[0].Material)
	assert.True(t, items[0].Quantidade.Equal(decimal.RequireFromString("1250.00")))
	assert.True(t, items[0].Valor.Equal(decimal.RequireFromString("687.50")))

	assert.Equal(t, types.MaterialPlastico, items[1].Material)
	assert.True(t, items[1].Valor.Equal(decimal.RequireFromString("360.00")))

	assert.Equal(t, types.MaterialVidro, items[2].Material)
	assert.True(t, items[2].Quantidade.Equal(decimal.RequireFromString("80.50")))
}

func TestExtractItems_RowSharesLineWithOtherText(t *testing.T) {
	// Some text layers run the table header and the first row together on
	// one line; the row must still be picked up.
	text := "VALOR TOTAL 001 SUCATA DE PAPELAO PRENSADO 47071000 000 5102 KG 1.250,00 0,55 687,50"

	items := ExtractItems(text)
	require.Len(t, items, 1)
	assert.Equal(t, "SUCATA DE PAPELAO PRENSADO", items[0].Descricao)
	assert.Equal(t, types.MaterialPapel, items[0].Material)
	assert.True(t, items[0].Valor.Equal(decimal.RequireFromString("687.50")))
}

func TestExtractItems_Empty(t *testing.T) {
	assert.Empty(t, ExtractItems("nenhuma linha de item aqui"))
}

func TestClassifyMaterial(t *testing.T) {
	tests := []struct {
		desc string
		want types.MaterialType
		ok   bool
	}{
		{"SUCATA DE PAPELAO PRENSADO", types.MaterialPapel, true},
		{"GARRAFA PET", types.MaterialPlastico, true},
		{"SUCATA METÁLICA MISTA", types.MaterialMetal, true},
		{"ALUMÍNIO EM CHAPAS", types.MaterialMetal, true},
		{"GARRAFA DE VIDRO AMBAR", types.MaterialVidro, true},
		{"CACO DE ACO INOX", types.MaterialMetal, true},
		{"CARTÃO ONDULADO", types.MaterialPapel, true},
		{"SERVICO DE TRANSPORTE", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			got, ok := ClassifyMaterial(tt.desc)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
