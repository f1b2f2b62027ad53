// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"regexp"
	"strings"

	"github.com/GabrielG71/nf-automate/pkg/types"
)

// itemLine matches one product row of the DANFE items table as it appears
// in the text layer: item code, description, NCM, CST, CFOP, commercial
// unit, quantity, unit value, total value. The pattern is unanchored
// because the text layer does not guarantee one row per line; the
// description itself never crosses a line break.
var itemLine = regexp.MustCompile(`(\d{3})\s+` + // item code
	`(.+?)\s+` + // description
	`(\d{8})\s+` + // NCM
	`(\d{3})\s+` + // CST
	`(\d{4})\s+` + // CFOP
	`([A-Z]{2,4})\s+` + // unit
	`([0-9.,]+)\s+` + // quantity
	`([0-9.,]+)\s+` + // unit value
	`([0-9.,]+)`) // total value

// materialKeywords maps each tracked class to the lowercase substrings
// that identify it in a product description. Plastic is checked first,
// matching the precedence of the original rules.
var materialKeywords = []struct {
	material types.MaterialType
	words    []string
}{
	{types.MaterialPlastico, []string{
		"plastico", "plástico", "pet", "pvc", "pead", "pebd", "pp", "ps",
		"polietileno", "polipropileno", "poliestireno",
	}},
	{types.MaterialMetal, []string{
		"metal", "ferro", "aco", "aço", "ferroso", "inox", "inoxidavel",
		"aluminio", "alumínio", "cobre", "bronze", "latao", "latão",
		"zinco", "chumbo", "sucata metalica", "sucata metálica",
	}},
	{types.MaterialVidro, []string{
		"vidro", "cristal", "garrafa vidro",
	}},
	{types.MaterialPapel, []string{
		"papel", "papelao", "papelão", "cartao", "cartão",
	}},
}

// ClassifyMaterial assigns a material class to a product description, or
// returns false when the description matches none of the tracked classes.
func ClassifyMaterial(descricao string) (types.MaterialType, bool) {
	desc := strings.ToLower(descricao)
	if desc == "" {
		return "", false
	}
	for _, mk := range materialKeywords {
		for _, w := range mk.words {
			if strings.Contains(desc, w) {
				return mk.material, true
			}
		}
	}
	return "", false
}

// ExtractItems parses the item rows of an NF-e text layer, keeping only
// rows whose description classifies into a tracked material type. Rows
// with unparseable quantity or value are dropped.
func ExtractItems(text string) []types.Item {
	var items []types.Item
	for _, m := range itemLine.FindAllStringSubmatch(text, -1) {
		descricao := strings.TrimSpace(m[2])
		material, ok := ClassifyMaterial(descricao)
		if !ok {
			continue
		}
		quantidade, err := ParseBRL(m[7])
		if err != nil {
			continue
		}
		valor, err := ParseBRL(m[9])
		if err != nil {
			continue
		}
		items = append(items, types.Item{
			Descricao:  descricao,
			Material:   material,
			Quantidade: quantidade,
			Valor:      valor,
		})
	}
	return items
}
