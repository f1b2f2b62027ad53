// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// keepNumeric strips everything except digits and Brazilian separators.
var keepNumeric = regexp.MustCompile(`[^\d,.]`)

// ParseBRL converts a Brazilian-formatted number ("1.234,56") into a
// decimal. Dots are thousands separators and the comma is the decimal
// mark. Plain integers ("1234") are accepted.
func ParseBRL(text string) (decimal.Decimal, error) {
	clean := keepNumeric.ReplaceAllString(strings.TrimSpace(text), "")
	if clean == "" {
		return decimal.Zero, fmt.Errorf("no numeric content in %q", text)
	}
	clean = strings.ReplaceAll(clean, ".", "")
	clean = strings.ReplaceAll(clean, ",", ".")
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing %q as BRL number: %w", text, err)
	}
	return d, nil
}
