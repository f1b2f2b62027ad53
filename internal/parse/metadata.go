// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"regexp"
	"time"
)

var (
	// numeroNFe matches the full "NF-e Nº 123456" form printed on DANFEs.
	numeroNFe = regexp.MustCompile(`(?i)NF-e\s+N[º°]\s*(\d{1,9})`)

	// numeroSimples is the fallback for layouts that only print "Nº 123456".
	numeroSimples = regexp.MustCompile(`(?i)N[º°]\s*(\d+)`)

	// dataEmissao matches "EMISSÃO: 02/01/2026" with or without the accent.
	dataEmissao = regexp.MustCompile(`(?i)EMISS[ÃA]O[:\s]*([0-9]{2}/[0-9]{2}/[0-9]{4})`)
)

// Metadata holds the header fields parsed from an NF-e text layer.
type Metadata struct {
	// Numero is the NF-e number, empty when not found.
	Numero string

	// Emissao is the emission date, zero when not found or unparseable.
	Emissao time.Time

	// EmitenteCNPJ and DestinatarioCNPJ are canonically formatted, or empty.
	EmitenteCNPJ     string
	DestinatarioCNPJ string
}

// ExtractMetadata parses the invoice number, emission date, and CNPJ pair
// from text. Missing fields are left zero; the caller decides whether a
// partial result is usable.
func ExtractMetadata(text string) Metadata {
	var md Metadata

	if m := numeroNFe.FindStringSubmatch(text); m != nil {
		md.Numero = m[1]
	} else if m := numeroSimples.FindStringSubmatch(text); m != nil {
		md.Numero = m[1]
	}

	if m := dataEmissao.FindStringSubmatch(text); m != nil {
		if t, err := time.Parse("02/01/2006", m[1]); err == nil {
			md.Emissao = t
		}
	}

	md.EmitenteCNPJ, md.DestinatarioCNPJ = ExtractCNPJs(text)
	return md
}
