// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package parse extracts NF-e fields from the PDF text layer: invoice
// number, emission date, issuer and recipient CNPJs, and line items
// classified by material type.
package parse

import (
	"fmt"
	"regexp"
	"strings"
)

// cnpjCandidate matches CNPJs in formatted, partially formatted, or bare
// 14-digit form.
var cnpjCandidate = regexp.MustCompile(`\d{2}\.?\d{3}\.?\d{3}/?\d{4}-?\d{2}|\d{14}`)

// check-digit weights from the official CNPJ algorithm.
var (
	cnpjWeights1 = []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjWeights2 = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

var nonDigits = regexp.MustCompile(`[^\d]`)

// CleanCNPJ strips punctuation, leaving only digits.
func CleanCNPJ(cnpj string) string {
	return nonDigits.ReplaceAllString(cnpj, "")
}

// ValidCNPJ reports whether cnpj (digits only) is 14 digits long and both
// check digits match the official algorithm.
func ValidCNPJ(cnpj string) bool {
	if len(cnpj) != 14 {
		return false
	}
	for _, r := range cnpj {
		if r < '0' || r > '9' {
			return false
		}
	}
	return digit(cnpj, cnpjWeights1) == int(cnpj[12]-'0') &&
		digit(cnpj, cnpjWeights2) == int(cnpj[13]-'0')
}

func digit(cnpj string, weights []int) int {
	sum := 0
	for i, w := range weights {
		sum += int(cnpj[i]-'0') * w
	}
	rest := sum % 11
	if rest < 2 {
		return 0
	}
	return 11 - rest
}

// FormatCNPJ renders a 14-digit CNPJ in canonical NN.NNN.NNN/NNNN-NN form.
// The input must already be validated.
func FormatCNPJ(cnpj string) string {
	return fmt.Sprintf("%s.%s.%s/%s-%s",
		cnpj[:2], cnpj[2:5], cnpj[5:8], cnpj[8:12], cnpj[12:14])
}

// ExtractCNPJs scans text for valid CNPJs in order of appearance. On a
// DANFE the issuer's CNPJ is printed before the recipient's, so the first
// distinct valid CNPJ is the issuer and the second the recipient. Either
// may be empty.
func ExtractCNPJs(text string) (emitente, destinatario string) {
	var found []string
	for _, m := range cnpjCandidate.FindAllString(text, -1) {
		clean := CleanCNPJ(m)
		if len(clean) != 14 || !ValidCNPJ(clean) {
			continue
		}
		formatted := FormatCNPJ(clean)
		if !contains(found, formatted) {
			found = append(found, formatted)
		}
	}
	if len(found) > 0 {
		emitente = found[0]
	}
	if len(found) > 1 {
		destinatario = found[1]
	}
	return emitente, destinatario
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
