// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaterialType categorizes an invoice line item into one of the recyclable
// material classes the pipeline tracks. Items that match none of the classes
// are discarded during parsing.
type MaterialType string

const (
	MaterialPlastico MaterialType = "PLASTICO"
	MaterialMetal    MaterialType = "METAL"
	MaterialVidro    MaterialType = "VIDRO"
	MaterialPapel    MaterialType = "PAPEL"
)

// Party identifies one side of an NF-e: the issuer (emitente) or the
// recipient (destinatário).
type Party struct {
	// CNPJ is the tax ID in canonical NN.NNN.NNN/NNNN-NN form.
	CNPJ string `json:"cnpj" yaml:"cnpj"`

	// RazaoSocial is the registered company name, resolved through the
	// CNPJ registry. Empty when the lookup failed or was disabled.
	RazaoSocial string `json:"razao_social" yaml:"razao_social"`
}

// Item is a single invoice line item that matched one of the tracked
// material classes.
type Item struct {
	// Descricao is the product description as printed on the invoice.
	Descricao string `json:"descricao" yaml:"descricao"`

	// Material is the class assigned by keyword matching on Descricao.
	Material MaterialType `json:"material" yaml:"material"`

	// Quantidade is the invoiced quantity in the item's commercial unit.
	Quantidade decimal.Decimal `json:"quantidade" yaml:"quantidade"`

	// Valor is the item's total value in BRL.
	Valor decimal.Decimal `json:"valor" yaml:"valor"`
}

// Invoice holds everything extracted from one NF-e PDF.
type Invoice struct {
	// ID is the invoice slug, derived from the PDF filename.
	ID string `json:"id" yaml:"id"`

	// Numero is the NF-e number printed on the document.
	Numero string `json:"numero" yaml:"numero"`

	// Emissao is the emission date. Zero when the date could not be parsed.
	Emissao time.Time `json:"emissao" yaml:"emissao"`

	Emitente     Party `json:"emitente" yaml:"emitente"`
	Destinatario Party `json:"destinatario" yaml:"destinatario"`

	// SourcePDF is the path of the PDF the invoice was extracted from,
	// as seen at processing time.
	SourcePDF string `json:"source_pdf" yaml:"source_pdf"`

	// ProcessedAt records when the pipeline processed the PDF.
	ProcessedAt time.Time `json:"processed_at" yaml:"processed_at"`

	Items []Item `json:"items" yaml:"items"`
}

// ExportRow is one flattened spreadsheet row: invoice metadata repeated per
// line item, in the column order of the generated sheets.
type ExportRow struct {
	EmitenteRazao string          `csv:"razao_social_emitente"`
	EmitenteCNPJ  string          `csv:"cnpj_emitente"`
	DestRazao     string          `csv:"razao_social_destinatario"`
	DestCNPJ      string          `csv:"cnpj_destinatario"`
	Numero        string          `csv:"numero_nfe"`
	Emissao       string          `csv:"data_emissao"`
	Quantidade    decimal.Decimal `csv:"quantidade"`
	Valor         decimal.Decimal `csv:"valor_total"`
	Material      string          `csv:"tipo_material"`
	Descricao     string          `csv:"descricao"`
}
