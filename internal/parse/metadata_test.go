// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const danfeHeader = `RECICLAGEM BOA VISTA LTDA
CNPJ: 11.222.333/0001-81
DANFE - Documento Auxiliar da Nota Fiscal Eletrônica
NF-e Nº 123456
Série 1
DATA DE EMISSÃO: 15/03/2026
DESTINATÁRIO / REMETENTE
COOPERATIVA VERDE SA
CNPJ/CPF: 11.444.777/0001-61`

func TestExtractMetadata(t *testing.T) {
	md := ExtractMetadata(danfeHeader)

	assert.Equal(t, "123456", md.Numero)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), md.Emissao)
	assert.Equal(t, "11.222.333/0001-81", md.EmitenteCNPJ)
	assert.Equal(t, "11.444.777/0001-61", md.DestinatarioCNPJ)
}

func TestExtractMetadata_NumeroFallback(t *testing.T) {
	md := ExtractMetadata("NOTA FISCAL Nº 987 EMISSAO: 01/02/2026")
	assert.Equal(t, "987", md.Numero)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), md.Emissao)
}

func TestExtractMetadata_Missing(t *testing.T) {
	md := ExtractMetadata("documento sem os campos esperados")
	assert.Empty(t, md.Numero)
	assert.True(t, md.Emissao.IsZero())
	assert.Empty(t, md.EmitenteCNPJ)
	assert.Empty(t, md.DestinatarioCNPJ)
}

func TestExtractMetadata_BadDate(t *testing.T) {
	md := ExtractMetadata("EMISSÃO: 99/99/2026")
	assert.True(t, md.Emissao.IsZero())
}
