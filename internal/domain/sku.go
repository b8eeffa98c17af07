package domain

import (
	"strings"

	apperror "goinventory/internal/errors"
)

// skuMinLength é o tamanho mínimo de um SKU após normalização.
const skuMinLength = 3

// Sku é o código de identificação do produto (Stock Keeping Unit).
// É normalizado (trim + maiúsculas) na construção e comparado por valor,
// podendo ser usado diretamente como chave de map.
type Sku struct {
	value string
}

// NewSku valida e normaliza o texto do SKU.
func NewSku(text string) (Sku, error) {
	value := strings.TrimSpace(text)
	if len(value) < skuMinLength {
		return Sku{}, apperror.NewValidationError("O SKU deve ter pelo menos 3 caracteres.")
	}
	return Sku{value: strings.ToUpper(value)}, nil
}

// String retorna o valor normalizado.
func (s Sku) String() string { return s.value }

// IsZero informa se o SKU não foi inicializado por NewSku.
func (s Sku) IsZero() bool { return s.value == "" }
