package domain

import (
	"fmt"

	apperror "goinventory/internal/errors"
)

// Quantity é uma quantidade inteira e não negativa de itens.
type Quantity struct {
	value int
}

// NewQuantity falha com ValidationError se n for negativo.
func NewQuantity(n int) (Quantity, error) {
	if n < 0 {
		return Quantity{}, apperror.NewValidationError(fmt.Sprintf("A quantidade não pode ser negativa (%d).", n))
	}
	return Quantity{value: n}, nil
}

// Int retorna o valor inteiro da quantidade.
func (q Quantity) Int() int { return q.value }

// IsZero informa se a quantidade é zero.
func (q Quantity) IsZero() bool { return q.value == 0 }

// Add soma duas quantidades. Sempre válido.
func (q Quantity) Add(other Quantity) Quantity {
	return Quantity{value: q.value + other.value}
}

// Subtract falha com InvariantViolationError se other for maior que q.
func (q Quantity) Subtract(other Quantity) (Quantity, error) {
	if other.value > q.value {
		return Quantity{}, apperror.NewInvariantViolationError(
			fmt.Sprintf("Não é possível subtrair %d de %d.", other.value, q.value))
	}
	return Quantity{value: q.value - other.value}, nil
}

// GreaterThan compara duas quantidades.
func (q Quantity) GreaterThan(other Quantity) bool { return q.value > other.value }

func (q Quantity) String() string { return fmt.Sprintf("%d", q.value) }

// requirePositive é o guard comum das operações de estoque e linhas.
func requirePositive(q Quantity, what string) error {
	if q.value <= 0 {
		return apperror.NewValidationError(fmt.Sprintf("%s deve ser maior que zero.", what))
	}
	return nil
}
