package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goinventory/internal/domain"
	apperror "goinventory/internal/errors"
)

func mustSku(t *testing.T, text string) domain.Sku {
	t.Helper()
	sku, err := domain.NewSku(text)
	require.NoError(t, err)
	return sku
}

func mustQty(t *testing.T, n int) domain.Quantity {
	t.Helper()
	q, err := domain.NewQuantity(n)
	require.NoError(t, err)
	return q
}

func TestNewSku_NormalizesText(t *testing.T) {
	a := mustSku(t, "  abc-123 ")
	b := mustSku(t, "ABC-123")

	assert.Equal(t, "ABC-123", a.String())
	assert.Equal(t, a, b)
}

func TestNewSku_RejectsShortText(t *testing.T) {
	for _, text := range []string{"", "  ", "ab", " x "} {
		_, err := domain.NewSku(text)
		assert.IsType(t, &apperror.ValidationError{}, err, "texto %q", text)
	}
}

func TestNewQuantity_RejectsNegative(t *testing.T) {
	_, err := domain.NewQuantity(-1)
	assert.IsType(t, &apperror.ValidationError{}, err)

	zero, err := domain.NewQuantity(0)
	require.NoError(t, err)
	assert.True(t, zero.IsZero())
}

func TestQuantity_SubtractThenAddRoundTrips(t *testing.T) {
	for a := 0; a <= 12; a++ {
		for b := 0; b <= a; b++ {
			qa, qb := mustQty(t, a), mustQty(t, b)
			diff, err := qa.Subtract(qb)
			require.NoError(t, err)
			assert.Equal(t, qa, diff.Add(qb))
		}
	}
}

func TestQuantity_SubtractBeyondValueFails(t *testing.T) {
	_, err := mustQty(t, 2).Subtract(mustQty(t, 3))
	assert.IsType(t, &apperror.InvariantViolationError{}, err)
}
