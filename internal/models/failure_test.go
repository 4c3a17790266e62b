package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFailureKindOf(t *testing.T) {
	err := NewValidationFailure("Seu carrinho está vazio!")

	kind, ok := FailureKindOf(err)
	require.True(t, ok)
	assert.Equal(t, FailureValidation, kind)
	assert.EqualError(t, err, "Seu carrinho está vazio!")

	// wrapped failures are still recognized
	wrapped := fmt.Errorf("checkout: %w", err)
	assert.True(t, IsValidationFailure(wrapped))

	_, ok = FailureKindOf(errors.New("plain"))
	assert.False(t, ok)
}

func TestFailureUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewNetworkFailure("Falha ao contactar a loja.", cause)

	assert.ErrorIs(t, err, cause)
	assert.EqualError(t, err, "Falha ao contactar a loja.")
}

func TestParseSortOption(t *testing.T) {
	for _, valid := range []string{"name_asc", "name_desc", "price_asc", "price_desc"} {
		opt, ok := ParseSortOption(valid)
		assert.True(t, ok)
		assert.Equal(t, SortOption(valid), opt)
	}

	opt, ok := ParseSortOption("stock_asc")
	assert.False(t, ok)
	assert.Equal(t, SortNameAsc, opt, "unknown options fall back to the default sort")
}
