//go:build unit

package product_test

import (
	"strings"
	"testing"

	"ordersvc/internal/domain/product"
	"ordersvc/tests/common/builder"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		actual, err := builder.NewProductBuilder().BuildDomain()
		require.NoError(t, err)
		require.NotNil(t, actual)

		assert.NotEqual(t, uuid.Nil, actual.ID())
		assert.Equal(t, "Mechanical Keyboard", actual.Name())
		assert.Equal(t, int32(25), actual.Stock())
	})

	t.Run("name is trimmed", func(t *testing.T) {
		actual, err := builder.NewProductBuilder().WithName("  Widget  ").BuildDomain()
		require.NoError(t, err)
		assert.Equal(t, "Widget", actual.Name())
	})

	t.Run("validation failures", func(t *testing.T) {
		cases := []struct {
			name   string
			mutate func(*builder.ProductBuilder)
			errIs  error
		}{
			{
				name:   "empty name",
				mutate: func(b *builder.ProductBuilder) { b.WithName("") },
				errIs:  product.ErrEmptyProductName,
			},
			{
				name:   "whitespace only name",
				mutate: func(b *builder.ProductBuilder) { b.WithName("   ") },
				errIs:  product.ErrEmptyProductName,
			},
			{
				name: "name exceeds maximum length",
				mutate: func(b *builder.ProductBuilder) {
					b.WithName(strings.Repeat("a", product.MaxProductNameLength+1))
				},
				errIs: product.ErrProductNameTooLong,
			},
			{
				name:   "negative price",
				mutate: func(b *builder.ProductBuilder) { b.WithPrice(decimal.NewFromInt(-1)) },
				errIs:  product.ErrNegativePrice,
			},
			{
				name:   "negative stock",
				mutate: func(b *builder.ProductBuilder) { b.WithStock(-1) },
				errIs:  product.ErrNegativeStock,
			},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				b := builder.NewProductBuilder()
				tc.mutate(b)
				_, err := b.BuildDomain()
				require.ErrorIs(t, err, tc.errIs)
			})
		}
	})
}

func TestChangeDetails(t *testing.T) {
	t.Run("replaces name description and price but never stock", func(t *testing.T) {
		p, err := builder.NewProductBuilder().WithStock(7).BuildDomain()
		require.NoError(t, err)

		newPrice := decimal.RequireFromString("12.34")
		require.NoError(t, p.ChangeDetails("Renamed", "new description", newPrice))

		assert.Equal(t, "Renamed", p.Name())
		assert.Equal(t, "new description", p.Description())
		assert.True(t, p.Price().Equal(newPrice))
		assert.Equal(t, int32(7), p.Stock())
	})

	t.Run("rejects invalid updates without mutating", func(t *testing.T) {
		p, err := builder.NewProductBuilder().BuildDomain()
		require.NoError(t, err)

		err = p.ChangeDetails("", "", decimal.NewFromInt(1))
		require.ErrorIs(t, err, product.ErrEmptyProductName)
		assert.Equal(t, "Mechanical Keyboard", p.Name())
	})
}

func TestHasStock(t *testing.T) {
	p, err := builder.NewProductBuilder().WithStock(5).BuildDomain()
	require.NoError(t, err)

	assert.True(t, p.HasStock(5))
	assert.True(t, p.HasStock(1))
	assert.False(t, p.HasStock(6))
}
