//go:build unit

package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMark(t *testing.T) {
	sentinel := New("product not found")

	t.Run("marked errors match the sentinel with errors.Is", func(t *testing.T) {
		cause := New("no rows in result set")
		err := Mark(cause, sentinel)

		require.ErrorIs(t, err, sentinel)
		require.Equal(t, cause.Error(), err.Error())
	})

	t.Run("the original cause stays reachable through the chain", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := Mark(Wrap(cause, "fetching product"), sentinel)

		require.ErrorIs(t, err, sentinel)
		require.ErrorIs(t, err, cause)
	})

	t.Run("nil cause collapses to the bare sentinel", func(t *testing.T) {
		require.Same(t, sentinel, Mark(nil, sentinel))
	})

	t.Run("nested marks keep every sentinel visible", func(t *testing.T) {
		inner := New("insufficient stock")
		err := Mark(Mark(errors.New("boom"), inner), sentinel)

		require.ErrorIs(t, err, sentinel)
		require.ErrorIs(t, err, inner)
	})

	t.Run("verbose formatting keeps the cause's stack trace", func(t *testing.T) {
		err := Mark(New("boom"), sentinel)
		require.Contains(t, fmt.Sprintf("%+v", err), "boom")
	})
}
