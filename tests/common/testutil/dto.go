//go:build unit || e2e

package testutil

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

// DtoMap converts a request DTO into the generic map the JSON binder sees, so
// a test can knock out or corrupt individual fields before sending it.
func DtoMap(t *testing.T, v any, mutate ...func(map[string]any)) map[string]any {
	t.Helper()

	raw, err := json.Marshal(v)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))

	for _, f := range mutate {
		f(m)
	}
	return m
}
