package sqlite

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caloops971/ChromeRMS2025/rms"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_SetGet_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	doc := map[string]any{"base_season": "Low Season"}
	require.NoError(t, store.Set(ctx, rms.KeyCoefficients, doc))

	result, err := store.Get(ctx, []string{rms.KeyCoefficients})
	require.NoError(t, err)
	require.Contains(t, result, rms.KeyCoefficients)

	var got map[string]any
	require.NoError(t, json.Unmarshal(result[rms.KeyCoefficients], &got))
	assert.Equal(t, "Low Season", got["base_season"])
}

func TestStore_Get_MissingKeysAbsent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, rms.KeyVehicles, []string{"ECAR"}))

	result, err := store.Get(ctx, rms.AllKeys())
	require.NoError(t, err)
	assert.Len(t, result, 1)
	assert.Contains(t, result, rms.KeyVehicles)
	assert.NotContains(t, result, rms.KeyRates)
}

func TestStore_Set_ReplacesDocument(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, rms.KeyRates, map[string]int{"v": 1}))
	require.NoError(t, store.Set(ctx, rms.KeyRates, map[string]int{"v": 2}))

	result, err := store.Get(ctx, []string{rms.KeyRates})
	require.NoError(t, err)

	var got map[string]int
	require.NoError(t, json.Unmarshal(result[rms.KeyRates], &got))
	assert.Equal(t, 2, got["v"])
}

func TestStore_Get_EmptyKeyList(t *testing.T) {
	store := newTestStore(t)

	result, err := store.Get(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, result)
}
