// Package kvtest holds the behaviour every kv.Store adapter must satisfy.
package kvtest

import (
	"context"
	"testing"

	"github.com/lazypower/widgetry/internal/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStoreContract exercises s against the kv.Store contract.
// s must start empty.
func RunStoreContract(t *testing.T, s kv.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("GetMissing", func(t *testing.T) {
		_, err := s.Get(ctx, "missing")
		assert.ErrorIs(t, err, kv.ErrNotFound)
	})

	t.Run("SetGet", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "calc-memory", "42"))
		v, err := s.Get(ctx, "calc-memory")
		require.NoError(t, err)
		assert.Equal(t, "42", v)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "calc-history", `["a"]`))
		require.NoError(t, s.Set(ctx, "calc-history", `["b","a"]`))
		v, err := s.Get(ctx, "calc-history")
		require.NoError(t, err)
		assert.Equal(t, `["b","a"]`, v)
	})

	t.Run("EmptyValue", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "blank", ""))
		v, err := s.Get(ctx, "blank")
		require.NoError(t, err)
		assert.Equal(t, "", v)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "favorites", `[]`))
		require.NoError(t, s.Delete(ctx, "favorites"))
		_, err := s.Get(ctx, "favorites")
		assert.ErrorIs(t, err, kv.ErrNotFound)
	})

	t.Run("DeleteMissing", func(t *testing.T) {
		assert.NoError(t, s.Delete(ctx, "never-set"))
	})

	t.Run("Prefixed", func(t *testing.T) {
		p := kv.Prefixed(s, "calc/abc/")
		require.NoError(t, p.Set(ctx, "calc-memory", "7"))

		v, err := s.Get(ctx, "calc/abc/calc-memory")
		require.NoError(t, err)
		assert.Equal(t, "7", v)

		v, err = p.Get(ctx, "calc-memory")
		require.NoError(t, err)
		assert.Equal(t, "7", v)

		require.NoError(t, p.Delete(ctx, "calc-memory"))
		_, err = s.Get(ctx, "calc/abc/calc-memory")
		assert.ErrorIs(t, err, kv.ErrNotFound)
	})
}
