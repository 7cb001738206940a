package kv_test

import (
	"context"
	"testing"

	"github.com/lazypower/widgetry/internal/kv"
	"github.com/lazypower/widgetry/internal/kv/kvtest"
	"github.com/stretchr/testify/assert"
)

func TestMemory_Contract(t *testing.T) {
	kvtest.RunStoreContract(t, kv.NewMemory())
}

func TestMemory_Keys(t *testing.T) {
	m := kv.NewMemory()
	ctx := context.Background()
	_ = m.Set(ctx, "b", "2")
	_ = m.Set(ctx, "a", "1")

	assert.Equal(t, []string{"a", "b"}, m.Keys())
}

func TestPrefixed_EmptyPrefixReturnsInner(t *testing.T) {
	m := kv.NewMemory()
	assert.Same(t, kv.Store(m), kv.Prefixed(m, ""))
}
