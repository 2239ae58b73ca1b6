package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("retrieval.top_k", 4))
	require.NoError(t, store.Set("embedding.model", "text-embedding-3-small"))
	require.NoError(t, store.Set("server.metrics", true))

	val, ok := store.Get("retrieval.top_k")
	assert.True(t, ok)
	assert.Equal(t, 4, val)
	assert.Equal(t, 4, store.GetInt("retrieval.top_k"))
	assert.Equal(t, "text-embedding-3-small", store.GetString("embedding.model"))
	assert.True(t, store.GetBool("server.metrics"))
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_TypeMismatchReturnsZero(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("k", "text"))

	assert.Equal(t, 0, store.GetInt("k"))
	assert.Equal(t, 0.0, store.GetFloat("k"))
	assert.False(t, store.GetBool("k"))
	assert.Nil(t, store.GetStringSlice("k"))
	assert.Equal(t, "", store.GetString("missing"))
}

func TestConfigStore_GetFloat(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("f64", 0.35))
	require.NoError(t, store.Set("int", 2))
	require.NoError(t, store.Set("int64", int64(3)))

	assert.InDelta(t, 0.35, store.GetFloat("f64"), 1e-9)
	assert.Equal(t, 2.0, store.GetFloat("int"))
	assert.Equal(t, 3.0, store.GetFloat("int64"))
	assert.Equal(t, 0.0, store.GetFloat("missing"))
}

func TestConfigStore_GetStringSlice(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("a", []string{"x", "y"}))
	require.NoError(t, store.Set("b", []any{"x", 1, "y"}))

	assert.Equal(t, []string{"x", "y"}, store.GetStringSlice("a"))
	assert.Equal(t, []string{"x", "y"}, store.GetStringSlice("b"))
}

func TestConfigStore_Delete(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("k", 1))

	require.NoError(t, store.Delete("k"))
	_, ok := store.Get("k")
	assert.False(t, ok)

	assert.NoError(t, store.Delete("never-set"))
}

func TestConfigStore_SaveAndLoadAreNoops(t *testing.T) {
	store := NewConfigStore()
	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
}

func TestConfigStore_ConcurrentAccess(t *testing.T) {
	store := NewConfigStore()
	var wg sync.WaitGroup

	for i := range 50 {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("counter", n)
		}(i)
		go func() {
			defer wg.Done()
			_ = store.GetInt("counter")
		}()
	}
	wg.Wait()

	_, ok := store.Get("counter")
	assert.True(t, ok)
}
