package presence

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Set(ctx, "admin-1", "conn-a"))
	require.NoError(t, s.Set(ctx, "user-1", "conn-b"))

	connID, ok, err := s.Get(ctx, "admin-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "conn-a", connID)

	online, err := s.Online(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"admin-1", "user-1"}, online)

	require.NoError(t, s.RemoveConnection(ctx, "conn-b"))
	_, ok, _ = s.Get(ctx, "user-1")
	assert.False(t, ok)

	require.NoError(t, s.Remove(ctx, "admin-1"))
	online, _ = s.Online(ctx)
	assert.Empty(t, online)
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := string(rune('a' + i%26))
			_ = s.Set(ctx, id, id+"-conn")
			_, _, _ = s.Get(ctx, id)
			_, _ = s.Online(ctx)
		}(i)
	}
	wg.Wait()

	online, err := s.Online(ctx)
	require.NoError(t, err)
	assert.Len(t, online, 26)
}
