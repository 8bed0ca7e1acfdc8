package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testEvent(n int) Interaction {
	return Interaction{
		ID:        fmt.Sprintf("ev-%d", n),
		Username:  "alice",
		SessionID: "s1",
		VideoID:   fmt.Sprintf("v%d", n),
		Kind:      KindView,
		Timestamp: time.Date(2026, 8, 1, 12, 0, n, 0, time.UTC),
	}
}

func TestMemoryStoreAppendOrder(t *testing.T) {
	s := NewMemoryStore()
	for i := 0; i < 25; i++ {
		require.NoError(t, s.Append(testEvent(i)))
	}

	events := s.ReadAll()
	require.Len(t, events, 25)
	for i, ev := range events {
		require.Equal(t, fmt.Sprintf("ev-%d", i), ev.ID)
	}
}

func TestMemoryStoreClearIdempotent(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Append(testEvent(0)))
	require.NoError(t, s.Append(testEvent(1)))

	require.NoError(t, s.Clear())
	require.Empty(t, s.ReadAll())

	// A second clear on an already empty log is fine.
	require.NoError(t, s.Clear())
	require.Empty(t, s.ReadAll())
}

func TestMemoryStoreReadAllReturnsCopy(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Append(testEvent(0)))

	events := s.ReadAll()
	events[0].ID = "mutated"

	require.Equal(t, "ev-0", s.ReadAll()[0].ID)
}
