package notify

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoard_ShowsAndExpires(t *testing.T) {
	t.Parallel()

	var cleared atomic.Bool
	b := NewBoard(WithTTL(20*time.Millisecond), WithOnClear(func() { cleared.Store(true) }))

	require.NoError(t, b.Notify(context.Background(), Notice{Level: LevelError, Text: "could not save"}))

	n, ok := b.Current()
	require.True(t, ok)
	assert.Equal(t, "could not save", n.Text)
	assert.False(t, n.CreatedAt.IsZero())

	assert.Eventually(t, func() bool {
		_, ok := b.Current()
		return !ok
	}, time.Second, 5*time.Millisecond)
	assert.True(t, cleared.Load())
}

func TestBoard_ReplaceRestartsTTL(t *testing.T) {
	t.Parallel()

	b := NewBoard(WithTTL(60 * time.Millisecond))
	require.NoError(t, b.Notify(context.Background(), Notice{Text: "first"}))
	time.Sleep(40 * time.Millisecond)
	require.NoError(t, b.Notify(context.Background(), Notice{Text: "second"}))
	time.Sleep(40 * time.Millisecond)

	n, ok := b.Current()
	require.True(t, ok, "second notice should outlive the first one's timer")
	assert.Equal(t, "second", n.Text)
}

func TestBoard_Dismiss(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	b := NewBoard(WithNowFunc(func() time.Time { return now }))
	require.NoError(t, b.Notify(context.Background(), Notice{Text: "x"}))

	n, ok := b.Current()
	require.True(t, ok)
	assert.Equal(t, now, n.CreatedAt)

	b.Dismiss()
	_, ok = b.Current()
	assert.False(t, ok)
}
