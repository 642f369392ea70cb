package listing

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebouncer_CoalescesTriggers(t *testing.T) {
	t.Parallel()

	d := NewDebouncer(50 * time.Millisecond)
	var calls atomic.Int32
	var last atomic.Int32

	for i := range 5 {
		d.Trigger(func() {
			calls.Add(1)
			last.Store(int32(i))
		})
		time.Sleep(2 * time.Millisecond)
	}

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, int32(4), last.Load())
	assert.False(t, d.Pending())
}

func TestDebouncer_Flush(t *testing.T) {
	t.Parallel()

	d := NewDebouncer(time.Hour)
	var calls atomic.Int32
	d.Trigger(func() { calls.Add(1) })

	assert.True(t, d.Pending())
	assert.True(t, d.Flush())
	assert.Equal(t, int32(1), calls.Load())
	assert.False(t, d.Flush())
}

func TestDebouncer_Stop(t *testing.T) {
	t.Parallel()

	d := NewDebouncer(10 * time.Millisecond)
	var calls atomic.Int32
	d.Trigger(func() { calls.Add(1) })

	assert.True(t, d.Stop())
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
	assert.False(t, d.Stop())
}

func TestNewDebouncer_Default(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DefaultDebounce, NewDebouncer(0).delay)
}
