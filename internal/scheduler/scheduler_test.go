package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingTarget struct {
	calls atomic.Int32
}

func (c *countingTarget) DeleteExpired() int {
	c.calls.Add(1)
	return 1
}

func TestScheduler_SweepsPeriodically(t *testing.T) {
	target := &countingTarget{}
	s := New(target, 50*time.Millisecond, zerolog.Nop())
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return target.calls.Load() >= 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestScheduler_DefaultInterval(t *testing.T) {
	s := New(&countingTarget{}, 0, zerolog.Nop())
	assert.Equal(t, DefaultInterval, s.interval)
}

func TestScheduler_NilTarget(t *testing.T) {
	s := New(nil, time.Second, zerolog.Nop())
	assert.Error(t, s.Start())
}
