package connectivity

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerify_ProbeSuccess(t *testing.T) {
	prober := &ProberMock{
		ProbeFunc: func(ctx context.Context) error { return nil },
	}
	m := New(prober, time.Minute, nil)

	assert.False(t, m.IsOnline())
	assert.True(t, m.Verify(context.Background()))
	assert.True(t, m.IsOnline())
	assert.Len(t, prober.ProbeCalls(), 1)
}

func TestVerify_ProbeFailureIsVerdict(t *testing.T) {
	prober := &ProberMock{
		ProbeFunc: func(ctx context.Context) error { return errors.New("connection refused") },
	}
	m := New(prober, time.Minute, nil)
	m.SetOnline(true)

	// A failed probe yields an offline verdict, not an error
	assert.False(t, m.Verify(context.Background()))
	assert.False(t, m.IsOnline())
}

func TestSetOnline_FiresOnTransitionOnly(t *testing.T) {
	m := New(&ProberMock{}, time.Minute, nil)

	var calls []bool
	m.Subscribe(func(online bool) {
		calls = append(calls, online)
	})

	m.SetOnline(true)
	m.SetOnline(true) // no transition
	m.SetOnline(false)
	m.SetOnline(false) // no transition
	m.SetOnline(true)

	assert.Equal(t, []bool{true, false, true}, calls)
}

func TestSubscribe_Unsubscribe(t *testing.T) {
	m := New(&ProberMock{}, time.Minute, nil)

	var first, second int
	unsubscribe := m.Subscribe(func(bool) { first++ })
	m.Subscribe(func(bool) { second++ })

	m.SetOnline(true)
	unsubscribe()
	m.SetOnline(false)

	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)

	// Unsubscribing twice is harmless
	unsubscribe()
	m.SetOnline(true)
	assert.Equal(t, 1, first)
	assert.Equal(t, 3, second)
}

func TestState_TracksTransitionTime(t *testing.T) {
	m := New(&ProberMock{}, time.Minute, nil)

	state := m.State()
	assert.False(t, state.Online)
	assert.True(t, state.LastChangedAt.IsZero())

	m.SetOnline(true)

	state = m.State()
	assert.True(t, state.Online)
	assert.False(t, state.LastChangedAt.IsZero())
}

func TestInitialize_SeedsVerdictAndStartsLoop(t *testing.T) {
	var probes atomic.Int32
	prober := &ProberMock{
		ProbeFunc: func(ctx context.Context) error {
			probes.Add(1)
			return nil
		},
	}
	m := New(prober, 10*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m.Initialize(ctx)
	assert.True(t, m.IsOnline())

	// Second Initialize must not start another loop
	m.Initialize(ctx)

	require.Eventually(t, func() bool {
		return probes.Load() >= 3
	}, time.Second, 5*time.Millisecond)

	cancel()
	settled := probes.Load()
	time.Sleep(50 * time.Millisecond)
	assert.LessOrEqual(t, probes.Load(), settled+1)
}

func TestNew_DefaultInterval(t *testing.T) {
	m := New(&ProberMock{}, 0, nil)
	assert.Equal(t, defaultProbeInterval, m.interval)
}
