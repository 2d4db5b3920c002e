package optimistic

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlip_Success(t *testing.T) {
	tg := NewToggle(false, 10)

	var committed []bool
	state, err := tg.Flip(context.Background(), func(_ context.Context, active bool) error {
		// The optimistic state is visible while the request runs.
		assert.Equal(t, State{Active: true, Count: 11}, tg.Snapshot())
		assert.True(t, tg.InFlight())
		committed = append(committed, active)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, State{Active: true, Count: 11}, state)
	assert.Equal(t, []bool{true}, committed)
	assert.False(t, tg.InFlight())
}

func TestFlip_FailureRestoresPreRequestState(t *testing.T) {
	boom := errors.New("network down")
	tg := NewToggle(true, 3)

	state, err := tg.Flip(context.Background(), func(context.Context, bool) error { return boom })

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, State{Active: true, Count: 3}, state)
	assert.Equal(t, State{Active: true, Count: 3}, tg.Snapshot())
	assert.False(t, tg.InFlight())
}

func TestFlip_SecondRequestDroppedWhileInFlight(t *testing.T) {
	tg := NewToggle(false, 0)
	started := make(chan struct{})
	release := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = tg.Flip(context.Background(), func(context.Context, bool) error {
			close(started)
			<-release
			return nil
		})
	}()

	<-started
	calls := 0
	state, err := tg.Flip(context.Background(), func(context.Context, bool) error {
		calls++
		return nil
	})
	assert.ErrorIs(t, err, ErrInFlight)
	assert.Equal(t, 0, calls)
	assert.Equal(t, State{Active: true, Count: 1}, state)

	close(release)
	wg.Wait()
	assert.Equal(t, State{Active: true, Count: 1}, tg.Snapshot())
}

func TestDeactivate_CountNeverNegative(t *testing.T) {
	tg := NewToggle(true, 0)

	state, err := tg.Deactivate(context.Background(), func(context.Context, bool) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, State{Active: false, Count: 0}, state)
}

func TestActivate_NoopWhenAlreadyActive(t *testing.T) {
	tg := NewToggle(true, 5)
	calls := 0

	state, err := tg.Activate(context.Background(), func(context.Context, bool) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 0, calls)
	assert.Equal(t, State{Active: true, Count: 5}, state)
}

func TestSet_IgnoredWhileInFlight(t *testing.T) {
	tg := NewToggle(false, 1)

	_, _ = tg.Flip(context.Background(), func(context.Context, bool) error {
		assert.False(t, tg.Set(false, 100))
		return nil
	})
	assert.Equal(t, State{Active: true, Count: 2}, tg.Snapshot())

	assert.True(t, tg.Set(false, -4))
	assert.Equal(t, State{Active: false, Count: 0}, tg.Snapshot())
}

func TestFlip_ConcurrentFlipsAlwaysCommit(t *testing.T) {
	tg := NewToggle(false, 0)

	var ok, commits atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20000; j++ {
				_, err := tg.Flip(context.Background(), func(context.Context, bool) error {
					commits.Add(1)
					return nil
				})
				if err == nil {
					ok.Add(1)
				} else {
					assert.ErrorIs(t, err, ErrInFlight)
				}
			}
		}()
	}
	wg.Wait()

	// Every successful flip ran its commit.
	assert.Equal(t, ok.Load(), commits.Load())
	assert.Equal(t, commits.Load()%2 == 1, tg.Snapshot().Active)
}
