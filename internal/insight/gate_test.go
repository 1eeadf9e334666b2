package insight

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGateSingleFlight(t *testing.T) {
	g := NewGate()
	assert.Equal(t, StateIdle, g.State())

	require.NoError(t, g.Begin())
	assert.Equal(t, StatePending, g.State())

	err := g.Begin()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInFlight)

	g.Finish(nil)
	assert.Equal(t, StateIdle, g.State())
	assert.NoError(t, g.LastError())
}

func TestGateReArmsAfterFailure(t *testing.T) {
	g := NewGate()
	boom := errors.New("predictor unreachable")

	require.NoError(t, g.Begin())
	g.Finish(boom)
	assert.Equal(t, StateError, g.State())
	assert.ErrorIs(t, g.LastError(), boom)

	// A failed cycle must not block the next one.
	require.NoError(t, g.Begin())
	assert.Equal(t, StatePending, g.State())
	assert.NoError(t, g.LastError())
	g.Finish(nil)
}

func TestGateConcurrentBegin(t *testing.T) {
	g := NewGate()

	const callers = 32
	var wg sync.WaitGroup
	wins := make(chan struct{}, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if g.Begin() == nil {
				wins <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(wins)

	var won int
	for range wins {
		won++
	}
	assert.Equal(t, 1, won)
	assert.Equal(t, StatePending, g.State())
}

func TestSubmitStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "pending", StatePending.String())
	assert.Equal(t, "error", StateError.String())
	assert.Equal(t, "unknown", SubmitState(99).String())
}
