package analyzer

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tick struct {
	phase          Phase
	current, total int
	path           string
}

func TestTracker_StartAndTick(t *testing.T) {
	var calls []tick
	var mu sync.Mutex

	tracker := NewTracker(func(phase Phase, current, total int, path string) {
		mu.Lock()
		calls = append(calls, tick{phase, current, total, path})
		mu.Unlock()
	})

	tracker.Start(PhaseDetection, 2)
	tracker.Tick("a.ts")
	tracker.Tick("b.ts")

	tracker.Start(PhaseVerification, 1)
	assert.Equal(t, 0, tracker.Current(), "Start resets the counter")
	tracker.Tick("a.ts")

	require.Len(t, calls, 3)
	assert.Equal(t, tick{PhaseDetection, 2, 2, "b.ts"}, calls[1])
	assert.Equal(t, tick{PhaseVerification, 1, 1, "a.ts"}, calls[2])
	assert.Equal(t, PhaseVerification, tracker.Phase())
}

func TestTracker_Concurrent(t *testing.T) {
	tracker := NewTracker(nil)
	tracker.Start(PhaseDetection, 0)
	tracker.Add(100)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tracker.Tick("f.ts")
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, tracker.Current())
	assert.Equal(t, 100, tracker.Total())
}

func TestTrackerContext(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, TrackerFromContext(ctx))

	tracker := NewTracker(nil)
	ctx = WithTracker(ctx, tracker)
	assert.Same(t, tracker, TrackerFromContext(ctx))
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "detection", PhaseDetection.String())
	assert.Equal(t, "verification", PhaseVerification.String())
}
