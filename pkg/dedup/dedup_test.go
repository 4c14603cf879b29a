package dedup_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaycrm/relay/pkg/dedup"
)

func TestMemoryGuard_FirstDeliveryClaimsOnce(t *testing.T) {
	t.Parallel()

	guard := dedup.NewMemoryGuard()
	defer guard.Close()

	first, err := guard.FirstDelivery(context.Background(), "evt-1")
	require.NoError(t, err)
	assert.True(t, first)

	second, err := guard.FirstDelivery(context.Background(), "evt-1")
	require.NoError(t, err)
	assert.False(t, second)
}

func TestMemoryGuard_DistinctEventsAreIndependent(t *testing.T) {
	t.Parallel()

	guard := dedup.NewMemoryGuard()
	defer guard.Close()

	for _, eventID := range []string{"evt-1", "evt-2", "evt-3"} {
		first, err := guard.FirstDelivery(context.Background(), eventID)
		require.NoError(t, err)
		assert.True(t, first, "event %s should be a first delivery", eventID)
	}
}

func TestMemoryGuard_ConcurrentClaimsYieldOneWinner(t *testing.T) {
	t.Parallel()

	guard := dedup.NewMemoryGuard()
	defer guard.Close()

	const workers = 16

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners int
	)

	for range workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			first, err := guard.FirstDelivery(context.Background(), "evt-contended")
			assert.NoError(t, err)

			if first {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, 1, winners)
}
