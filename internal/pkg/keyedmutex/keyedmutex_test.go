//go:build unit

package keyedmutex_test

import (
	"sync"
	"testing"
	"time"

	"ordersvc/internal/pkg/keyedmutex"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMutualExclusionPerKey(t *testing.T) {
	m := keyedmutex.New[string]()

	const workers = 50
	counter := 0

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			m.Lock("shared")
			defer m.Unlock("shared")
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, workers, counter)
}

func TestDistinctKeysDoNotBlockEachOther(t *testing.T) {
	m := keyedmutex.New[int]()

	m.Lock(1)
	defer m.Unlock(1)

	done := make(chan struct{})
	go func() {
		m.Lock(2)
		m.Unlock(2)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on a different key blocked")
	}
}

func TestUnlockOfUnlockedKeyPanics(t *testing.T) {
	m := keyedmutex.New[string]()
	require.Panics(t, func() { m.Unlock("missing") })
}

func TestSequentialReuse(t *testing.T) {
	m := keyedmutex.New[string]()

	for i := 0; i < 3; i++ {
		m.Lock("key")
		m.Unlock("key")
	}
}
