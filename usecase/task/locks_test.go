package task

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyedMutexReleasesEntries(t *testing.T) {
	var km keyedMutex

	km.lock("ada@example.com")
	km.lock("bob@example.com")
	assert.Equal(t, 2, km.size())

	km.unlock("ada@example.com")
	km.unlock("bob@example.com")
	assert.Zero(t, km.size(), "idle keys must not stay in the map")
}

func TestKeyedMutexSerializesSameKey(t *testing.T) {
	var km keyedMutex

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			km.lock("ada@example.com")
			counter++
			km.unlock("ada@example.com")
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
	assert.Zero(t, km.size())
}

func TestKeyedMutexUnlockUnknownKeyIsNoop(t *testing.T) {
	var km keyedMutex
	km.unlock("never-locked")
	assert.Zero(t, km.size())
}
