package allocation

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouteLocksSerializePerLane(t *testing.T) {
	locks := newRouteLocks()
	key := routeKey{Source: 1, Dest: 2}

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.lock(key)
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
}

func TestRouteLocksDistinctLanesAreIndependent(t *testing.T) {
	locks := newRouteLocks()

	unlockA := locks.lock(routeKey{Source: 1, Dest: 2})
	defer unlockA()

	// A different lane must not block while lane A is held.
	done := make(chan struct{})
	go func() {
		unlockB := locks.lock(routeKey{Source: 2, Dest: 1})
		unlockB()
		close(done)
	}()
	<-done
}
