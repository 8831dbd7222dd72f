package allocation

import "sync"

// routeKey identifies one (source branch, destination branch) allocation lane.
type routeKey struct {
	Source uint
	Dest   uint
}

// routeLocks serializes allocation decisions per route. The store performs
// read-then-write threshold checks, so two concurrent creations on the same
// lane must not interleave between the sum and the dispatch.
type routeLocks struct {
	mu    sync.Mutex
	lanes map[routeKey]*sync.Mutex
}

func newRouteLocks() *routeLocks {
	return &routeLocks{lanes: make(map[routeKey]*sync.Mutex)}
}

// lock acquires the mutex for the given lane and returns its unlock func.
func (r *routeLocks) lock(key routeKey) func() {
	r.mu.Lock()
	lane, ok := r.lanes[key]
	if !ok {
		lane = &sync.Mutex{}
		r.lanes[key] = lane
	}
	r.mu.Unlock()

	lane.Lock()
	return lane.Unlock
}
