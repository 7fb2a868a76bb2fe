// Package admit bounds the number of connections handled concurrently.
package admit

import "sync"

// Gate is a counting semaphore. The server acquires a permit per accepted
// connection and releases it when the connection is done, so the accept loop
// stalls once capacity is reached.
type Gate struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	permits  int
}

// NewGate returns a Gate with the given number of permits.
func NewGate(capacity int) *Gate {
	g := &Gate{permits: capacity}
	g.notEmpty = sync.NewCond(&g.mu)
	return g
}

// Acquire blocks until at least one permit is available, then takes it.
func (g *Gate) Acquire() {
	g.mu.Lock()
	for g.permits == 0 {
		g.notEmpty.Wait()
	}
	g.permits--
	g.mu.Unlock()
}

// Release returns a permit and wakes one blocked acquirer, if any.
func (g *Gate) Release() {
	g.mu.Lock()
	g.permits++
	g.mu.Unlock()
	g.notEmpty.Signal()
}
