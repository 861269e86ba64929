package engine

import "sync"

// callTable correlates in-flight call IDs with their registered callbacks.
// Each single-shot call gets a fresh ID, so concurrent calls never
// cross-wire results.
type callTable struct {
	mu      sync.Mutex
	next    uint64
	pending map[uint64]Callback
}

func newCallTable() *callTable {
	return &callTable{pending: make(map[uint64]Callback)}
}

// register stores cb and returns its call ID.
func (t *callTable) register(cb Callback) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.next++
	id := t.next
	t.pending[id] = cb
	return id
}

// complete removes the callback for id and invokes it with env. It reports
// whether id was still pending; a second completion for the same id is a
// no-op.
func (t *callTable) complete(id uint64, env Envelope) bool {
	t.mu.Lock()
	cb, ok := t.pending[id]
	delete(t.pending, id)
	t.mu.Unlock()
	if !ok {
		return false
	}
	cb(env)
	return true
}

// take removes and returns the callback for id without invoking it.
func (t *callTable) take(id uint64) (Callback, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	cb, ok := t.pending[id]
	delete(t.pending, id)
	return cb, ok
}
