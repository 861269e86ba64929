package node

import (
	"context"
	"sync/atomic"

	"github.com/meshbind/waku-go/engine"
	"github.com/meshbind/waku-go/errors"
)

// nodeContext owns the native handle for one node instance plus the single
// event-callback registration slot. It is shared by reference between the
// lifecycle wrappers and never copied.
type nodeContext struct {
	eng    engine.Engine
	handle atomic.Uintptr
}

func newNodeContext(eng engine.Engine, h engine.Handle) *nodeContext {
	nc := &nodeContext{eng: eng}
	nc.handle.Store(uintptr(h))
	return nc
}

// Handle returns the current native handle, InvalidHandle after reset.
func (nc *nodeContext) Handle() engine.Handle {
	return engine.Handle(nc.handle.Load())
}

// reset invalidates the handle after teardown so further use is
// impossible.
func (nc *nodeContext) reset() {
	nc.handle.Store(uintptr(engine.InvalidHandle))
}

// setEventCallback registers cb in the engine's single per-node event
// slot; the previous registration, if any, is overwritten.
func (nc *nodeContext) setEventCallback(ctx context.Context, cb engine.Callback) error {
	if err := nc.eng.SetEventCallback(ctx, nc.Handle(), cb); err != nil {
		return errors.Registration(err)
	}
	return nil
}
