package node

import (
	"context"
	"math"
	"time"

	"github.com/meshbind/waku-go/engine"
)

// timeoutMillis converts d into the engine's int32 millisecond field,
// clamping to MaxInt32 rather than wrapping. Zero and negative durations
// become 0, which the engine reads as "no timeout".
func timeoutMillis(d time.Duration) int32 {
	ms := d.Milliseconds()
	if ms > math.MaxInt32 {
		return math.MaxInt32
	}
	if ms < 0 {
		return 0
	}
	return int32(ms)
}

// Connect dials a peer at the given multiaddress. A zero timeout waits
// indefinitely for the engine callback; otherwise the engine itself
// cancels the dial and reports a failure when the timeout elapses, so no
// second timeout is layered on top here.
func (n *RunningNode) Connect(ctx context.Context, address string, timeout time.Duration) error {
	if err := n.s.require("waku_connect", phaseRunning); err != nil {
		return err
	}
	_, err := invoke(ctx, "waku_connect", func(cb engine.Callback) {
		n.s.nc.eng.Connect(ctx, n.s.nc.Handle(), address, timeoutMillis(timeout), cb)
	})
	return err
}
