package node

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/meshbind/waku-go/engine"
	"github.com/meshbind/waku-go/errors"
)

// completion is the one-shot cell shared between the goroutine awaiting an
// engine call and the callback the engine invokes. The channel is buffered,
// so the engine side can always complete without blocking even if the
// awaiting goroutine has given up; the cell is then simply collected.
type completion struct {
	id   string
	op   string
	done atomic.Bool
	ch   chan engine.Envelope
}

func newCompletion(op string) *completion {
	return &completion{
		id: uuid.NewString(),
		op: op,
		ch: make(chan engine.Envelope, 1),
	}
}

// callback returns the engine-facing half of the cell. Only the first
// invocation counts; the native side is untrusted, so later invocations
// are logged and dropped rather than crashed on.
func (c *completion) callback() engine.Callback {
	return func(env engine.Envelope) {
		if !c.done.CompareAndSwap(false, true) {
			Logger().Warn("duplicate callback on completed engine call",
				zap.String("op", c.op),
				zap.String("call_id", c.id),
				zap.String("status", env.Status.String()))
			return
		}
		c.ch <- env
	}
}

// wait suspends until the callback fires or ctx is cancelled.
func (c *completion) wait(ctx context.Context) (engine.Envelope, error) {
	select {
	case env := <-c.ch:
		return env, nil
	case <-ctx.Done():
		return engine.Envelope{}, ctx.Err()
	}
}

// decode converts an envelope into the caller-facing result for op.
func decode(op string, env engine.Envelope) (string, error) {
	switch env.Status {
	case engine.StatusOK:
		return env.Payload, nil
	case engine.StatusError:
		return "", errors.EngineFailure(op, env.Err)
	default:
		return "", errors.MissingCallback(op)
	}
}

// invoke bridges one single-shot engine call into an awaitable result.
// call receives the callback to hand to the engine; it may invoke it
// synchronously before returning or later from another goroutine, both
// work.
func invoke(ctx context.Context, op string, call func(engine.Callback)) (string, error) {
	c := newCompletion(op)
	call(c.callback())

	env, err := c.wait(ctx)
	if err != nil {
		return "", err
	}
	return decode(op, env)
}
