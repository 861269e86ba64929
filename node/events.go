package node

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/meshbind/waku-go/engine"
	"github.com/meshbind/waku-go/errors"
	"github.com/meshbind/waku-go/message"
)

// MessageEvent is the engine's message event document, carried in the
// payload of Success envelopes delivered through ResponseStream when a
// subscribed topic receives a message.
type MessageEvent struct {
	EventType   string              `json:"eventType"`
	PubsubTopic message.PubsubTopic `json:"pubsubTopic"`
	MessageHash message.Hash        `json:"messageHash"`
	Message     *message.Message    `json:"wakuMessage"`
}

// ParseMessageEvent decodes the payload of a stream envelope.
func ParseMessageEvent(payload string) (*MessageEvent, error) {
	var ev MessageEvent
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		return nil, errors.Decode("event", err)
	}
	return &ev, nil
}

// SetEventCallback registers cb as the node's event sink. The engine keeps
// one slot per node: a later registration, from any caller, replaces the
// earlier one. Concurrent registrations race and the last write wins.
func (n *InitializedNode) SetEventCallback(ctx context.Context, cb engine.Callback) error {
	if err := n.s.require("waku_set_event_callback", phaseInitialized); err != nil {
		return err
	}
	return n.s.nc.setEventCallback(ctx, cb)
}

// ResponseStream registers an event callback and returns an unbounded live
// feed of engine events. The stream never completes and cannot be
// restarted once consumed. If registration fails, the error is delivered
// through the stream itself as a single Failure envelope.
//
// Buffering is unbounded by choice: the native producer cannot be paused,
// so applying backpressure here would only move the queue into the engine.
func (n *InitializedNode) ResponseStream(ctx context.Context) <-chan engine.Envelope {
	q := newEventQueue()
	if err := n.SetEventCallback(ctx, q.push); err != nil {
		q.push(engine.Fail(err.Error()))
	}
	return q.out
}

// eventQueue is an unbounded multi-producer single-consumer queue. push
// never blocks; the pump goroutine drains the buffer into out in FIFO
// order for the life of the process.
type eventQueue struct {
	mu     sync.Mutex
	buf    []engine.Envelope
	signal chan struct{}
	out    chan engine.Envelope
}

func newEventQueue() *eventQueue {
	q := &eventQueue{
		signal: make(chan struct{}, 1),
		out:    make(chan engine.Envelope),
	}
	go q.pump()
	return q
}

func (q *eventQueue) push(env engine.Envelope) {
	q.mu.Lock()
	q.buf = append(q.buf, env)
	q.mu.Unlock()

	select {
	case q.signal <- struct{}{}:
	default:
	}
}

func (q *eventQueue) pump() {
	for range q.signal {
		for {
			q.mu.Lock()
			if len(q.buf) == 0 {
				q.mu.Unlock()
				break
			}
			env := q.buf[0]
			q.buf = q.buf[1:]
			q.mu.Unlock()

			q.out <- env
		}
	}
}
