package engine

import "context"

// Handle identifies one native node instance. It is exclusively owned by
// the node context that created it and is never copied. The zero value is
// invalid; engines return it when instantiation fails outright.
type Handle uintptr

// InvalidHandle is the sentinel for a handle that was never obtained or
// was invalidated by teardown.
const InvalidHandle Handle = 0

// Callback receives the result of one engine call. Single-shot entry
// points invoke it exactly once, possibly before the entry point returns
// and possibly from another goroutine. The callback must not block.
type Callback func(Envelope)

// Engine is the callback-based surface of the native node engine. Methods
// map one-to-one onto engine entry points; all of them except
// SetEventCallback are single-shot. String arguments only need to stay
// valid for the synchronous portion of the call; implementations copy what
// they keep.
//
// A timeoutMs of 0 means no timeout. When a timeout elapses the engine
// itself invokes the callback with a failure; no second timeout is layered
// on top.
type Engine interface {
	// Create instantiates a node from the JSON config document and returns
	// its handle. The callback reports whether instantiation succeeded; the
	// handle is only meaningful on success.
	Create(ctx context.Context, configJSON string, cb Callback) Handle

	Destroy(ctx context.Context, h Handle, cb Callback)
	Start(ctx context.Context, h Handle, cb Callback)
	Stop(ctx context.Context, h Handle, cb Callback)

	// Version reports the engine version string.
	Version(ctx context.Context, h Handle, cb Callback)

	// ListenAddresses reports the node's listen multiaddresses as a JSON
	// array of strings.
	ListenAddresses(ctx context.Context, h Handle, cb Callback)

	Connect(ctx context.Context, h Handle, addr string, timeoutMs int32, cb Callback)

	// SetEventCallback registers cb as the node's persistent event sink.
	// The engine keeps a single slot per node: a later registration
	// replaces the earlier one. Returns an error if registration itself
	// fails.
	SetEventCallback(ctx context.Context, h Handle, cb Callback) error

	RelayPublish(ctx context.Context, h Handle, pubsubTopic, messageJSON string, timeoutMs int32, cb Callback)
	RelaySubscribe(ctx context.Context, h Handle, pubsubTopic string, cb Callback)
	RelayUnsubscribe(ctx context.Context, h Handle, pubsubTopic string, cb Callback)

	FilterSubscribe(ctx context.Context, h Handle, subscriptionJSON string, cb Callback)
	FilterUnsubscribe(ctx context.Context, h Handle, subscriptionJSON string, cb Callback)
	FilterUnsubscribeAll(ctx context.Context, h Handle, cb Callback)

	LightpushPublish(ctx context.Context, h Handle, pubsubTopic, messageJSON string, cb Callback)

	// StoreQuery runs one page of a paged store query against peerAddr and
	// reports the page plus an optional continuation cursor as JSON.
	StoreQuery(ctx context.Context, h Handle, queryJSON, peerAddr string, timeoutMs int32, cb Callback)
}
