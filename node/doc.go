// Package node provides the typed, asynchronous API over the callback-based
// waku node engine.
//
// # Quick Start
//
//	ctx := context.Background()
//	eng, err := engine.NewWasmEngine(ctx, wasmBytes)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	n, err := node.New(ctx, eng, nil) // DefaultConfig
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	events := n.ResponseStream(ctx)
//
//	running, err := n.Start(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer running.Destroy(ctx)
//
//	if err := running.RelaySubscribe(ctx, message.DefaultPubsubTopic); err != nil {
//	    log.Fatal(err)
//	}
//
// # Lifecycle
//
// A node is always in one of two phases, each with its own wrapper type:
//
//	InitializedNode  handle obtained, protocols configured, not started
//	RunningNode      started; protocol operations available
//
// Start and Stop are the only transitions; each consumes its receiver and
// returns the wrapper for the next phase. Destroy works from either phase
// and invalidates the native handle; Version works in any phase. Holding
// on to a consumed wrapper is a programming error: every operation
// re-checks the shared phase and returns a state-violation error rather
// than contacting the engine.
//
// A failed Start leaves the InitializedNode valid; the caller must still
// call Destroy.
//
// # Relay gating
//
// RelayPublish, RelaySubscribe and RelayUnsubscribe require relay to have
// been enabled in the node config. When it was not, they fail with a
// configuration error before any engine contact.
//
// # Events
//
// The engine keeps a single event-callback slot per node. SetEventCallback
// and ResponseStream overwrite that slot; the last registration wins. This
// is a documented engine limitation, not something the binding arbitrates.
// ResponseStream returns an unbounded live feed that never completes.
//
// # Concurrency
//
// Concurrent engine calls on the same node are safe: each call owns an
// independent completion cell, so results never cross-wire. No ordering is
// guaranteed across concurrent calls.
package node
