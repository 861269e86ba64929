// Package engine defines the callback-based boundary to the native waku
// node engine and ships a wazero-backed driver for engines compiled to
// WebAssembly.
//
// # The Engine contract
//
// Engine mirrors the native ABI: one method per engine entry point. Every
// single-shot method accepts an engine.Callback and guarantees that the
// engine invokes it exactly once per call, synchronously or from another
// goroutine. The event callback registered through SetEventCallback is
// persistent and may fire any number of times, including zero, for the life
// of the node.
//
// Results travel as an Envelope, a tagged value with three states:
//
//	StatusOK      success, payload attached
//	StatusError   engine reported a failure message
//	StatusMissing no callback was ever invoked
//
// The zero Envelope is StatusMissing, so a result cell that was never
// written decodes as the missing-callback condition.
//
// # WasmEngine
//
// WasmEngine drives a node engine compiled to a WebAssembly module. The
// guest exports one function per ABI entry point; each call carries a
// 64-bit call ID, and the guest answers through the waku_host host module:
//
//	reply(call_id, status, ptr, len)  completes one single-shot call
//	event(handle, ptr, len)           delivers one node event
//
// Guest execution is single-threaded, so a guest export that returns
// without replying can never reply later; WasmEngine synthesizes the
// StatusMissing envelope at that point.
//
// Most users should use the node package rather than calling an Engine
// directly.
package engine
