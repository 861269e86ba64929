package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"
)

// Guest entry points the wasm engine module must export, one per ABI call.
// String arguments are passed as (ptr, len) pairs into guest memory
// obtained from the guest's own malloc.
const (
	guestNew                  = "waku_new"
	guestDestroy              = "waku_destroy"
	guestStart                = "waku_start"
	guestStop                 = "waku_stop"
	guestVersion              = "waku_version"
	guestListenAddresses      = "waku_listen_addresses"
	guestConnect              = "waku_connect"
	guestSetEventCallback     = "waku_set_event_callback"
	guestRelayPublish         = "waku_relay_publish"
	guestRelaySubscribe       = "waku_relay_subscribe"
	guestRelayUnsubscribe     = "waku_relay_unsubscribe"
	guestFilterSubscribe      = "waku_filter_subscribe"
	guestFilterUnsubscribe    = "waku_filter_unsubscribe"
	guestFilterUnsubscribeAll = "waku_filter_unsubscribe_all"
	guestLightpushPublish     = "waku_lightpush_publish"
	guestStoreQuery           = "waku_store_query"
)

// reply statuses on the waku_host.reply host call.
const (
	replyOK    = 1
	replyError = 2
)

// WasmEngine implements Engine for a node engine compiled to WebAssembly,
// executed under wazero. The module instance is single-threaded; all guest
// calls are serialized on an internal mutex.
var _ Engine = (*WasmEngine)(nil)

type WasmEngine struct {
	runtime wazero.Runtime
	mod     api.Module
	malloc  api.Function
	free    api.Function

	callMu sync.Mutex
	calls  *callTable

	eventMu sync.RWMutex
	events  map[Handle]Callback
}

// NewWasmEngine compiles and instantiates the engine module in wasmBytes.
// The module must export the waku_* entry points plus malloc and free, and
// import its callbacks from the waku_host module.
func NewWasmEngine(ctx context.Context, wasmBytes []byte) (*WasmEngine, error) {
	e := &WasmEngine{
		calls:  newCallTable(),
		events: make(map[Handle]Callback),
	}

	rt := wazero.NewRuntime(ctx)

	_, err := rt.NewHostModuleBuilder("waku_host").
		NewFunctionBuilder().WithFunc(e.hostReply).Export("reply").
		NewFunctionBuilder().WithFunc(e.hostEvent).Export("event").
		Instantiate(ctx)
	if err != nil {
		_ = rt.Close(ctx)
		return nil, fmt.Errorf("instantiate host module: %w", err)
	}

	mod, err := rt.Instantiate(ctx, wasmBytes)
	if err != nil {
		_ = rt.Close(ctx)
		return nil, fmt.Errorf("instantiate engine module: %w", err)
	}

	malloc := mod.ExportedFunction("malloc")
	free := mod.ExportedFunction("free")
	if malloc == nil || free == nil {
		_ = rt.Close(ctx)
		return nil, fmt.Errorf("engine module must export malloc and free")
	}

	e.runtime = rt
	e.mod = mod
	e.malloc = malloc
	e.free = free
	return e, nil
}

// Close releases the wazero runtime. No engine calls may be in flight.
func (e *WasmEngine) Close(ctx context.Context) error {
	return e.runtime.Close(ctx)
}

// hostReply completes one single-shot call. The guest invokes it exactly
// once per call ID; a reply for an unknown ID is dropped with a warning.
func (e *WasmEngine) hostReply(_ context.Context, m api.Module, callID uint64, status, ptr, length uint32) {
	body := e.readString(m, ptr, length)

	var env Envelope
	switch status {
	case replyOK:
		env = OK(body)
	case replyError:
		env = Fail(body)
	default:
		env = Fail(fmt.Sprintf("engine replied with unknown status %d", status))
	}

	if !e.calls.complete(callID, env) {
		Logger().Warn("engine replied to unknown call",
			zap.Uint64("call_id", callID),
			zap.String("status", env.Status.String()))
	}
}

// hostEvent delivers one node event to the handle's registered sink.
// Events for handles without a sink are dropped.
func (e *WasmEngine) hostEvent(_ context.Context, m api.Module, handle uint64, ptr, length uint32) {
	e.eventMu.RLock()
	cb := e.events[Handle(handle)]
	e.eventMu.RUnlock()
	if cb == nil {
		return
	}
	cb(OK(e.readString(m, ptr, length)))
}

func (e *WasmEngine) readString(m api.Module, ptr, length uint32) string {
	if length == 0 {
		return ""
	}
	data, ok := m.Memory().Read(ptr, length)
	if !ok {
		Logger().Warn("engine passed out-of-range memory",
			zap.Uint32("ptr", ptr), zap.Uint32("len", length))
		return ""
	}
	return string(data)
}

// guestStrings tracks strings copied into guest memory for one call so
// they can be freed after the synchronous portion completes.
type guestStrings struct {
	e      *WasmEngine
	allocs []uint32
	err    error
}

// write copies s into guest memory and returns its (ptr, len) pair as
// call parameters. An empty string is passed as (0, 0).
func (g *guestStrings) write(ctx context.Context, s string) (uint64, uint64) {
	if g.err != nil || s == "" {
		return 0, 0
	}
	results, err := g.e.malloc.Call(ctx, uint64(len(s)))
	if err != nil {
		g.err = fmt.Errorf("guest malloc: %w", err)
		return 0, 0
	}
	ptr := uint32(results[0])
	if ptr == 0 || !g.e.mod.Memory().Write(ptr, []byte(s)) {
		g.err = fmt.Errorf("guest malloc returned unusable pointer %d", ptr)
		return 0, 0
	}
	g.allocs = append(g.allocs, ptr)
	return uint64(ptr), uint64(len(s))
}

func (g *guestStrings) release(ctx context.Context) {
	for _, ptr := range g.allocs {
		if _, err := g.e.free.Call(ctx, uint64(ptr)); err != nil {
			Logger().Warn("guest free failed", zap.Error(err))
		}
	}
	g.allocs = nil
}

// call runs one single-shot guest entry point. build assembles the leading
// parameters (the call ID is appended last). The guest must reply through
// waku_host.reply before the export returns; guest execution is
// single-threaded, so a missing reply at return time can never arrive
// later and is surfaced as the zero (missing-callback) envelope.
func (e *WasmEngine) call(ctx context.Context, name string, cb Callback, build func(g *guestStrings) []uint64) []uint64 {
	e.callMu.Lock()
	defer e.callMu.Unlock()

	fn := e.mod.ExportedFunction(name)
	if fn == nil {
		cb(Fail(fmt.Sprintf("engine module does not export %s", name)))
		return nil
	}

	g := &guestStrings{e: e}
	defer g.release(ctx)

	params := build(g)
	if g.err != nil {
		cb(Fail(g.err.Error()))
		return nil
	}

	id := e.calls.register(cb)
	params = append(params, id)

	results, err := fn.Call(ctx, params...)
	if err != nil {
		if pending, ok := e.calls.take(id); ok {
			pending(Fail(fmt.Sprintf("engine call %s trapped: %v", name, err)))
		}
		return nil
	}

	if pending, ok := e.calls.take(id); ok {
		Logger().Warn("engine returned without invoking callback",
			zap.String("op", name), zap.Uint64("call_id", id))
		pending(Envelope{})
	}
	return results
}

func (e *WasmEngine) Create(ctx context.Context, configJSON string, cb Callback) Handle {
	results := e.call(ctx, guestNew, cb, func(g *guestStrings) []uint64 {
		ptr, n := g.write(ctx, configJSON)
		return []uint64{ptr, n}
	})
	if len(results) == 0 {
		return InvalidHandle
	}
	return Handle(results[0])
}

func (e *WasmEngine) Destroy(ctx context.Context, h Handle, cb Callback) {
	e.call(ctx, guestDestroy, cb, func(*guestStrings) []uint64 {
		return []uint64{uint64(h)}
	})
	e.dropEventSink(h)
}

func (e *WasmEngine) Start(ctx context.Context, h Handle, cb Callback) {
	e.call(ctx, guestStart, cb, func(*guestStrings) []uint64 {
		return []uint64{uint64(h)}
	})
}

func (e *WasmEngine) Stop(ctx context.Context, h Handle, cb Callback) {
	e.call(ctx, guestStop, cb, func(*guestStrings) []uint64 {
		return []uint64{uint64(h)}
	})
}

func (e *WasmEngine) Version(ctx context.Context, h Handle, cb Callback) {
	e.call(ctx, guestVersion, cb, func(*guestStrings) []uint64 {
		return []uint64{uint64(h)}
	})
}

func (e *WasmEngine) ListenAddresses(ctx context.Context, h Handle, cb Callback) {
	e.call(ctx, guestListenAddresses, cb, func(*guestStrings) []uint64 {
		return []uint64{uint64(h)}
	})
}

func (e *WasmEngine) Connect(ctx context.Context, h Handle, addr string, timeoutMs int32, cb Callback) {
	e.call(ctx, guestConnect, cb, func(g *guestStrings) []uint64 {
		ptr, n := g.write(ctx, addr)
		return []uint64{uint64(h), ptr, n, uint64(uint32(timeoutMs))}
	})
}

// SetEventCallback registers cb as the single event sink for h. The guest
// registration is persistent; invoking it again overwrites the sink.
func (e *WasmEngine) SetEventCallback(ctx context.Context, h Handle, cb Callback) error {
	e.eventMu.Lock()
	e.events[h] = cb
	e.eventMu.Unlock()

	e.callMu.Lock()
	defer e.callMu.Unlock()

	fn := e.mod.ExportedFunction(guestSetEventCallback)
	if fn == nil {
		e.dropEventSink(h)
		return fmt.Errorf("engine module does not export %s", guestSetEventCallback)
	}
	results, err := fn.Call(ctx, uint64(h))
	if err != nil {
		e.dropEventSink(h)
		return fmt.Errorf("register event callback: %w", err)
	}
	if len(results) > 0 && uint32(results[0]) != 0 {
		e.dropEventSink(h)
		return fmt.Errorf("register event callback: engine status %d", uint32(results[0]))
	}
	return nil
}

func (e *WasmEngine) dropEventSink(h Handle) {
	e.eventMu.Lock()
	delete(e.events, h)
	e.eventMu.Unlock()
}

func (e *WasmEngine) RelayPublish(ctx context.Context, h Handle, pubsubTopic, messageJSON string, timeoutMs int32, cb Callback) {
	e.call(ctx, guestRelayPublish, cb, func(g *guestStrings) []uint64 {
		tp, tn := g.write(ctx, pubsubTopic)
		mp, mn := g.write(ctx, messageJSON)
		return []uint64{uint64(h), tp, tn, mp, mn, uint64(uint32(timeoutMs))}
	})
}

func (e *WasmEngine) RelaySubscribe(ctx context.Context, h Handle, pubsubTopic string, cb Callback) {
	e.call(ctx, guestRelaySubscribe, cb, func(g *guestStrings) []uint64 {
		tp, tn := g.write(ctx, pubsubTopic)
		return []uint64{uint64(h), tp, tn}
	})
}

func (e *WasmEngine) RelayUnsubscribe(ctx context.Context, h Handle, pubsubTopic string, cb Callback) {
	e.call(ctx, guestRelayUnsubscribe, cb, func(g *guestStrings) []uint64 {
		tp, tn := g.write(ctx, pubsubTopic)
		return []uint64{uint64(h), tp, tn}
	})
}

func (e *WasmEngine) FilterSubscribe(ctx context.Context, h Handle, subscriptionJSON string, cb Callback) {
	e.call(ctx, guestFilterSubscribe, cb, func(g *guestStrings) []uint64 {
		sp, sn := g.write(ctx, subscriptionJSON)
		return []uint64{uint64(h), sp, sn}
	})
}

func (e *WasmEngine) FilterUnsubscribe(ctx context.Context, h Handle, subscriptionJSON string, cb Callback) {
	e.call(ctx, guestFilterUnsubscribe, cb, func(g *guestStrings) []uint64 {
		sp, sn := g.write(ctx, subscriptionJSON)
		return []uint64{uint64(h), sp, sn}
	})
}

func (e *WasmEngine) FilterUnsubscribeAll(ctx context.Context, h Handle, cb Callback) {
	e.call(ctx, guestFilterUnsubscribeAll, cb, func(*guestStrings) []uint64 {
		return []uint64{uint64(h)}
	})
}

func (e *WasmEngine) LightpushPublish(ctx context.Context, h Handle, pubsubTopic, messageJSON string, cb Callback) {
	e.call(ctx, guestLightpushPublish, cb, func(g *guestStrings) []uint64 {
		tp, tn := g.write(ctx, pubsubTopic)
		mp, mn := g.write(ctx, messageJSON)
		return []uint64{uint64(h), tp, tn, mp, mn}
	})
}

func (e *WasmEngine) StoreQuery(ctx context.Context, h Handle, queryJSON, peerAddr string, timeoutMs int32, cb Callback) {
	e.call(ctx, guestStoreQuery, cb, func(g *guestStrings) []uint64 {
		qp, qn := g.write(ctx, queryJSON)
		pp, pn := g.write(ctx, peerAddr)
		return []uint64{uint64(h), qp, qn, pp, pn, uint64(uint32(timeoutMs))}
	})
}
