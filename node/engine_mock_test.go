package node

import (
	"context"
	"sync"

	"github.com/meshbind/waku-go/engine"
)

// mockEngine scripts engine behavior per entry point and records every
// call. Entry points without a hook succeed with an empty payload.
type mockEngine struct {
	mu    sync.Mutex
	calls []string

	handle engine.Handle

	onCreate           func(config string, cb engine.Callback) engine.Handle
	onDestroy          func(cb engine.Callback)
	onStart            func(cb engine.Callback)
	onStop             func(cb engine.Callback)
	onVersion          func(cb engine.Callback)
	onListenAddresses  func(cb engine.Callback)
	onConnect          func(addr string, timeoutMs int32, cb engine.Callback)
	onRelayPublish     func(topic, msg string, timeoutMs int32, cb engine.Callback)
	onRelaySubscribe   func(topic string, cb engine.Callback)
	onRelayUnsubscribe func(topic string, cb engine.Callback)
	onFilter           func(op, doc string, cb engine.Callback)
	onLightpush        func(topic, msg string, cb engine.Callback)
	onStoreQuery       func(query, peer string, timeoutMs int32, cb engine.Callback)

	eventErr error
	eventCB  engine.Callback
}

var _ engine.Engine = (*mockEngine)(nil)

func newMockEngine() *mockEngine {
	return &mockEngine{handle: engine.Handle(0xbeef)}
}

func (m *mockEngine) record(op string) {
	m.mu.Lock()
	m.calls = append(m.calls, op)
	m.mu.Unlock()
}

func (m *mockEngine) recorded() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *mockEngine) Create(_ context.Context, config string, cb engine.Callback) engine.Handle {
	m.record("waku_new")
	if m.onCreate != nil {
		return m.onCreate(config, cb)
	}
	cb(engine.OK(""))
	return m.handle
}

func (m *mockEngine) Destroy(_ context.Context, _ engine.Handle, cb engine.Callback) {
	m.record("waku_destroy")
	if m.onDestroy != nil {
		m.onDestroy(cb)
		return
	}
	cb(engine.OK(""))
}

func (m *mockEngine) Start(_ context.Context, _ engine.Handle, cb engine.Callback) {
	m.record("waku_start")
	if m.onStart != nil {
		m.onStart(cb)
		return
	}
	cb(engine.OK(""))
}

func (m *mockEngine) Stop(_ context.Context, _ engine.Handle, cb engine.Callback) {
	m.record("waku_stop")
	if m.onStop != nil {
		m.onStop(cb)
		return
	}
	cb(engine.OK(""))
}

func (m *mockEngine) Version(_ context.Context, _ engine.Handle, cb engine.Callback) {
	m.record("waku_version")
	if m.onVersion != nil {
		m.onVersion(cb)
		return
	}
	cb(engine.OK("v0.0.0-mock"))
}

func (m *mockEngine) ListenAddresses(_ context.Context, _ engine.Handle, cb engine.Callback) {
	m.record("waku_listen_addresses")
	if m.onListenAddresses != nil {
		m.onListenAddresses(cb)
		return
	}
	cb(engine.OK("[]"))
}

func (m *mockEngine) Connect(_ context.Context, _ engine.Handle, addr string, timeoutMs int32, cb engine.Callback) {
	m.record("waku_connect")
	if m.onConnect != nil {
		m.onConnect(addr, timeoutMs, cb)
		return
	}
	cb(engine.OK(""))
}

func (m *mockEngine) SetEventCallback(_ context.Context, _ engine.Handle, cb engine.Callback) error {
	m.record("waku_set_event_callback")
	if m.eventErr != nil {
		return m.eventErr
	}
	m.mu.Lock()
	m.eventCB = cb
	m.mu.Unlock()
	return nil
}

// emit pushes one event through the registered sink, if any.
func (m *mockEngine) emit(env engine.Envelope) {
	m.mu.Lock()
	cb := m.eventCB
	m.mu.Unlock()
	if cb != nil {
		cb(env)
	}
}

func (m *mockEngine) RelayPublish(_ context.Context, _ engine.Handle, pubsubTopic, messageJSON string, timeoutMs int32, cb engine.Callback) {
	m.record("waku_relay_publish")
	if m.onRelayPublish != nil {
		m.onRelayPublish(pubsubTopic, messageJSON, timeoutMs, cb)
		return
	}
	cb(engine.OK("0xmockhash"))
}

func (m *mockEngine) RelaySubscribe(_ context.Context, _ engine.Handle, pubsubTopic string, cb engine.Callback) {
	m.record("waku_relay_subscribe")
	if m.onRelaySubscribe != nil {
		m.onRelaySubscribe(pubsubTopic, cb)
		return
	}
	cb(engine.OK(""))
}

func (m *mockEngine) RelayUnsubscribe(_ context.Context, _ engine.Handle, pubsubTopic string, cb engine.Callback) {
	m.record("waku_relay_unsubscribe")
	if m.onRelayUnsubscribe != nil {
		m.onRelayUnsubscribe(pubsubTopic, cb)
		return
	}
	cb(engine.OK(""))
}

func (m *mockEngine) FilterSubscribe(_ context.Context, _ engine.Handle, subscriptionJSON string, cb engine.Callback) {
	m.record("waku_filter_subscribe")
	if m.onFilter != nil {
		m.onFilter("waku_filter_subscribe", subscriptionJSON, cb)
		return
	}
	cb(engine.OK(""))
}

func (m *mockEngine) FilterUnsubscribe(_ context.Context, _ engine.Handle, subscriptionJSON string, cb engine.Callback) {
	m.record("waku_filter_unsubscribe")
	if m.onFilter != nil {
		m.onFilter("waku_filter_unsubscribe", subscriptionJSON, cb)
		return
	}
	cb(engine.OK(""))
}

func (m *mockEngine) FilterUnsubscribeAll(_ context.Context, _ engine.Handle, cb engine.Callback) {
	m.record("waku_filter_unsubscribe_all")
	cb(engine.OK(""))
}

func (m *mockEngine) LightpushPublish(_ context.Context, _ engine.Handle, pubsubTopic, messageJSON string, cb engine.Callback) {
	m.record("waku_lightpush_publish")
	if m.onLightpush != nil {
		m.onLightpush(pubsubTopic, messageJSON, cb)
		return
	}
	cb(engine.OK("0xmockhash"))
}

func (m *mockEngine) StoreQuery(_ context.Context, _ engine.Handle, queryJSON, peerAddr string, timeoutMs int32, cb engine.Callback) {
	m.record("waku_store_query")
	if m.onStoreQuery != nil {
		m.onStoreQuery(queryJSON, peerAddr, timeoutMs, cb)
		return
	}
	cb(engine.OK(`{"messages":[]}`))
}
