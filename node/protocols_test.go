package node

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/meshbind/waku-go/engine"
	"github.com/meshbind/waku-go/message"
)

func TestFilterSubscribeDocument(t *testing.T) {
	eng := newMockEngine()

	var gotOp, gotDoc string
	eng.onFilter = func(op, doc string, cb engine.Callback) {
		gotOp, gotDoc = op, doc
		cb(engine.OK(""))
	}

	running := newRunningNode(t, eng)

	topics := []message.ContentTopic{
		message.NewContentTopic("app", "1", "alerts", "proto"),
		message.NewContentTopic("app", "1", "status", "proto"),
	}
	if err := running.FilterSubscribe(context.Background(), "shard", topics); err != nil {
		t.Fatalf("filter subscribe: %v", err)
	}

	if gotOp != "waku_filter_subscribe" {
		t.Errorf("op = %q", gotOp)
	}

	var sub filterSubscription
	if err := json.Unmarshal([]byte(gotDoc), &sub); err != nil {
		t.Fatalf("subscription doc: %v", err)
	}
	if sub.PubsubTopic != "shard" {
		t.Errorf("pubsubTopic = %q", sub.PubsubTopic)
	}
	if len(sub.ContentTopics) != 2 || sub.ContentTopics[0].ContentTopicName != "alerts" {
		t.Errorf("contentTopics = %v", sub.ContentTopics)
	}
}

func TestFilterUnsubscribeAll(t *testing.T) {
	eng := newMockEngine()
	running := newRunningNode(t, eng)

	if err := running.FilterUnsubscribeAll(context.Background()); err != nil {
		t.Fatalf("unsubscribe all: %v", err)
	}

	found := false
	for _, op := range eng.recorded() {
		if op == "waku_filter_unsubscribe_all" {
			found = true
		}
	}
	if !found {
		t.Error("engine was not asked to drop subscriptions")
	}
}

func TestLightpushPublishReturnsHash(t *testing.T) {
	eng := newMockEngine()

	var gotTopic, gotMsg string
	eng.onLightpush = func(topic, msg string, cb engine.Callback) {
		gotTopic, gotMsg = topic, msg
		cb(engine.OK("0xdeadbeef"))
	}

	// Lightpush does not require relay locally.
	ctx := context.Background()
	n, err := New(ctx, eng, &Config{Host: "127.0.0.1"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	running, err := n.Start(ctx)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	defer running.Destroy(ctx)

	msg := message.New([]byte("hello"), message.NewContentTopic("app", "1", "chat", "proto"))
	hash, err := running.LightpushPublish(ctx, msg, message.DefaultPubsubTopic)
	if err != nil {
		t.Fatalf("lightpush: %v", err)
	}
	if hash != "0xdeadbeef" {
		t.Errorf("hash = %q", hash)
	}
	if gotTopic != message.DefaultPubsubTopic.String() {
		t.Errorf("topic = %q", gotTopic)
	}

	var decoded message.Message
	if err := json.Unmarshal([]byte(gotMsg), &decoded); err != nil {
		t.Fatalf("message doc: %v", err)
	}
	if string(decoded.Payload) != "hello" {
		t.Errorf("payload = %q", decoded.Payload)
	}
}

func TestRelayPublishReturnsHash(t *testing.T) {
	eng := newMockEngine()

	var gotTimeout int32
	eng.onRelayPublish = func(_, _ string, timeoutMs int32, cb engine.Callback) {
		gotTimeout = timeoutMs
		cb(engine.OK("0xfeed"))
	}

	running := newRunningNode(t, eng)

	msg := message.New([]byte("hi"), message.NewContentTopic("app", "1", "chat", "proto"))
	hash, err := running.RelayPublish(context.Background(), msg, message.DefaultPubsubTopic, 0)
	if err != nil {
		t.Fatalf("relay publish: %v", err)
	}
	if hash != "0xfeed" {
		t.Errorf("hash = %q", hash)
	}
	if gotTimeout != 0 {
		t.Errorf("timeout = %d, want 0 (no timeout)", gotTimeout)
	}
}
