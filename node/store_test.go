package node

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/meshbind/waku-go/engine"
)

func newRunningNode(t *testing.T, eng *mockEngine) *RunningNode {
	t.Helper()
	ctx := context.Background()

	n, err := New(ctx, eng, nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	running, err := n.Start(ctx)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(func() { running.Destroy(ctx) })
	return running
}

func TestStoreQueryPaginatesAndReverses(t *testing.T) {
	eng := newMockEngine()

	// The engine delivers newest first: page one has ["c","b"] plus a
	// continuation cursor, page two has ["a"] and no cursor.
	pages := 0
	eng.onStoreQuery = func(query, peer string, _ int32, cb engine.Callback) {
		var req StoreQueryRequest
		if err := json.Unmarshal([]byte(query), &req); err != nil {
			t.Errorf("malformed query doc: %v", err)
		}
		if !req.PaginationForward {
			t.Error("driver must fix forward pagination")
		}
		if peer != "/dns4/store.example/tcp/30303" {
			t.Errorf("peer = %q", peer)
		}

		pages++
		switch pages {
		case 1:
			if req.PaginationCursor != nil {
				t.Errorf("first page must start without a cursor, got %v", *req.PaginationCursor)
			}
			cb(engine.OK(`{"messages":[{"messageHash":"c"},{"messageHash":"b"}],"paginationCursor":"cur1"}`))
		case 2:
			if req.PaginationCursor == nil || *req.PaginationCursor != "cur1" {
				t.Errorf("second page must resume from cur1, got %v", req.PaginationCursor)
			}
			cb(engine.OK(`{"messages":[{"messageHash":"a"}]}`))
		default:
			t.Errorf("unexpected page request %d", pages)
			cb(engine.Fail("too many pages"))
		}
	}

	running := newRunningNode(t, eng)

	msgs, err := running.StoreQuery(context.Background(), nil, "/dns4/store.example/tcp/30303", 0)
	if err != nil {
		t.Fatalf("store query: %v", err)
	}

	if pages != 2 {
		t.Errorf("issued %d page requests, want 2", pages)
	}
	want := []string{"a", "b", "c"}
	if len(msgs) != len(want) {
		t.Fatalf("got %d messages, want %d", len(msgs), len(want))
	}
	for i, w := range want {
		if string(msgs[i].MessageHash) != w {
			t.Errorf("msgs[%d] = %q, want %q", i, msgs[i].MessageHash, w)
		}
	}
}

func TestStoreQueryAbortsOnPageFailure(t *testing.T) {
	eng := newMockEngine()

	pages := 0
	eng.onStoreQuery = func(_, _ string, _ int32, cb engine.Callback) {
		pages++
		if pages == 1 {
			cb(engine.OK(`{"messages":[{"messageHash":"x"}],"paginationCursor":"cur1"}`))
			return
		}
		cb(engine.Fail("store peer went away"))
	}

	running := newRunningNode(t, eng)

	msgs, err := running.StoreQuery(context.Background(), nil, "peer", 0)
	if err == nil {
		t.Fatal("expected the page failure to abort the query")
	}
	if msgs != nil {
		t.Errorf("partial results must be discarded, got %v", msgs)
	}
}

func TestStoreQueryUniformPageTimeout(t *testing.T) {
	eng := newMockEngine()

	var timeouts []int32
	eng.onStoreQuery = func(_, _ string, timeoutMs int32, cb engine.Callback) {
		timeouts = append(timeouts, timeoutMs)
		if len(timeouts) == 1 {
			cb(engine.OK(`{"messages":[],"paginationCursor":"cur1"}`))
			return
		}
		cb(engine.OK(`{"messages":[]}`))
	}

	running := newRunningNode(t, eng)

	if _, err := running.StoreQuery(context.Background(), nil, "peer", 1500*time.Millisecond); err != nil {
		t.Fatalf("store query: %v", err)
	}
	if len(timeouts) != 2 {
		t.Fatalf("timeouts = %v", timeouts)
	}
	for _, ms := range timeouts {
		if ms != 1500 {
			t.Errorf("per-page timeout = %dms, want 1500ms on every page", ms)
		}
	}
}

func TestStoreQueryRequestBuilder(t *testing.T) {
	start := int64(100)
	req := NewStoreQueryRequest().
		WithPubsubTopic("topic").
		WithIncludeData(true).
		WithTimeStart(start)

	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["pubsubTopic"] != "topic" {
		t.Errorf("pubsubTopic = %v", decoded["pubsubTopic"])
	}
	if decoded["includeData"] != true {
		t.Errorf("includeData = %v", decoded["includeData"])
	}
	if decoded["paginationForward"] != true {
		t.Errorf("paginationForward = %v", decoded["paginationForward"])
	}
	if decoded["timeStart"] != float64(100) {
		t.Errorf("timeStart = %v", decoded["timeStart"])
	}
	if _, ok := decoded["paginationCursor"]; ok {
		t.Error("fresh request must not carry a cursor")
	}
}
