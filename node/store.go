package node

import (
	"context"
	"encoding/json"
	"time"

	"github.com/meshbind/waku-go/engine"
	"github.com/meshbind/waku-go/errors"
	"github.com/meshbind/waku-go/message"
)

// StoreQueryRequest is the paged store query document. Build it with
// NewStoreQueryRequest and the With methods; the pagination cursor and
// direction are managed by the driver.
type StoreQueryRequest struct {
	PubsubTopic       string                 `json:"pubsubTopic,omitempty"`
	ContentTopics     []message.ContentTopic `json:"contentTopics,omitempty"`
	IncludeData       bool                   `json:"includeData"`
	TimeStart         *int64                 `json:"timeStart,omitempty"` // unix nanoseconds
	TimeEnd           *int64                 `json:"timeEnd,omitempty"`   // unix nanoseconds
	PaginationCursor  *message.Hash          `json:"paginationCursor,omitempty"`
	PaginationForward bool                   `json:"paginationForward"`
}

// NewStoreQueryRequest returns an empty forward-paginated request.
func NewStoreQueryRequest() *StoreQueryRequest {
	return &StoreQueryRequest{PaginationForward: true}
}

// WithPubsubTopic restricts the query to one pubsub topic.
func (r *StoreQueryRequest) WithPubsubTopic(t message.PubsubTopic) *StoreQueryRequest {
	r.PubsubTopic = t.String()
	return r
}

// WithContentTopics restricts the query to the given content topics.
func (r *StoreQueryRequest) WithContentTopics(topics []message.ContentTopic) *StoreQueryRequest {
	r.ContentTopics = topics
	return r
}

// WithIncludeData requests full message payloads; without it only hashes
// come back.
func (r *StoreQueryRequest) WithIncludeData(include bool) *StoreQueryRequest {
	r.IncludeData = include
	return r
}

// WithTimeStart bounds the query from below, inclusive.
func (r *StoreQueryRequest) WithTimeStart(unixNanos int64) *StoreQueryRequest {
	r.TimeStart = &unixNanos
	return r
}

// WithTimeEnd bounds the query from above, inclusive.
func (r *StoreQueryRequest) WithTimeEnd(unixNanos int64) *StoreQueryRequest {
	r.TimeEnd = &unixNanos
	return r
}

// StoredMessage is one store query result item. Message is nil unless the
// query asked for data.
type StoredMessage struct {
	MessageHash message.Hash     `json:"messageHash"`
	Message     *message.Message `json:"message,omitempty"`
}

// storeResponse is one page of a store query. An absent cursor means the
// page was the last one.
type storeResponse struct {
	Messages         []StoredMessage `json:"messages"`
	PaginationCursor *message.Hash   `json:"paginationCursor,omitempty"`
}

// StoreQuery retrieves the full history matching req from the store peer
// at peerAddr, fetching pages until the engine reports no continuation
// cursor. timeout applies uniformly to every page fetch. The engine
// delivers pages newest first within forward pagination; the result is
// reversed once so callers see chronological order. Any page failure
// aborts the whole call and discards pages already fetched.
//
// No page-count or size limit is imposed here; the query is bounded only
// by the engine's own pagination termination.
func (n *RunningNode) StoreQuery(ctx context.Context, req *StoreQueryRequest, peerAddr string, timeout time.Duration) ([]StoredMessage, error) {
	if err := n.s.require("waku_store_query", phaseRunning); err != nil {
		return nil, err
	}
	if req == nil {
		req = NewStoreQueryRequest()
	}

	var cursor *message.Hash
	var messages []StoredMessage

	for {
		page := *req
		page.PaginationCursor = cursor
		page.PaginationForward = true

		doc, err := json.Marshal(&page)
		if err != nil {
			return nil, errors.New(errors.PhaseStore, errors.KindInvalidData).
				Op("waku_store_query").Detail("marshal query").Cause(err).Build()
		}

		payload, err := invoke(ctx, "waku_store_query", func(cb engine.Callback) {
			n.s.nc.eng.StoreQuery(ctx, n.s.nc.Handle(), string(doc), peerAddr, timeoutMillis(timeout), cb)
		})
		if err != nil {
			return nil, err
		}

		var resp storeResponse
		if err := json.Unmarshal([]byte(payload), &resp); err != nil {
			return nil, errors.Decode("waku_store_query", err)
		}

		messages = append(messages, resp.Messages...)
		if resp.PaginationCursor == nil {
			break
		}
		cursor = resp.PaginationCursor
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}
