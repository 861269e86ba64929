package node

import (
	"context"
	"encoding/json"

	"github.com/meshbind/waku-go/engine"
	"github.com/meshbind/waku-go/errors"
	"github.com/meshbind/waku-go/message"
)

// filterSubscription is the JSON document for filter subscribe and
// unsubscribe calls.
type filterSubscription struct {
	PubsubTopic   string                 `json:"pubsubTopic"`
	ContentTopics []message.ContentTopic `json:"contentTopics"`
}

func filterDocument(op string, pubsubTopic message.PubsubTopic, contentTopics []message.ContentTopic) (string, error) {
	doc, err := json.Marshal(filterSubscription{
		PubsubTopic:   pubsubTopic.String(),
		ContentTopics: contentTopics,
	})
	if err != nil {
		return "", errors.New(errors.PhaseInvoke, errors.KindInvalidData).
			Op(op).Detail("marshal filter subscription").Cause(err).Build()
	}
	return string(doc), nil
}

// FilterSubscribe subscribes to content topics through the filter
// protocol.
func (n *RunningNode) FilterSubscribe(ctx context.Context, pubsubTopic message.PubsubTopic, contentTopics []message.ContentTopic) error {
	if err := n.s.require("waku_filter_subscribe", phaseRunning); err != nil {
		return err
	}
	doc, err := filterDocument("waku_filter_subscribe", pubsubTopic, contentTopics)
	if err != nil {
		return err
	}
	_, err = invoke(ctx, "waku_filter_subscribe", func(cb engine.Callback) {
		n.s.nc.eng.FilterSubscribe(ctx, n.s.nc.Handle(), doc, cb)
	})
	return err
}

// FilterUnsubscribe removes a filter subscription for the given content
// topics.
func (n *RunningNode) FilterUnsubscribe(ctx context.Context, pubsubTopic message.PubsubTopic, contentTopics []message.ContentTopic) error {
	if err := n.s.require("waku_filter_unsubscribe", phaseRunning); err != nil {
		return err
	}
	doc, err := filterDocument("waku_filter_unsubscribe", pubsubTopic, contentTopics)
	if err != nil {
		return err
	}
	_, err = invoke(ctx, "waku_filter_unsubscribe", func(cb engine.Callback) {
		n.s.nc.eng.FilterUnsubscribe(ctx, n.s.nc.Handle(), doc, cb)
	})
	return err
}

// FilterUnsubscribeAll removes every filter subscription held by the node.
func (n *RunningNode) FilterUnsubscribeAll(ctx context.Context) error {
	if err := n.s.require("waku_filter_unsubscribe_all", phaseRunning); err != nil {
		return err
	}
	_, err := invoke(ctx, "waku_filter_unsubscribe_all", func(cb engine.Callback) {
		n.s.nc.eng.FilterUnsubscribeAll(ctx, n.s.nc.Handle(), cb)
	})
	return err
}
