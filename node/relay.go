package node

import (
	"context"
	"encoding/json"
	"time"

	"github.com/meshbind/waku-go/engine"
	"github.com/meshbind/waku-go/errors"
	"github.com/meshbind/waku-go/message"
)

// requireRelay gates relay-dependent operations on the instantiation
// config. The check runs before any engine contact.
func (n *RunningNode) requireRelay() error {
	if !n.s.cfg.relayEnabled() {
		return errors.RelayDisabled()
	}
	return nil
}

// RelayPublish publishes a message on a pubsub topic through relay and
// returns the message hash. Requires relay enabled in the node config.
func (n *RunningNode) RelayPublish(ctx context.Context, msg *message.Message, pubsubTopic message.PubsubTopic, timeout time.Duration) (message.Hash, error) {
	if err := n.s.require("waku_relay_publish", phaseRunning); err != nil {
		return "", err
	}
	if err := n.requireRelay(); err != nil {
		return "", err
	}

	doc, err := json.Marshal(msg)
	if err != nil {
		return "", errors.New(errors.PhaseInvoke, errors.KindInvalidData).
			Op("waku_relay_publish").Detail("marshal message").Cause(err).Build()
	}

	payload, err := invoke(ctx, "waku_relay_publish", func(cb engine.Callback) {
		n.s.nc.eng.RelayPublish(ctx, n.s.nc.Handle(), pubsubTopic.String(), string(doc), timeoutMillis(timeout), cb)
	})
	if err != nil {
		return "", err
	}
	return message.Hash(payload), nil
}

// RelaySubscribe subscribes to a pubsub topic. Requires relay enabled in
// the node config.
func (n *RunningNode) RelaySubscribe(ctx context.Context, pubsubTopic message.PubsubTopic) error {
	if err := n.s.require("waku_relay_subscribe", phaseRunning); err != nil {
		return err
	}
	if err := n.requireRelay(); err != nil {
		return err
	}
	_, err := invoke(ctx, "waku_relay_subscribe", func(cb engine.Callback) {
		n.s.nc.eng.RelaySubscribe(ctx, n.s.nc.Handle(), pubsubTopic.String(), cb)
	})
	return err
}

// RelayUnsubscribe stops receiving messages for a pubsub topic. Requires
// relay enabled in the node config.
func (n *RunningNode) RelayUnsubscribe(ctx context.Context, pubsubTopic message.PubsubTopic) error {
	if err := n.s.require("waku_relay_unsubscribe", phaseRunning); err != nil {
		return err
	}
	if err := n.requireRelay(); err != nil {
		return err
	}
	_, err := invoke(ctx, "waku_relay_unsubscribe", func(cb engine.Callback) {
		n.s.nc.eng.RelayUnsubscribe(ctx, n.s.nc.Handle(), pubsubTopic.String(), cb)
	})
	return err
}
