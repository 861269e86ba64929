package node

import (
	"context"
	"encoding/json"

	"github.com/meshbind/waku-go/engine"
	"github.com/meshbind/waku-go/errors"
	"github.com/meshbind/waku-go/message"
)

// LightpushPublish publishes a message through a light-push peer and
// returns the message hash. Unlike relay publishing it does not require
// relay to be enabled locally.
func (n *RunningNode) LightpushPublish(ctx context.Context, msg *message.Message, pubsubTopic message.PubsubTopic) (message.Hash, error) {
	if err := n.s.require("waku_lightpush_publish", phaseRunning); err != nil {
		return "", err
	}

	doc, err := json.Marshal(msg)
	if err != nil {
		return "", errors.New(errors.PhaseInvoke, errors.KindInvalidData).
			Op("waku_lightpush_publish").Detail("marshal message").Cause(err).Build()
	}

	payload, err := invoke(ctx, "waku_lightpush_publish", func(cb engine.Callback) {
		n.s.nc.eng.LightpushPublish(ctx, n.s.nc.Handle(), pubsubTopic.String(), string(doc), cb)
	})
	if err != nil {
		return "", err
	}
	return message.Hash(payload), nil
}
