package node

import (
	"context"
	"encoding/json"

	"github.com/meshbind/waku-go/engine"
	"github.com/meshbind/waku-go/errors"
)

// wakuNew instantiates a node and wraps the returned handle. The config
// document is serialized exactly once per call and stays valid for the
// whole synchronous portion of the engine invocation.
func wakuNew(ctx context.Context, eng engine.Engine, cfg *Config) (*nodeContext, error) {
	doc, err := cfg.document()
	if err != nil {
		return nil, err
	}

	c := newCompletion("waku_new")
	h := eng.Create(ctx, doc, c.callback())

	env, err := c.wait(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := decode("waku_new", env); err != nil {
		return nil, err
	}
	if h == engine.InvalidHandle {
		return nil, errors.NoHandle("waku_new")
	}
	return newNodeContext(eng, h), nil
}

func wakuDestroy(ctx context.Context, nc *nodeContext) error {
	_, err := invoke(ctx, "waku_destroy", func(cb engine.Callback) {
		nc.eng.Destroy(ctx, nc.Handle(), cb)
	})
	return err
}

func wakuStart(ctx context.Context, nc *nodeContext) error {
	_, err := invoke(ctx, "waku_start", func(cb engine.Callback) {
		nc.eng.Start(ctx, nc.Handle(), cb)
	})
	return err
}

func wakuStop(ctx context.Context, nc *nodeContext) error {
	_, err := invoke(ctx, "waku_stop", func(cb engine.Callback) {
		nc.eng.Stop(ctx, nc.Handle(), cb)
	})
	return err
}

func wakuVersion(ctx context.Context, nc *nodeContext) (string, error) {
	return invoke(ctx, "waku_version", func(cb engine.Callback) {
		nc.eng.Version(ctx, nc.Handle(), cb)
	})
}

func wakuListenAddresses(ctx context.Context, nc *nodeContext) ([]string, error) {
	payload, err := invoke(ctx, "waku_listen_addresses", func(cb engine.Callback) {
		nc.eng.ListenAddresses(ctx, nc.Handle(), cb)
	})
	if err != nil {
		return nil, err
	}

	var addrs []string
	if err := json.Unmarshal([]byte(payload), &addrs); err != nil {
		return nil, errors.Decode("waku_listen_addresses", err)
	}
	return addrs, nil
}
