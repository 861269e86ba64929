package node

import (
	"context"
	"sync/atomic"

	"github.com/meshbind/waku-go/engine"
	"github.com/meshbind/waku-go/errors"
)

type phase int32

const (
	phaseInitialized phase = iota
	phaseRunning
	phaseDestroyed
)

func (p phase) String() string {
	switch p {
	case phaseInitialized:
		return "initialized"
	case phaseRunning:
		return "running"
	default:
		return "destroyed"
	}
}

// nodeState is the data shared by both lifecycle wrappers: the node
// context, the config it was instantiated with, and the current phase.
// The phase is re-checked at the top of every gated operation so that a
// wrapper held past its consuming transition fails with a state-violation
// error instead of reaching the engine.
type nodeState struct {
	nc    *nodeContext
	cfg   *Config
	phase atomic.Int32
}

func (s *nodeState) require(op string, want phase) error {
	if got := phase(s.phase.Load()); got != want {
		return errors.StateViolation(op, want.String(), got.String())
	}
	return nil
}

// begin claims the from->to transition atomically, so two racing callers
// cannot both reach the engine. The loser observes the claimed phase.
func (s *nodeState) begin(op string, from, to phase) error {
	if !s.phase.CompareAndSwap(int32(from), int32(to)) {
		return errors.StateViolation(op, from.String(), phase(s.phase.Load()).String())
	}
	return nil
}

// rollback undoes a claimed transition after an engine failure. It is a
// compare-and-swap, not a store, so a Destroy that slipped in during the
// failed call keeps the node destroyed.
func (s *nodeState) rollback(from, to phase) {
	s.phase.CompareAndSwap(int32(from), int32(to))
}

// version works in any phase except destroyed.
func (s *nodeState) version(ctx context.Context) (string, error) {
	if phase(s.phase.Load()) == phaseDestroyed {
		return "", errors.StateViolation("waku_version", "live", phaseDestroyed.String())
	}
	return wakuVersion(ctx, s.nc)
}

// destroy tears the node down from any live phase. The handle is
// invalidated unconditionally, even when the engine reports a failure.
// Only the caller that wins the transition reaches the engine.
func (s *nodeState) destroy(ctx context.Context) error {
	for {
		got := s.phase.Load()
		if phase(got) == phaseDestroyed {
			return errors.StateViolation("waku_destroy", "live", phaseDestroyed.String())
		}
		if s.phase.CompareAndSwap(got, int32(phaseDestroyed)) {
			break
		}
	}
	err := wakuDestroy(ctx, s.nc)
	s.nc.reset()
	return err
}

// InitializedNode is a node whose handle has been obtained and whose
// protocols are configured but not started.
type InitializedNode struct {
	s *nodeState
}

// RunningNode is a started node; protocol operations are available.
type RunningNode struct {
	s *nodeState
}

// New instantiates a node on eng with cfg (DefaultConfig when nil) and
// returns it in the initialized phase.
func New(ctx context.Context, eng engine.Engine, cfg *Config) (*InitializedNode, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	nc, err := wakuNew(ctx, eng, cfg)
	if err != nil {
		return nil, err
	}
	return &InitializedNode{s: &nodeState{nc: nc, cfg: cfg}}, nil
}

// Start mounts all the protocols that were enabled during instantiation
// and moves the node to the running phase, consuming the receiver. On
// failure the receiver stays valid in the initialized phase; no
// engine-side cleanup is attempted and the caller must still call
// Destroy.
func (n *InitializedNode) Start(ctx context.Context) (*RunningNode, error) {
	if err := n.s.begin("waku_start", phaseInitialized, phaseRunning); err != nil {
		return nil, err
	}
	if err := wakuStart(ctx, n.s.nc); err != nil {
		n.s.rollback(phaseRunning, phaseInitialized)
		return nil, err
	}
	return &RunningNode{s: n.s}, nil
}

// Version reports the engine version. Available in any lifecycle phase.
func (n *InitializedNode) Version(ctx context.Context) (string, error) {
	return n.s.version(ctx)
}

// Destroy tears the node down and invalidates its handle.
func (n *InitializedNode) Destroy(ctx context.Context) error {
	return n.s.destroy(ctx)
}

// Stop halts the node's protocols and moves it back to the initialized
// phase, consuming the receiver. The node can be started again without
// re-instantiating it.
func (n *RunningNode) Stop(ctx context.Context) (*InitializedNode, error) {
	if err := n.s.begin("waku_stop", phaseRunning, phaseInitialized); err != nil {
		return nil, err
	}
	if err := wakuStop(ctx, n.s.nc); err != nil {
		n.s.rollback(phaseInitialized, phaseRunning)
		return nil, err
	}
	return &InitializedNode{s: n.s}, nil
}

// Version reports the engine version. Available in any lifecycle phase.
func (n *RunningNode) Version(ctx context.Context) (string, error) {
	return n.s.version(ctx)
}

// Destroy tears the node down and invalidates its handle.
func (n *RunningNode) Destroy(ctx context.Context) error {
	return n.s.destroy(ctx)
}

// ListenAddresses reports the multiaddresses the node is listening on.
func (n *RunningNode) ListenAddresses(ctx context.Context) ([]string, error) {
	if err := n.s.require("waku_listen_addresses", phaseRunning); err != nil {
		return nil, err
	}
	return wakuListenAddresses(ctx, n.s.nc)
}
