package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseConfig    Phase = "config"    // config document handling
	PhaseInvoke    Phase = "invoke"    // single-shot engine calls
	PhaseLifecycle Phase = "lifecycle" // node state transitions
	PhaseEvent     Phase = "event"     // event callback registration
	PhaseStore     Phase = "store"     // paged store queries
	PhaseDecode    Phase = "decode"    // engine payload decoding
)

// Kind categorizes the error
type Kind string

const (
	KindEngineFailure   Kind = "engine_failure"   // engine reported a failure message
	KindMissingCallback Kind = "missing_callback" // engine never invoked the callback
	KindRelayDisabled   Kind = "relay_disabled"   // relay op without relay enabled
	KindStateViolation  Kind = "state_violation"  // op invalid in the current phase
	KindInvalidConfig   Kind = "invalid_config"   // config document cannot be built
	KindInvalidData     Kind = "invalid_data"     // malformed engine payload
	KindNoHandle        Kind = "no_handle"        // engine returned no node handle
	KindRegistration    Kind = "registration"     // persistent callback registration failed
)

// Error is the structured error type used throughout the binding
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Op     string // engine entry point, e.g. "waku_start"
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Op != "" {
		b.WriteString(" at ")
		b.WriteString(e.Op)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Op sets the engine entry point name
func (b *Builder) Op(op string) *Builder {
	b.err.Op = op
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// EngineFailure wraps a failure message reported by the engine for op.
// The message is surfaced verbatim.
func EngineFailure(op, msg string) *Error {
	return &Error{
		Phase:  PhaseInvoke,
		Kind:   KindEngineFailure,
		Op:     op,
		Detail: msg,
	}
}

// MissingCallback reports that the engine returned control without ever
// invoking the callback for op. There is no recovery from this condition;
// the in-flight operation is aborted.
func MissingCallback(op string) *Error {
	return &Error{
		Phase:  PhaseInvoke,
		Kind:   KindMissingCallback,
		Op:     op,
		Detail: "engine invoked no callback",
	}
}

// RelayDisabled reports a relay-dependent operation on a node whose config
// did not enable relay. The engine is never contacted.
func RelayDisabled() *Error {
	return &Error{
		Phase:  PhaseConfig,
		Kind:   KindRelayDisabled,
		Detail: "relay is disabled; restart the node with relay enabled to use this function",
	}
}

// StateViolation reports an operation attempted outside its valid
// lifecycle phase.
func StateViolation(op, want, got string) *Error {
	return &Error{
		Phase:  PhaseLifecycle,
		Kind:   KindStateViolation,
		Op:     op,
		Detail: fmt.Sprintf("requires %s node, node is %s", want, got),
	}
}

// InvalidConfig reports a config document that cannot be built or parsed
func InvalidConfig(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseConfig,
		Kind:   KindInvalidConfig,
		Detail: detail,
		Cause:  cause,
	}
}

// Decode reports an engine payload that failed to decode for op
func Decode(op string, cause error) *Error {
	return &Error{
		Phase: PhaseDecode,
		Kind:  KindInvalidData,
		Op:    op,
		Cause: cause,
	}
}

// NoHandle reports a successful instantiation callback with no usable
// node handle.
func NoHandle(op string) *Error {
	return &Error{
		Phase:  PhaseInvoke,
		Kind:   KindNoHandle,
		Op:     op,
		Detail: "engine returned no node handle",
	}
}

// Registration reports a failed persistent event-callback registration
func Registration(cause error) *Error {
	return &Error{
		Phase:  PhaseEvent,
		Kind:   KindRegistration,
		Op:     "waku_set_event_callback",
		Detail: "register event callback",
		Cause:  cause,
	}
}
