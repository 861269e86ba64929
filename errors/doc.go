// Package errors provides structured error types for the waku-go binding.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type carries the engine operation name, a detail
// message and an optional cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseInvoke, errors.KindEngineFailure).
//		Op("waku_connect").
//		Detail("dial failed: %s", reason).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.EngineFailure("waku_start", msg)
//	err := errors.RelayDisabled()
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
