// Package errors provides structured error types for the owned module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the slot path, the operation being executed, the
// offending value and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseExecute, errors.KindNotFound).
//		Path("q").
//		Op("move").
//		Detail("no handle named %q", "q").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.NotFound(errors.PhaseExecute, "slot", "q")
//	err := errors.Closed(errors.PhaseTable, "resource table")
//
// The owned.Ptr type itself never returns errors; these are used by the
// handle table, the scenario interpreter and the engine.
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
