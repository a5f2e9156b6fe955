// Package errors provides structured error types for the abiguard library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type includes rich context: field path, layout type
// name, export symbol, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseLoad, errors.KindLoadError).
//		Symbol("abiguard_root_header").
//		Detail("header payload truncated").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.SymbolNotFound("abiguard_root_header")
//	err := errors.BudgetExceeded("Command", 40, 24)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
