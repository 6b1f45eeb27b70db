// Package fault provides the structured error model shared by all sturdy
// packages.
//
// Errors are plain values built by category-specific constructors rather
// than a type hierarchy. Every fault carries a machine-readable code, a
// severity, a category, a retryability flag, a unique identifier, and an
// optional cause forming an acyclic chain. Faults are immutable once
// constructed.
//
// # Construction
//
// Each constructor fixes sensible defaults for its category, overridable
// with functional options:
//
//	err := fault.Network("connect to upstream",
//	    fault.WithCode("UPSTREAM_UNREACHABLE"),
//	    fault.WithContext("host", host),
//	    fault.WithCause(dialErr),
//	)
//
// # Chains
//
// A fault wraps at most one cause. Chain walks from the outermost wrapper
// to the root cause; the chain interoperates with errors.Is and errors.As
// through Unwrap.
//
//	for _, e := range err.Chain() { ... }
//	root := err.RootCause()
//
// # Retryability
//
// IsRetryable reports whether an error may be retried. The first fault in
// the chain decides; errors outside the taxonomy default to retryable so
// that only an explicit verdict stops a retry loop.
//
// # Serialization
//
// Report produces the full internal representation including the cause
// chain and call stack. Public strips the stack and cause so the value is
// safe to return across a trust boundary.
//
// # Dispatch and recovery
//
// HandlerRegistry fans an error out to named handlers, RecoveryRegistry
// maps error codes to recovery strategies, and Protect converts an
// unhandled failure into a fallback value at the outermost edge of an
// application. All three are explicit objects meant to be injected, not
// ambient globals.
package fault
