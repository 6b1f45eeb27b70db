// Package observe provides structured logging and OpenTelemetry metrics
// for guarded operations.
//
// It is a pure instrumentation library: no execution, no transport. The
// hook constructors produce the plain callbacks the resilience and queue
// configs accept, so those packages stay free of telemetry imports.
package observe
