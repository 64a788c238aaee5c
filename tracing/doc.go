// Package tracing wires OpenTelemetry spans around approval callbacks and the
// deferred calls they dispatch. Without Init the global no-op provider is used.
package tracing
