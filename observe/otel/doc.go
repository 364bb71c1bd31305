// Package otel provides an OpenTelemetry observer plugin for the
// steplocal library. It emits span events (scope start, step,
// completion) with low overhead.
package otel
