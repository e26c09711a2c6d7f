// Package observe instruments a CLOCK cache with OpenTelemetry metrics.
//
// It is a pure instrumentation layer: no exporters are configured here.
// Callers supply a [metric.Meter] from whatever provider they run.
package observe
