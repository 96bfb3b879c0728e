package observability

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// GetTracer returns a tracer from the global provider. Without an SDK
// installed by the host process this is a no-op tracer, so instrumented
// code pays nothing.
func GetTracer(name string) trace.Tracer {
	return otel.Tracer(name)
}
