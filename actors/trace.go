package actors

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/super-flat/actornode/actors"

func getSpanContext(ctx context.Context, methodName string, addr Address) (context.Context, trace.Span) {
	// Create a span
	tracer := otel.GetTracerProvider()
	spanCtx, span := tracer.Tracer(tracerName).Start(ctx, methodName,
		trace.WithAttributes(attribute.String("actor.address", string(addr))),
	)
	return spanCtx, span
}
