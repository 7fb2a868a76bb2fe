package horsehttp

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// connSpan wraps the handler invocation in an OpenTelemetry server span.
// With no tracer configured every method is a no-op.
type connSpan struct {
	span trace.Span
}

func startConnSpan(tracer trace.Tracer, method, path, peer string) *connSpan {
	if tracer == nil {
		return nil
	}
	_, span := tracer.Start(
		context.Background(),
		method+" "+path,
		trace.WithSpanKind(trace.SpanKindServer),
	)
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("http.target", path),
		attribute.String("net.peer.addr", peer),
	)
	return &connSpan{span: span}
}

// end records the response status and any handler error, then closes the
// span.
func (s *connSpan) end(status int, err error) {
	if s == nil {
		return
	}
	s.span.SetAttributes(attribute.Int("http.status_code", status))
	switch {
	case err != nil:
		s.span.RecordError(err)
		s.span.SetStatus(codes.Error, err.Error())
	case status >= 400:
		s.span.SetStatus(codes.Error, "HTTP error")
	default:
		s.span.SetStatus(codes.Ok, "")
	}
	s.span.End()
}
