package middleware

import (
	"context"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	httpTracer             = otel.Tracer("driverfinance/http")
	httpMeter              = otel.Meter("driverfinance/http")
	httpRequestDuration, _ = httpMeter.Float64Histogram("http.server.request.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	httpRequestTotal, _ = httpMeter.Int64Counter("http.server.request.total",
		metric.WithDescription("Total HTTP requests"),
	)
)

const routeKey contextKey = "route"

// matchedRoute is filled in by CaptureRoute. Middleware between Tracing and
// the mux clones the request, so the pattern has to travel by pointer.
type matchedRoute struct {
	pattern string
}

// CaptureRoute wraps the mux and reports the pattern it matched to an outer
// Tracing middleware.
func CaptureRoute(mux http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mux.ServeHTTP(w, r)
		if m, ok := r.Context().Value(routeKey).(*matchedRoute); ok && r.Pattern != "" {
			m.pattern = r.Pattern
		}
	})
}

// Tracing creates a span per request and records duration and count metrics
// labelled by the matched route pattern, so ids in paths do not explode the
// label set. Wrap the mux in CaptureRoute when other middleware sits between
// the two.
func Tracing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := httpTracer.Start(r.Context(), r.Method+" "+r.URL.Path,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.target", r.URL.Path),
			),
		)
		defer span.End()

		start := time.Now()
		wrapped := wrapResponseWriter(w)
		matched := &matchedRoute{}
		inner := r.WithContext(context.WithValue(ctx, routeKey, matched))
		next.ServeHTTP(wrapped, inner)

		route := matched.pattern
		if route == "" {
			route = inner.Pattern
		}
		if route == "" {
			route = "unmatched"
		} else {
			span.SetName(r.Method + " " + route)
		}

		status := wrapped.statusOrOK()
		span.SetAttributes(
			attribute.Int("http.status_code", status),
			attribute.String("http.route", route),
		)
		if status >= 500 {
			span.SetStatus(codes.Error, http.StatusText(status))
		}

		attrs := metric.WithAttributes(
			attribute.String("http.method", r.Method),
			attribute.String("http.route", route),
			attribute.Int("http.status_code", status),
		)
		httpRequestDuration.Record(ctx, time.Since(start).Seconds(), attrs)
		httpRequestTotal.Add(ctx, 1, attrs)
	})
}
