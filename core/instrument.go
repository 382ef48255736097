package core

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/kndndrj/mysql-fdw"

func tracer() trace.Tracer {
	return otel.GetTracerProvider().Tracer(instrumentationName)
}

// startSpan starts a span for a blocking remote operation.
func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer().Start(ctx, name, trace.WithAttributes(attrs...))
}

// endSpan records err on the span (if any) and ends it.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
	}
	span.End()
}

// scanMetrics holds the counters shared by the scan components. Counters
// that fail to register are left nil and skipped.
type scanMetrics struct {
	rowsFetched    metric.Int64Counter
	nulledValues   metric.Int64Counter
	droppedSkipped metric.Int64Counter
	remoteQueries  metric.Int64Counter
}

func newScanMetrics() *scanMetrics {
	meter := otel.GetMeterProvider().Meter(instrumentationName)
	m := &scanMetrics{}

	m.rowsFetched, _ = meter.Int64Counter("mysql_fdw_rows_fetched",
		metric.WithDescription("The total number of rows fetched from remote result sets"))
	m.nulledValues, _ = meter.Int64Counter("mysql_fdw_encoding_errors",
		metric.WithDescription("The total number of values stored as NULL because of invalid byte sequences"))
	m.droppedSkipped, _ = meter.Int64Counter("mysql_fdw_dropped_attributes",
		metric.WithDescription("The total number of dropped attributes materialized as NULL"))
	m.remoteQueries, _ = meter.Int64Counter("mysql_fdw_remote_queries",
		metric.WithDescription("The total number of queries sent to remote servers"))

	return m
}

func (m *scanMetrics) add(counter metric.Int64Counter, n int64, attrs ...attribute.KeyValue) {
	if m == nil || counter == nil {
		return
	}
	counter.Add(context.Background(), n, metric.WithAttributes(attrs...))
}

func (m *scanMetrics) rowFetched() {
	m.add(m.rowsFetched, 1)
}

func (m *scanMetrics) encodingErrors(encoding string) {
	m.add(m.nulledValues, 1, attribute.String("encoding", encoding))
}

func (m *scanMetrics) droppedAttribute() {
	m.add(m.droppedSkipped, 1)
}

func (m *scanMetrics) remoteQuery(kind string) {
	m.add(m.remoteQueries, 1, attribute.String("kind", kind))
}
