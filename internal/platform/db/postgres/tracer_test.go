package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newRecordingTracer() (*QueryTracer, *tracetest.SpanRecorder) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	return NewQueryTracer(provider), recorder
}

func TestQueryTracer_RecordsSuccessfulQuery(t *testing.T) {
	t.Parallel()

	tracer, recorder := newRecordingTracer()

	ctx := tracer.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{
		SQL: "  insert into candidates (full_name) values ($1)",
	})
	tracer.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{CommandTag: pgconn.NewCommandTag("INSERT 0 1")})

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if got := spans[0].Name(); got != "postgres INSERT" {
		t.Fatalf("unexpected span name %q", got)
	}
	if got := spans[0].Status().Code; got == codes.Error {
		t.Fatalf("expected non-error status, got %v", got)
	}

	var rows int64 = -1
	for _, kv := range spans[0].Attributes() {
		if kv.Key == "db.rows_affected" {
			rows = kv.Value.AsInt64()
		}
	}
	if rows != 1 {
		t.Fatalf("expected rows_affected 1, got %d", rows)
	}
}

func TestQueryTracer_RecordsError(t *testing.T) {
	t.Parallel()

	tracer, recorder := newRecordingTracer()

	ctx := tracer.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: "SELECT generate_employee_id($1, $2)"})
	tracer.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{Err: errors.New("boom")})

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if got := spans[0].Status(); got.Code != codes.Error || got.Description != "boom" {
		t.Fatalf("unexpected status %+v", got)
	}
}

func TestSpanName(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"":                       "postgres",
		"select 1":               "postgres SELECT",
		"\n\tUPDATE t SET a = 1": "postgres UPDATE",
	}
	for sql, want := range cases {
		if got := spanName(sql); got != want {
			t.Errorf("spanName(%q) = %q, want %q", sql, got, want)
		}
	}
}
