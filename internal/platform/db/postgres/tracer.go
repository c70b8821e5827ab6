package postgres

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/ogurasousui/hr-onboarding/internal/platform/db/postgres"

// QueryTracer は pgx のクエリごとにスパンを記録します。
type QueryTracer struct {
	provider trace.TracerProvider
}

// NewQueryTracer は QueryTracer を生成します。provider が nil の場合はグローバルプロバイダーを使います。
func NewQueryTracer(provider trace.TracerProvider) *QueryTracer {
	return &QueryTracer{provider: provider}
}

func (t *QueryTracer) tracer() trace.Tracer {
	if t.provider != nil {
		return t.provider.Tracer(tracerName)
	}
	return otel.Tracer(tracerName)
}

// TraceQueryStart はクエリ開始時にスパンを開始します。
func (t *QueryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	ctx, _ = t.tracer().Start(ctx, spanName(data.SQL),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "postgresql"),
			attribute.String("db.statement", data.SQL),
		),
	)
	return ctx
}

// TraceQueryEnd はクエリ終了時にスパンを閉じます。
func (t *QueryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	span := trace.SpanFromContext(ctx)
	defer span.End()

	if data.Err != nil {
		span.RecordError(data.Err)
		span.SetStatus(codes.Error, data.Err.Error())
		return
	}
	span.SetAttributes(attribute.Int64("db.rows_affected", data.CommandTag.RowsAffected()))
}

// spanName は SQL の先頭キーワードからスパン名を作ります。
func spanName(sql string) string {
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return "postgres"
	}
	return "postgres " + strings.ToUpper(fields[0])
}
