package otel

import (
	"context"
	"errors"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"strings"
)

const queryNamePrefix = "-- name: "

// PgxCustomTracer opens one client span per query, named after the sqlc query
// when the statement carries its "-- name:" header.
type PgxCustomTracer struct{}

func (p PgxCustomTracer) TraceQueryStart(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	ctx, span := Tracer.Start(ctx, "pgx."+QueryName(data.SQL), trace.WithSpanKind(trace.SpanKindClient))

	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.statement", data.SQL),
		attribute.Int("db.args.count", len(data.Args)),
	)

	return ctx
}

func (p PgxCustomTracer) TraceQueryEnd(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryEndData) {
	span := trace.SpanFromContext(ctx)
	defer span.End()

	// No rows is how a missing ticket or a refused transition shows up.
	if data.Err != nil && !errors.Is(data.Err, pgx.ErrNoRows) {
		span.SetStatus(codes.Error, data.Err.Error())
		span.RecordError(data.Err)
		return
	}

	span.SetStatus(codes.Ok, "")
	span.SetAttributes(
		attribute.Int64("db.rows_affected", data.CommandTag.RowsAffected()),
	)
}

// QueryName extracts the sqlc query name from sql, or "query" when absent.
func QueryName(sql string) string {
	sql = strings.TrimSpace(sql)
	if !strings.HasPrefix(sql, queryNamePrefix) {
		return "query"
	}

	fields := strings.Fields(strings.TrimPrefix(sql, queryNamePrefix))
	if len(fields) == 0 {
		return "query"
	}

	return fields[0]
}
