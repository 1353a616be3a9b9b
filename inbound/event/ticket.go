package event

import (
	"context"
	"encoding/json"
	"github.com/oklog/ulid/v2"
	"log/slog"
	"ru-ticket/common"
	"ru-ticket/common/constant"
	"ru-ticket/common/otel"
	"ru-ticket/model"
	"ru-ticket/outbound/querier"
	"time"
)

// TicketEvent appends lifecycle events to the ticket_events audit table.
type TicketEvent struct {
	Querier *querier.Queries
	Timeout time.Duration
}

func (in TicketEvent) RecordHandler(ctx context.Context, subject string, msg []byte) error {
	ctx, cancel := context.WithTimeout(ctx, in.Timeout)
	defer cancel()

	var req model.TicketEventMessage
	err := json.Unmarshal(msg, &req)
	if err != nil {
		slog.WarnContext(ctx, "ticket event unmarshal error", slog.Any(constant.LogFieldErr, err), slog.String("subject", subject))
		return nil
	}

	ctx, span := otel.Tracer.Start(ctx, "TicketEvent.RecordHandler")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)
	ticketIdAttr := slog.String(constant.LogFieldTicketId, req.TicketId)

	if req.TicketId == "" {
		slog.WarnContext(ctx, "ticket event without ticket id", traceIdAttr, slog.Any(constant.LogFieldPayload, string(msg)))
		return nil
	}

	eventType := req.Type
	if eventType == "" {
		eventType = constant.EventTypeBySubject[subject]
	}

	err = in.Querier.InsertTicketEvent(ctx, querier.InsertTicketEventParams{
		ID:       ulid.Make().String(),
		TicketID: req.TicketId,
		Type:     eventType,
		Payload:  msg,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to record ticket event", traceIdAttr, ticketIdAttr, slog.Any(constant.LogFieldErr, err))
		common.UtilSpanError(span, err)
		return err
	}

	slog.DebugContext(ctx, "ticket event recorded", traceIdAttr, ticketIdAttr, slog.String("type", eventType))

	return nil
}
