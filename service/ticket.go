package service

import (
	"context"
	"errors"
	"log/slog"
	"ru-ticket/common"
	"ru-ticket/common/constant"
	"ru-ticket/common/contract"
	"ru-ticket/common/errs"
	"ru-ticket/common/jetstream"
	"ru-ticket/common/otel"
	"ru-ticket/eligibility"
	"ru-ticket/model"
	"ru-ticket/outbound/pix"
	"strings"
	"time"
)

// TicketService owns the ticket lifecycle: created, paid, validated. Lifecycle
// events are published after the store commits and never undo a transition.
type TicketService struct {
	Tickets   contract.TicketStore
	Extras    contract.ExtrasStore
	Payments  *pix.Generator
	Publisher jetstream.Publisher

	TimeNow func() time.Time
}

func NewTicketService(
	tickets contract.TicketStore,
	extras contract.ExtrasStore,
	payments *pix.Generator,
	publisher jetstream.Publisher,
) *TicketService {
	return &TicketService{
		Tickets:   tickets,
		Extras:    extras,
		Payments:  payments,
		Publisher: publisher,
		TimeNow:   time.Now,
	}
}

func (s *TicketService) CreateTicket(ctx context.Context, req model.CreateTicketRequest) (string, error) {
	ctx, span := otel.Tracer.Start(ctx, "TicketService.CreateTicket")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)

	name := strings.TrimSpace(req.Name)
	category := strings.TrimSpace(req.Category)

	fields := make(map[string]string)
	if name == "" {
		fields["name"] = "required"
	}
	if category == "" {
		fields["category"] = "required"
	} else if _, ok := eligibility.LookupCategory(category); !ok {
		fields["category"] = "unknown"
	}

	var price model.Money
	if req.Price != nil {
		price = *req.Price
	}
	if price < 0 {
		fields["price"] = "min"
	}

	if len(fields) > 0 {
		slog.DebugContext(ctx, "create ticket rejected", traceIdAttr, slog.Any(constant.LogFieldPayload, fields))
		return "", &errs.InvalidInput{Fields: fields}
	}

	id, err := s.Tickets.Create(ctx, model.Ticket{
		HolderName: name,
		Category:   category,
		Price:      price,
		Priority:   strings.TrimSpace(req.Priority),
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to create ticket", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		common.UtilSpanError(span, err)
		return "", err
	}

	ticketIdAttr := slog.String(constant.LogFieldTicketId, id)

	extras := model.TicketExtras{Restaurant: req.Restaurant, Meal: req.Meal, Photo: req.Photo}
	if !extras.IsZero() {
		extras.Amount = &price
		if err = s.Extras.Put(ctx, id, extras); err != nil {
			slog.WarnContext(ctx, "failed to attach extras on create", traceIdAttr, ticketIdAttr, slog.Any(constant.LogFieldErr, err))
		}
	}

	s.publish(ctx, constant.SubjectTicketCreated, model.TicketEventMessage{
		TicketId:   id,
		HolderName: name,
		Category:   category,
		Price:      price,
		Restaurant: req.Restaurant,
		Meal:       req.Meal,
	})

	slog.InfoContext(ctx, "ticket created", traceIdAttr, ticketIdAttr)

	return id, nil
}

func (s *TicketService) AttachExtras(ctx context.Context, ticketId string, extras model.TicketExtras) error {
	ctx, span := otel.Tracer.Start(ctx, "TicketService.AttachExtras")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)

	if _, err := s.Tickets.Get(ctx, ticketId); err != nil {
		common.UtilSpanError(span, err)
		return err
	}

	if err := s.Extras.Put(ctx, ticketId, extras); err != nil {
		slog.ErrorContext(ctx, "failed to attach extras", traceIdAttr, slog.String(constant.LogFieldTicketId, ticketId), slog.Any(constant.LogFieldErr, err))
		common.UtilSpanError(span, err)
		return err
	}

	return nil
}

// GeneratePaymentReference always charges the generator's nominal amount. The
// ticket price is only echoed back for display.
func (s *TicketService) GeneratePaymentReference(ctx context.Context, ticketId string) (model.PaymentReferenceResponse, error) {
	ctx, span := otel.Tracer.Start(ctx, "TicketService.GeneratePaymentReference")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)

	ticket, err := s.Tickets.Get(ctx, ticketId)
	if err != nil {
		common.UtilSpanError(span, err)
		return model.PaymentReferenceResponse{}, err
	}

	ref, err := s.Payments.Reference(ticket.ID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to build payment reference", traceIdAttr, slog.String(constant.LogFieldTicketId, ticketId), slog.Any(constant.LogFieldErr, err))
		common.UtilSpanError(span, err)
		return model.PaymentReferenceResponse{}, err
	}

	return model.PaymentReferenceResponse{
		Payload:       ref.Payload,
		Amount:        ref.Amount,
		ReceiverKey:   ref.ReceiverKey,
		TransactionId: ref.TransactionId,
		TicketPrice:   ticket.Price,
	}, nil
}

func (s *TicketService) MarkPaid(ctx context.Context, ticketId string) error {
	ctx, span := otel.Tracer.Start(ctx, "TicketService.MarkPaid")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)
	ticketIdAttr := slog.String(constant.LogFieldTicketId, ticketId)

	changed, err := s.Tickets.MarkPaid(ctx, ticketId)
	if err != nil {
		if !errors.Is(err, errs.ErrNotFound) {
			slog.ErrorContext(ctx, "failed to mark ticket paid", traceIdAttr, ticketIdAttr, slog.Any(constant.LogFieldErr, err))
		}
		common.UtilSpanError(span, err)
		return err
	}

	if !changed {
		slog.DebugContext(ctx, "ticket already paid", traceIdAttr, ticketIdAttr)
		return nil
	}

	s.publish(ctx, constant.SubjectTicketPaid, model.TicketEventMessage{TicketId: ticketId})

	slog.InfoContext(ctx, "ticket paid", traceIdAttr, ticketIdAttr)

	return nil
}

// GetPaymentStatus never fails: unknown tickets and store faults read as
// unpaid so pollers simply try again.
func (s *TicketService) GetPaymentStatus(ctx context.Context, ticketId string) model.PaymentStatusResponse {
	ctx, span := otel.Tracer.Start(ctx, "TicketService.GetPaymentStatus")
	defer span.End()

	ticket, err := s.Tickets.Get(ctx, ticketId)
	if err != nil {
		if !errors.Is(err, errs.ErrNotFound) {
			slog.WarnContext(ctx, "failed to read payment status", common.ExtractTraceIDFromCtx(ctx),
				slog.String(constant.LogFieldTicketId, ticketId), slog.Any(constant.LogFieldErr, err))
			common.UtilSpanError(span, err)
		}
		return model.PaymentStatusResponse{Paid: false}
	}

	return model.PaymentStatusResponse{Paid: ticket.Paid}
}

// Validate redeems a ticket id or an SQRU| redemption code exactly once.
func (s *TicketService) Validate(ctx context.Context, code string) model.ValidateResponse {
	ctx, span := otel.Tracer.Start(ctx, "TicketService.Validate")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)

	ticketId := ParseRedemptionCode(code)
	if ticketId == "" {
		return outcome(constant.OutcomeMissingTicket)
	}

	ticketIdAttr := slog.String(constant.LogFieldTicketId, ticketId)

	ticket, err := s.Tickets.Get(ctx, ticketId)
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return outcome(constant.OutcomeNotFound)
	case err != nil:
		slog.ErrorContext(ctx, "failed to read ticket for validation", traceIdAttr, ticketIdAttr, slog.Any(constant.LogFieldErr, err))
		common.UtilSpanError(span, err)
		return outcome(constant.OutcomeServerError)
	case !ticket.Paid:
		return outcome(constant.OutcomePaymentPending)
	case ticket.Validated:
		return outcome(constant.OutcomeAlreadyUsed)
	}

	ticket, err = s.Tickets.MarkValidated(ctx, ticketId)
	switch {
	case errors.Is(err, errs.ErrAlreadyValidated):
		return outcome(constant.OutcomeAlreadyUsed)
	case errors.Is(err, errs.ErrPaymentPending):
		return outcome(constant.OutcomePaymentPending)
	case errors.Is(err, errs.ErrNotFound):
		return outcome(constant.OutcomeNotFound)
	case err != nil:
		slog.ErrorContext(ctx, "failed to validate ticket", traceIdAttr, ticketIdAttr, slog.Any(constant.LogFieldErr, err))
		common.UtilSpanError(span, err)
		return outcome(constant.OutcomeServerError)
	}

	resp := outcome(constant.OutcomeAccepted)
	resp.Name = ticket.HolderName
	resp.Category = ticket.Category

	extras, found, err := s.Extras.Get(ctx, ticketId)
	if err != nil {
		slog.WarnContext(ctx, "failed to read extras for validated ticket", traceIdAttr, ticketIdAttr, slog.Any(constant.LogFieldErr, err))
	}
	if found {
		resp.Restaurant = optional(extras.Restaurant)
		resp.Meal = optional(extras.Meal)
		resp.Amount = extras.Amount
		resp.Photo = optional(extras.Photo)
	}

	s.publish(ctx, constant.SubjectTicketValidated, model.TicketEventMessage{
		TicketId:   ticketId,
		HolderName: ticket.HolderName,
		Category:   ticket.Category,
		Price:      ticket.Price,
		Restaurant: extras.Restaurant,
		Meal:       extras.Meal,
	})

	slog.InfoContext(ctx, "ticket validated", traceIdAttr, ticketIdAttr)

	return resp
}

func (s *TicketService) publish(ctx context.Context, subject string, msg model.TicketEventMessage) {
	msg.Type = constant.EventTypeBySubject[subject]
	msg.OccurredAt = s.now().Format(time.RFC3339)

	if err := common.PublishMessage(ctx, s.Publisher, subject, msg); err != nil {
		slog.WarnContext(ctx, "ticket event not published", common.ExtractTraceIDFromCtx(ctx),
			slog.String(constant.LogFieldTicketId, msg.TicketId), slog.String("subject", subject))
	}
}

func (s *TicketService) now() time.Time {
	if s.TimeNow == nil {
		return time.Now()
	}
	return s.TimeNow()
}

// ParseRedemptionCode accepts a bare ticket id or SQRU|<id>.
func ParseRedemptionCode(code string) string {
	code = strings.TrimSpace(code)
	code = strings.TrimPrefix(code, constant.RedemptionCodePrefix)
	return strings.TrimSpace(code)
}

func RedemptionCode(ticketId string) string {
	return constant.RedemptionCodePrefix + ticketId
}

func outcome(code string) model.ValidateResponse {
	return model.ValidateResponse{
		Ok:     code == constant.OutcomeAccepted,
		Code:   code,
		Reason: constant.OutcomeReason[code],
	}
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
