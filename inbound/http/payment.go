package http

import (
	"github.com/go-playground/validator/v10"
	"log/slog"
	"net/http"
	"ru-ticket/common"
	"ru-ticket/common/constant"
	"ru-ticket/common/otel"
	"ru-ticket/model"
	"ru-ticket/service"
)

type PaymentHttp struct {
	Service  *service.TicketService
	Validate *validator.Validate
}

func RegisterPaymentHttp(
	mux *http.ServeMux,
	ticketService *service.TicketService,
	validate *validator.Validate,
) *PaymentHttp {
	in := &PaymentHttp{
		Service:  ticketService,
		Validate: validate,
	}

	mux.HandleFunc("POST /api/payments/reference", in.reference)
	mux.HandleFunc("POST /api/payments/confirm", in.confirm)
	mux.HandleFunc("GET /api/payments/status/{ticketId}", in.status)

	return in
}

func (in PaymentHttp) reference(w http.ResponseWriter, r *http.Request) {
	var req model.TicketRequest
	if err := decodeJSONRequest(w, r, &req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	if err := in.Validate.Struct(req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	ctx, span := otel.Tracer.Start(r.Context(), "PaymentHttp.reference")
	defer span.End()

	resp, err := in.Service.GeneratePaymentReference(ctx, req.TicketId)
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, resp)
}

// confirm is the simulated payment callback: whoever knows the ticket id may
// mark it paid.
func (in PaymentHttp) confirm(w http.ResponseWriter, r *http.Request) {
	var req model.TicketRequest
	if err := decodeJSONRequest(w, r, &req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	if err := in.Validate.Struct(req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	ctx, span := otel.Tracer.Start(r.Context(), "PaymentHttp.confirm")
	defer span.End()

	slog.InfoContext(ctx, "confirm payment receive request", common.ExtractTraceIDFromCtx(ctx),
		slog.String(constant.LogFieldTicketId, req.TicketId))

	if err := in.Service.MarkPaid(ctx, req.TicketId); err != nil {
		writeErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, model.OkResponse{Ok: true})
}

func (in PaymentHttp) status(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "PaymentHttp.status")
	defer span.End()

	writeJSONResponse(w, http.StatusOK, in.Service.GetPaymentStatus(ctx, r.PathValue("ticketId")))
}
