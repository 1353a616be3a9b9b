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

type TicketHttp struct {
	Service  *service.TicketService
	Validate *validator.Validate
}

func RegisterTicketHttp(
	mux *http.ServeMux,
	ticketService *service.TicketService,
	validate *validator.Validate,
) *TicketHttp {
	in := &TicketHttp{
		Service:  ticketService,
		Validate: validate,
	}

	mux.HandleFunc("POST /api/tickets", in.create)
	mux.HandleFunc("POST /api/tickets/extras", in.attachExtras)
	mux.HandleFunc("POST /api/tickets/validate", in.validate)

	return in
}

func (in TicketHttp) create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateTicketRequest
	if err := decodeJSONRequest(w, r, &req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	if err := in.Validate.Struct(req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	ctx, span := otel.Tracer.Start(r.Context(), "TicketHttp.create")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)
	slog.InfoContext(ctx, "create ticket receive request", traceIdAttr,
		slog.String("category", req.Category), slog.String("restaurant", req.Restaurant), slog.String("meal", req.Meal))

	id, err := in.Service.CreateTicket(ctx, req)
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, model.CreateTicketResponse{TicketId: id})
}

func (in TicketHttp) attachExtras(w http.ResponseWriter, r *http.Request) {
	var req model.AttachExtrasRequest
	if err := decodeJSONRequest(w, r, &req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	if err := in.Validate.Struct(req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	ctx, span := otel.Tracer.Start(r.Context(), "TicketHttp.attachExtras")
	defer span.End()

	err := in.Service.AttachExtras(ctx, req.TicketId, model.TicketExtras{
		Restaurant: req.Restaurant,
		Meal:       req.Meal,
		Amount:     req.Amount,
		Photo:      req.Photo,
	})
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, model.OkResponse{Ok: true})
}

// validate always answers 200; the outcome code carries the decision.
func (in TicketHttp) validate(w http.ResponseWriter, r *http.Request) {
	var req model.ValidateRequest
	if err := decodeJSONRequest(w, r, &req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	ctx, span := otel.Tracer.Start(r.Context(), "TicketHttp.validate")
	defer span.End()

	resp := in.Service.Validate(ctx, req.TicketId)

	slog.InfoContext(ctx, "validate ticket", common.ExtractTraceIDFromCtx(ctx),
		slog.String(constant.LogFieldTicketId, req.TicketId), slog.String("code", resp.Code))

	writeJSONResponse(w, http.StatusOK, resp)
}
