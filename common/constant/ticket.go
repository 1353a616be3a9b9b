package constant

const (
	TicketIdPrefix       = "TCK-"
	RedemptionCodePrefix = "SQRU|"
	DefaultPriority      = "none"
)

// Validation outcome codes returned by POST /api/tickets/validate.
const (
	OutcomeAccepted       = "accepted"
	OutcomeNotFound       = "not_found"
	OutcomePaymentPending = "payment_pending"
	OutcomeAlreadyUsed    = "already_used"
	OutcomeMissingTicket  = "missing_ticket"
	OutcomeServerError    = "server_error"
)

var OutcomeReason = map[string]string{
	OutcomeAccepted:       "Entrada liberada!",
	OutcomeNotFound:       "Ticket inexistente.",
	OutcomePaymentPending: "Pagamento pendente!",
	OutcomeAlreadyUsed:    "QR-CODE já utilizado!",
	OutcomeMissingTicket:  "Ticket não enviado.",
	OutcomeServerError:    "Erro no servidor.",
}
