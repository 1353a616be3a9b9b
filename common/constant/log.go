package constant

const (
	LogFieldErr      = "error"
	LogFieldPayload  = "payload"
	LogFieldResponse = "response"
	LogFieldTraceId  = "trace_id"
	LogFieldTicketId = "ticket_id"
)
