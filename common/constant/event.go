package constant

const (
	QueueStreamName = "ru_ticket_queue_stream"
)

const (
	AllWildcard    = "events.>"
	TicketWildcard = "events.ticket.>"

	SubjectTicketCreated   = "events.ticket.created"
	SubjectTicketPaid      = "events.ticket.paid"
	SubjectTicketValidated = "events.ticket.validated"
)

// Ticket event types recorded in ticket_events.
const (
	EventTicketCreated   = "ticket.created"
	EventTicketPaid      = "ticket.paid"
	EventTicketValidated = "ticket.validated"
)

var EventTypeBySubject = map[string]string{
	SubjectTicketCreated:   EventTicketCreated,
	SubjectTicketPaid:      EventTicketPaid,
	SubjectTicketValidated: EventTicketValidated,
}
