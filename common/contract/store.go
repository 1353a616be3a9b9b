package contract

import (
	"context"
	"ru-ticket/model"
)

// TicketStore persists ticket records. Business rejections are reported with
// the errs sentinels, infrastructure failures as *errs.StorageError.
type TicketStore interface {
	Create(ctx context.Context, ticket model.Ticket) (string, error)
	Get(ctx context.Context, id string) (model.Ticket, error)
	// MarkPaid reports whether the call moved the ticket from unpaid to paid.
	MarkPaid(ctx context.Context, id string) (bool, error)
	// MarkValidated atomically flips a paid, unvalidated ticket to validated.
	MarkValidated(ctx context.Context, id string) (model.Ticket, error)
}

// ExtrasStore keeps best-effort display data per ticket. A missing record is
// reported as found == false, never as an error.
type ExtrasStore interface {
	Put(ctx context.Context, ticketId string, extras model.TicketExtras) error
	Get(ctx context.Context, ticketId string) (model.TicketExtras, bool, error)
}
