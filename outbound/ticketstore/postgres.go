package ticketstore

import (
	"context"
	"errors"
	"github.com/jackc/pgx/v5"
	"ru-ticket/common/constant"
	"ru-ticket/common/errs"
	"ru-ticket/model"
	"ru-ticket/outbound/querier"
	"time"
)

type Postgres struct {
	Querier *querier.Queries
	Timeout time.Duration
}

func NewPostgres(db querier.DBTX, timeout time.Duration) *Postgres {
	return &Postgres{Querier: querier.New(db), Timeout: timeout}
}

func (s *Postgres) Create(ctx context.Context, ticket model.Ticket) (string, error) {
	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()

	ticket = prepare(ticket)

	err := s.Querier.CreateTicket(ctx, querier.CreateTicketParams{
		ID:         ticket.ID,
		HolderName: ticket.HolderName,
		Category:   ticket.Category,
		PriceCents: int64(ticket.Price),
		Priority:   ticket.Priority,
	})
	if err != nil {
		return "", errs.NewStorageError("create ticket", err)
	}

	return ticket.ID, nil
}

func (s *Postgres) Get(ctx context.Context, id string) (model.Ticket, error) {
	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()

	return s.get(ctx, id)
}

func (s *Postgres) get(ctx context.Context, id string) (model.Ticket, error) {
	row, err := s.Querier.FindTicketById(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Ticket{}, errs.ErrNotFound
	}
	if err != nil {
		return model.Ticket{}, errs.NewStorageError("find ticket", err)
	}

	return toModel(row), nil
}

func (s *Postgres) MarkPaid(ctx context.Context, id string) (bool, error) {
	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()

	affected, err := s.Querier.MarkTicketPaid(ctx, id)
	if err != nil {
		return false, errs.NewStorageError("mark ticket paid", err)
	}

	if affected > 0 {
		return true, nil
	}

	// Either unknown or already paid.
	if _, err = s.get(ctx, id); err != nil {
		return false, err
	}

	return false, nil
}

func (s *Postgres) MarkValidated(ctx context.Context, id string) (model.Ticket, error) {
	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()

	row, err := s.Querier.MarkTicketValidated(ctx, id)
	if err == nil {
		return toModel(row), nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		return model.Ticket{}, errs.NewStorageError("mark ticket validated", err)
	}

	ticket, err := s.get(ctx, id)
	if err != nil {
		return model.Ticket{}, err
	}

	if !ticket.Paid {
		return model.Ticket{}, errs.ErrPaymentPending
	}

	return model.Ticket{}, errs.ErrAlreadyValidated
}

func toModel(row querier.Ticket) model.Ticket {
	return model.Ticket{
		ID:         row.ID,
		HolderName: row.HolderName,
		Category:   row.Category,
		Price:      model.Money(row.PriceCents),
		Priority:   row.Priority,
		Paid:       row.Paid,
		Validated:  row.Validated,
	}
}

func prepare(ticket model.Ticket) model.Ticket {
	if ticket.ID == "" {
		ticket.ID = NewTicketId()
	}
	if ticket.Priority == "" {
		ticket.Priority = constant.DefaultPriority
	}
	ticket.Paid = false
	ticket.Validated = false
	return ticket
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
