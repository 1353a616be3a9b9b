package querier

import (
	"context"
)

const createTicket = `-- name: CreateTicket :exec
INSERT INTO tickets (id, holder_name, category, price_cents, priority)
VALUES ($1, $2, $3, $4, $5)
`

type CreateTicketParams struct {
	ID         string
	HolderName string
	Category   string
	PriceCents int64
	Priority   string
}

func (q *Queries) CreateTicket(ctx context.Context, arg CreateTicketParams) error {
	_, err := q.db.Exec(ctx, createTicket,
		arg.ID,
		arg.HolderName,
		arg.Category,
		arg.PriceCents,
		arg.Priority,
	)
	return err
}

const findTicketById = `-- name: FindTicketById :one
SELECT id, holder_name, category, price_cents, priority, paid, validated
FROM tickets
WHERE id = $1
`

func (q *Queries) FindTicketById(ctx context.Context, id string) (Ticket, error) {
	row := q.db.QueryRow(ctx, findTicketById, id)
	var i Ticket
	err := row.Scan(
		&i.ID,
		&i.HolderName,
		&i.Category,
		&i.PriceCents,
		&i.Priority,
		&i.Paid,
		&i.Validated,
	)
	return i, err
}

const insertTicketEvent = `-- name: InsertTicketEvent :exec
INSERT INTO ticket_events (id, ticket_id, type, payload)
VALUES ($1, $2, $3, $4)
ON CONFLICT (id) DO NOTHING
`

type InsertTicketEventParams struct {
	ID       string
	TicketID string
	Type     string
	Payload  []byte
}

func (q *Queries) InsertTicketEvent(ctx context.Context, arg InsertTicketEventParams) error {
	_, err := q.db.Exec(ctx, insertTicketEvent,
		arg.ID,
		arg.TicketID,
		arg.Type,
		arg.Payload,
	)
	return err
}

const markTicketPaid = `-- name: MarkTicketPaid :execrows
UPDATE tickets
SET paid    = TRUE,
    paid_at = NOW()
WHERE id = $1
  AND paid = FALSE
`

func (q *Queries) MarkTicketPaid(ctx context.Context, id string) (int64, error) {
	result, err := q.db.Exec(ctx, markTicketPaid, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const markTicketValidated = `-- name: MarkTicketValidated :one
UPDATE tickets
SET validated    = TRUE,
    validated_at = NOW()
WHERE id = $1
  AND paid = TRUE
  AND validated = FALSE
RETURNING id, holder_name, category, price_cents, priority, paid, validated
`

func (q *Queries) MarkTicketValidated(ctx context.Context, id string) (Ticket, error) {
	row := q.db.QueryRow(ctx, markTicketValidated, id)
	var i Ticket
	err := row.Scan(
		&i.ID,
		&i.HolderName,
		&i.Category,
		&i.PriceCents,
		&i.Priority,
		&i.Paid,
		&i.Validated,
	)
	return i, err
}
