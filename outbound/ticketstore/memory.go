package ticketstore

import (
	"context"
	"fmt"
	"ru-ticket/common/errs"
	"ru-ticket/model"
	"sync"
)

// Memory keeps tickets in process. The map lock only guards membership;
// state transitions take the lock of the ticket they touch.
type Memory struct {
	mu      sync.RWMutex
	tickets map[string]*memoryTicket
}

type memoryTicket struct {
	mu     sync.Mutex
	ticket model.Ticket
}

func NewMemory() *Memory {
	return &Memory{tickets: make(map[string]*memoryTicket)}
}

func (s *Memory) Create(ctx context.Context, ticket model.Ticket) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", errs.NewStorageError("create ticket", err)
	}

	ticket = prepare(ticket)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tickets[ticket.ID]; ok {
		return "", errs.NewStorageError("create ticket", fmt.Errorf("duplicate id %s", ticket.ID))
	}

	s.tickets[ticket.ID] = &memoryTicket{ticket: ticket}

	return ticket.ID, nil
}

func (s *Memory) Get(ctx context.Context, id string) (model.Ticket, error) {
	entry, err := s.entry(ctx, id)
	if err != nil {
		return model.Ticket{}, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	return entry.ticket, nil
}

func (s *Memory) MarkPaid(ctx context.Context, id string) (bool, error) {
	entry, err := s.entry(ctx, id)
	if err != nil {
		return false, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.ticket.Paid {
		return false, nil
	}

	entry.ticket.Paid = true
	return true, nil
}

func (s *Memory) MarkValidated(ctx context.Context, id string) (model.Ticket, error) {
	entry, err := s.entry(ctx, id)
	if err != nil {
		return model.Ticket{}, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if !entry.ticket.Paid {
		return model.Ticket{}, errs.ErrPaymentPending
	}
	if entry.ticket.Validated {
		return model.Ticket{}, errs.ErrAlreadyValidated
	}

	entry.ticket.Validated = true
	return entry.ticket, nil
}

func (s *Memory) entry(ctx context.Context, id string) (*memoryTicket, error) {
	if err := ctx.Err(); err != nil {
		return nil, errs.NewStorageError("find ticket", err)
	}

	s.mu.RLock()
	entry, ok := s.tickets[id]
	s.mu.RUnlock()

	if !ok {
		return nil, errs.ErrNotFound
	}

	return entry, nil
}
