package extras

import (
	"container/list"
	"context"
	"ru-ticket/model"
	"sync"
)

const DefaultCapacity = 10000

// Memory holds at most Capacity records and evicts the oldest insert first.
type Memory struct {
	mu       sync.Mutex
	capacity int
	order    *list.List
	records  map[string]*list.Element
}

type memoryRecord struct {
	ticketId string
	extras   model.TicketExtras
}

func NewMemory(capacity int) *Memory {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	return &Memory{
		capacity: capacity,
		order:    list.New(),
		records:  make(map[string]*list.Element),
	}
}

func (s *Memory) Put(_ context.Context, ticketId string, extras model.TicketExtras) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if el, ok := s.records[ticketId]; ok {
		el.Value.(*memoryRecord).extras = extras
		return nil
	}

	for s.order.Len() >= s.capacity {
		oldest := s.order.Front()
		s.order.Remove(oldest)
		delete(s.records, oldest.Value.(*memoryRecord).ticketId)
	}

	s.records[ticketId] = s.order.PushBack(&memoryRecord{ticketId: ticketId, extras: extras})
	return nil
}

func (s *Memory) Get(_ context.Context, ticketId string) (model.TicketExtras, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.records[ticketId]
	if !ok {
		return model.TicketExtras{}, false, nil
	}

	return el.Value.(*memoryRecord).extras, true, nil
}

func (s *Memory) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.order.Len()
}
