package querier

type Ticket struct {
	ID         string
	HolderName string
	Category   string
	PriceCents int64
	Priority   string
	Paid       bool
	Validated  bool
}

type TicketEvent struct {
	ID       string
	TicketID string
	Type     string
	Payload  []byte
}
