package constant

import "time"

const (
	TicketExtrasKey = "ticket:%s:extras"
)

const (
	TicketExtrasDefaultTTL = 18 * time.Hour
)
