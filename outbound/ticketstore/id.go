package ticketstore

import (
	"github.com/oklog/ulid/v2"
	"ru-ticket/common/constant"
)

// NewTicketId returns TCK- followed by a monotonic ULID.
func NewTicketId() string {
	return constant.TicketIdPrefix + ulid.Make().String()
}
