package model

type Ticket struct {
	ID         string `json:"id"`
	HolderName string `json:"holderName"`
	Category   string `json:"category"`
	Price      Money  `json:"price"`
	Priority   string `json:"priority"`
	Paid       bool   `json:"paid"`
	Validated  bool   `json:"validated"`
}

// TicketExtras is supplementary display data kept outside the durable store.
type TicketExtras struct {
	Restaurant string `json:"restaurant,omitempty"`
	Meal       string `json:"meal,omitempty"`
	Amount     *Money `json:"amount,omitempty"`
	Photo      string `json:"photo,omitempty"`
}

func (e TicketExtras) IsZero() bool {
	return e.Restaurant == "" && e.Meal == "" && e.Amount == nil && e.Photo == ""
}

type CreateTicketRequest struct {
	Name       string `json:"name" validate:"required,max=120"`
	Category   string `json:"category" validate:"required"`
	Price      *Money `json:"price" validate:"omitempty,min=0"`
	Priority   string `json:"priority" validate:"max=40"`
	Restaurant string `json:"restaurant" validate:"omitempty,oneof=setorial1 setorial2 saude direito"`
	Meal       string `json:"meal" validate:"omitempty,oneof=breakfast lunch dinner"`
	Photo      string `json:"photo"`
}

type CreateTicketResponse struct {
	TicketId string `json:"ticketId"`
}

type TicketRequest struct {
	TicketId string `json:"ticketId" validate:"required"`
}

// ValidateRequest carries a ticket id or an SQRU| redemption code. An empty
// value is answered with the missing_ticket outcome, not a 400.
type ValidateRequest struct {
	TicketId string `json:"ticketId"`
}

type AttachExtrasRequest struct {
	TicketId   string `json:"ticketId" validate:"required"`
	Restaurant string `json:"restaurant" validate:"omitempty,oneof=setorial1 setorial2 saude direito"`
	Meal       string `json:"meal" validate:"omitempty,oneof=breakfast lunch dinner"`
	Amount     *Money `json:"amount" validate:"omitempty,min=0"`
	Photo      string `json:"photo"`
}

type OkResponse struct {
	Ok bool `json:"ok"`
}

type ValidateResponse struct {
	Ok         bool    `json:"ok"`
	Code       string  `json:"code"`
	Reason     string  `json:"reason"`
	Name       string  `json:"name,omitempty"`
	Category   string  `json:"category,omitempty"`
	Restaurant *string `json:"restaurant"`
	Meal       *string `json:"meal"`
	Amount     *Money  `json:"amount"`
	Photo      *string `json:"photo"`
}

type TicketEventMessage struct {
	TicketId   string `json:"ticket_id"`
	Type       string `json:"type"`
	HolderName string `json:"holder_name,omitempty"`
	Category   string `json:"category,omitempty"`
	Price      Money  `json:"price"`
	Restaurant string `json:"restaurant,omitempty"`
	Meal       string `json:"meal,omitempty"`
	OccurredAt string `json:"occurred_at"`
}
