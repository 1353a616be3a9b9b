package model

type PaymentReferenceResponse struct {
	Payload       string `json:"payload"`
	Amount        Money  `json:"amount"`
	ReceiverKey   string `json:"receiverKey"`
	TransactionId string `json:"transactionId"`
	TicketPrice   Money  `json:"ticketPrice"`
}

type PaymentStatusResponse struct {
	Paid bool `json:"paid"`
}
