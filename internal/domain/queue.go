package domain

// QueueMessage is a received request envelope. The queue delivers at least
// once, so the same message may be seen more than once; consumers must treat
// redelivery as normal. Attribute fields are nil when the corresponding
// message attribute was absent, never a hard failure.
type QueueMessage struct {
	MessageID     string
	ReceiptHandle string
	RequestID     string

	Location   *string
	Cuisine    *string
	PartySize  *string
	DiningDate *string
	DiningTime *string
	Email      *string
}
