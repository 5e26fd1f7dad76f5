// internal/model/message.go
package model

// Direction says which way a message travelled through the gateway.
type Direction string

const (
	DirectionOutgoing Direction = "outgoing"
	DirectionIncoming Direction = "incoming"
)

// Status is provider-driven and deliberately open-ended: the provider may
// introduce states we have never seen, so it is a string, not a closed enum.
type Status string

const (
	StatusUnknown        Status = "unknown"
	StatusSent           Status = "sent"
	StatusFailed         Status = "failed"
	StatusReceived       Status = "received"
	StatusDelivered      Status = "delivered"
	StatusDeliveryFailed Status = "delivery_failed"
)

type Message struct {
	ID                int64     `db:"id" json:"id"`
	Direction         Direction `db:"direction" json:"direction"`
	FromNumber        string    `db:"from_number" json:"from_number"`
	ToNumber          string    `db:"to_number" json:"to_number"`
	Body              string    `db:"body" json:"body"`
	Timestamp         string    `db:"timestamp" json:"timestamp"` // ISO-8601, UTC
	Status            Status    `db:"status" json:"status"`
	ErrorMessage      *string   `db:"error_message" json:"error_message,omitempty"`
	Cost              *string   `db:"cost" json:"cost,omitempty"`
	ProviderMessageID *string   `db:"provider_message_id" json:"provider_message_id,omitempty"`
}
