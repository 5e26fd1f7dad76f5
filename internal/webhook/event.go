package webhook

import (
	"encoding/json"
	"fmt"
)

// Telnyx event types the gateway acts on. Anything else is acknowledged and
// ignored so the provider does not keep retrying.
const (
	EventMessageReceived    = "message.received"
	EventDeliverySuccessful = "message.delivery.successful"
	EventDeliveryFailed     = "message.delivery.failed"
)

// Event is the provider's webhook envelope. Fields the provider may omit are
// pointers or raw JSON; absent stays absent instead of erroring.
type Event struct {
	Data EventData `json:"data"`
}

type EventData struct {
	EventType string          `json:"event_type"`
	ID        string          `json:"id"`
	Cost      json.RawMessage `json:"cost"`
	Payload   *MessagePayload `json:"payload"`
}

// MessagePayload carries the message-level detail of an event.
type MessagePayload struct {
	ID         string          `json:"id"`
	From       Endpoint        `json:"from"`
	To         []Endpoint      `json:"to"`
	Text       string          `json:"text"`
	ReceivedAt string          `json:"received_at"`
	Cost       json.RawMessage `json:"cost"`
}

type Endpoint struct {
	PhoneNumber string `json:"phone_number"`
}

// ParseEvent decodes a raw webhook body into an Event.
func ParseEvent(body []byte) (*Event, error) {
	var ev Event
	if err := json.Unmarshal(body, &ev); err != nil {
		return nil, fmt.Errorf("failed to decode webhook payload: %w", err)
	}
	return &ev, nil
}

// MessageID returns the provider message identifier for delivery events.
// Some payload shapes put it on the envelope, some nest it in the payload.
func (d EventData) MessageID() string {
	if d.ID != "" {
		return d.ID
	}
	if d.Payload != nil {
		return d.Payload.ID
	}
	return ""
}

// RawCost prefers the envelope-level cost, falling back to the payload's.
func (d EventData) RawCost() json.RawMessage {
	if len(d.Cost) > 0 {
		return d.Cost
	}
	if d.Payload != nil {
		return d.Payload.Cost
	}
	return nil
}
