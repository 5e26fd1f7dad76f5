// internal/errors/errors.go
package appErrors

import "fmt"

// ErrMessageNotFound is a sentinel error
type ErrMessageNotFound struct {
	MessageID int64
}

func (e *ErrMessageNotFound) Error() string {
	return fmt.Sprintf("message with ID %d not found", e.MessageID)
}

// Helper constructor
func NewMessageNotFound(id int64) error {
	return &ErrMessageNotFound{MessageID: id}
}

// ErrNotResendable is returned when a resend targets a record that is not an
// outgoing message. Incoming records have nothing meaningful to resend.
type ErrNotResendable struct {
	MessageID int64
}

func (e *ErrNotResendable) Error() string {
	return fmt.Sprintf("message with ID %d is not eligible for resend", e.MessageID)
}

func NewNotResendable(id int64) error {
	return &ErrNotResendable{MessageID: id}
}
