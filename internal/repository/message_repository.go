package repository

import (
	"context"
	"database/sql"

	"github.com/unclebandit/sms-gateway/internal/model"
)

// MessageRepositoryInterface defines methods used by the service layer.
type MessageRepositoryInterface interface {
	Insert(ctx context.Context, msg *model.Message) (int64, error)
	UpdateDelivery(ctx context.Context, providerMessageID string, cost *string, status *model.Status) error
	GetByID(ctx context.Context, id int64) (*model.Message, error)
	ListAll(ctx context.Context) ([]model.Message, error)
}

// MessageRepository is the concrete Postgres implementation.
type MessageRepository struct {
	DB *sql.DB
}

// Insert appends a new message and returns the assigned ID.
func (r *MessageRepository) Insert(ctx context.Context, msg *model.Message) (int64, error) {
	query := `
		INSERT INTO messages
		(direction, from_number, to_number, body, timestamp, status, error_message, cost, provider_message_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	var id int64
	err := r.DB.QueryRowContext(
		ctx,
		query,
		msg.Direction,
		msg.FromNumber,
		msg.ToNumber,
		msg.Body,
		msg.Timestamp,
		msg.Status,
		msg.ErrorMessage,
		msg.Cost,
		msg.ProviderMessageID,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	msg.ID = id
	return id, nil
}

// UpdateDelivery applies a partial cost/status update to the record carrying
// the given provider message ID. Updating a record the provider knows but we
// do not is a no-op, not an error: the webhook endpoint must still ack.
func (r *MessageRepository) UpdateDelivery(ctx context.Context, providerMessageID string, cost *string, status *model.Status) error {
	if cost == nil && status == nil {
		return nil
	}

	query := `
		UPDATE messages
		SET cost = COALESCE($2, cost),
		    status = COALESCE($3, status)
		WHERE provider_message_id = $1
	`
	var statusStr *string
	if status != nil {
		s := string(*status)
		statusStr = &s
	}
	_, err := r.DB.ExecContext(ctx, query, providerMessageID, cost, statusStr)
	return err
}

// GetByID fetches a message by ID, returning nil when it does not exist.
func (r *MessageRepository) GetByID(ctx context.Context, id int64) (*model.Message, error) {
	query := `
		SELECT id, direction, from_number, to_number, body, timestamp, status, error_message, cost, provider_message_id
		FROM messages
		WHERE id = $1
	`
	row := r.DB.QueryRowContext(ctx, query, id)

	msg, err := scanMessage(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil // not found
	}
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// ListAll returns every message, newest first.
func (r *MessageRepository) ListAll(ctx context.Context) ([]model.Message, error) {
	query := `
		SELECT id, direction, from_number, to_number, body, timestamp, status, error_message, cost, provider_message_id
		FROM messages
		ORDER BY id DESC
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []model.Message{}
	for rows.Next() {
		msg, err := scanMessage(rows.Scan)
		if err != nil {
			return nil, err
		}
		messages = append(messages, *msg)
	}
	return messages, rows.Err()
}

func scanMessage(scan func(dest ...any) error) (*model.Message, error) {
	var (
		msg       model.Message
		direction string
		status    string
		errMsg    sql.NullString
		cost      sql.NullString
		provID    sql.NullString
	)

	if err := scan(
		&msg.ID,
		&direction,
		&msg.FromNumber,
		&msg.ToNumber,
		&msg.Body,
		&msg.Timestamp,
		&status,
		&errMsg,
		&cost,
		&provID,
	); err != nil {
		return nil, err
	}

	msg.Direction = model.Direction(direction)
	msg.Status = model.Status(status)

	if errMsg.Valid {
		s := errMsg.String
		msg.ErrorMessage = &s
	}
	if cost.Valid {
		s := cost.String
		msg.Cost = &s
	}
	if provID.Valid {
		s := provID.String
		msg.ProviderMessageID = &s
	}
	return &msg, nil
}
