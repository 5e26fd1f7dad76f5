package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	appErrors "github.com/unclebandit/sms-gateway/internal/errors"
	"github.com/unclebandit/sms-gateway/internal/model"
	"github.com/unclebandit/sms-gateway/internal/provider"
	"github.com/unclebandit/sms-gateway/internal/queue"
	"github.com/unclebandit/sms-gateway/internal/repository"
	"github.com/unclebandit/sms-gateway/internal/webhook"
)

// SendClient is what the lifecycle needs from the provider adapter.
type SendClient interface {
	Send(ctx context.Context, from, to, body string) (*provider.SendResult, error)
}

// MessageService owns the message lifecycle. It is the only component that
// mutates message state: sends, webhook events and resends all land here.
type MessageService struct {
	Repo       repository.MessageRepositoryInterface
	Client     SendClient
	Events     queue.Publisher
	FromNumber string
}

// SubmitSend calls the provider and records the outcome as a new message.
// A provider rejection is a normal outcome: the message is recorded as failed
// and returned without error. A transport failure means we do not know what
// happened, so nothing is recorded and the error is surfaced to the caller.
func (s *MessageService) SubmitSend(ctx context.Context, to, body string) (*model.Message, error) {
	result, err := s.Client.Send(ctx, s.FromNumber, to, body)
	if err != nil {
		return nil, fmt.Errorf("could not reach provider: %w", err)
	}

	msg := &model.Message{
		Direction:  model.DirectionOutgoing,
		FromNumber: s.FromNumber,
		ToNumber:   to,
		Body:       body,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	}

	if result.Accepted {
		msg.Status = model.StatusSent
		msg.Cost = result.Cost
		if result.ProviderMessageID != "" {
			id := result.ProviderMessageID
			msg.ProviderMessageID = &id
		}
	} else {
		msg.Status = model.StatusFailed
		detail := result.ErrorDetail
		msg.ErrorMessage = &detail
	}

	if _, err := s.Repo.Insert(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to record message: %w", err)
	}

	eventType := queue.EventTypeSent
	if msg.Status == model.StatusFailed {
		eventType = queue.EventTypeFailed
	}
	s.publish(ctx, queue.Event{
		Type:              eventType,
		MessageID:         msg.ID,
		ProviderMessageID: result.ProviderMessageID,
		Direction:         string(msg.Direction),
		Status:            string(msg.Status),
		Timestamp:         msg.Timestamp,
	})

	return msg, nil
}

// HandleEvent applies a verified webhook event to the message log. Callers
// must have checked the signature already; nothing here authenticates.
func (s *MessageService) HandleEvent(ctx context.Context, ev *webhook.Event) error {
	switch ev.Data.EventType {
	case webhook.EventMessageReceived:
		return s.recordInbound(ctx, ev)

	case webhook.EventDeliverySuccessful:
		return s.applyDelivery(ctx, ev, model.StatusDelivered)

	case webhook.EventDeliveryFailed:
		return s.applyDelivery(ctx, ev, model.StatusDeliveryFailed)

	default:
		slog.Info("ignoring unhandled webhook event", "event_type", ev.Data.EventType)
		return nil
	}
}

func (s *MessageService) recordInbound(ctx context.Context, ev *webhook.Event) error {
	p := ev.Data.Payload
	if p == nil {
		slog.Warn("inbound message event without payload")
		return nil
	}

	timestamp := p.ReceivedAt
	if timestamp == "" {
		timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	toNumber := ""
	if len(p.To) > 0 {
		toNumber = p.To[0].PhoneNumber
	}

	msg := &model.Message{
		Direction:  model.DirectionIncoming,
		FromNumber: p.From.PhoneNumber,
		ToNumber:   toNumber,
		Body:       p.Text,
		Timestamp:  timestamp,
		Status:     model.StatusReceived,
		Cost:       provider.ScalarCost(ev.Data.RawCost()),
	}
	if p.ID != "" {
		id := p.ID
		msg.ProviderMessageID = &id
	}

	if _, err := s.Repo.Insert(ctx, msg); err != nil {
		return fmt.Errorf("failed to record inbound message: %w", err)
	}

	s.publish(ctx, queue.Event{
		Type:              queue.EventTypeReceived,
		MessageID:         msg.ID,
		ProviderMessageID: p.ID,
		Direction:         string(msg.Direction),
		Status:            string(msg.Status),
		Timestamp:         msg.Timestamp,
	})
	return nil
}

func (s *MessageService) applyDelivery(ctx context.Context, ev *webhook.Event, status model.Status) error {
	providerID := ev.Data.MessageID()
	if providerID == "" {
		slog.Warn("delivery event without message id", "event_type", ev.Data.EventType)
		return nil
	}

	cost := provider.ScalarCost(ev.Data.RawCost())
	if err := s.Repo.UpdateDelivery(ctx, providerID, cost, &status); err != nil {
		return fmt.Errorf("failed to apply delivery update: %w", err)
	}

	s.publish(ctx, queue.Event{
		Type:              queue.EventTypeDeliveryUpdate,
		ProviderMessageID: providerID,
		Status:            string(status),
		Timestamp:         time.Now().UTC().Format(time.RFC3339),
	})
	return nil
}

// Resend re-submits an existing outgoing message. The original record is left
// untouched; the resend runs through the normal send path and gets a fresh
// record, id and provider response.
func (s *MessageService) Resend(ctx context.Context, id int64) (*model.Message, error) {
	msg, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, appErrors.NewMessageNotFound(id)
	}
	if msg.Direction != model.DirectionOutgoing {
		return nil, appErrors.NewNotResendable(id)
	}

	return s.SubmitSend(ctx, msg.ToNumber, msg.Body)
}

// ListMessages returns the full log, newest first.
func (s *MessageService) ListMessages(ctx context.Context) ([]model.Message, error) {
	return s.Repo.ListAll(ctx)
}

func (s *MessageService) publish(ctx context.Context, ev queue.Event) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Publish(ctx, ev); err != nil {
		slog.Warn("failed to publish lifecycle event", "type", ev.Type, "error", err)
	}
}
