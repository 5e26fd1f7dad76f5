package controller

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/unclebandit/sms-gateway/internal/service"
	"github.com/unclebandit/sms-gateway/internal/webhook"
)

const (
	headerSignature = "telnyx-signature-ed25519"
	headerTimestamp = "telnyx-timestamp"
)

// WebhookController terminates the provider's asynchronous callbacks. The
// signature check is the authentication boundary: nothing past it runs until
// the request proves it came from the provider.
type WebhookController struct {
	Verifier *webhook.Verifier
	Service  *service.MessageService
}

func (c *WebhookController) Handle(w http.ResponseWriter, r *http.Request) {
	signature := r.Header.Get(headerSignature)
	timestamp := r.Header.Get(headerTimestamp)
	if signature == "" || timestamp == "" {
		http.Error(w, "missing signature headers", http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	if !c.Verifier.Verify(signature, timestamp, body) {
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	// Past this point the request is authenticated: acknowledge whenever we
	// can, because the provider retries anything that is not a 2xx and a
	// retry of an unparseable payload can never succeed.
	ev, err := webhook.ParseEvent(body)
	if err != nil {
		slog.Warn("discarding unparseable webhook payload", "error", err)
		ack(w)
		return
	}

	if err := c.Service.HandleEvent(r.Context(), ev); err != nil {
		slog.Error("failed to process webhook event", "event_type", ev.Data.EventType, "error", err)
		http.Error(w, "failed to process event", http.StatusInternalServerError)
		return
	}

	ack(w)
}

func ack(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
