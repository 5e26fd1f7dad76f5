package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	appErrors "github.com/unclebandit/sms-gateway/internal/errors"
	"github.com/unclebandit/sms-gateway/internal/model"
	"github.com/unclebandit/sms-gateway/internal/service"
	"github.com/unclebandit/sms-gateway/internal/session"
	"github.com/unclebandit/sms-gateway/web"
)

type MessageController struct {
	Service         *service.MessageService
	Sessions        *session.Manager
	Renderer        *web.Renderer
	RefreshInterval int
	Version         string
}

type indexData struct {
	Messages        []model.Message
	Flash           *session.Flash
	RefreshInterval int
	Version         string
}

// Index renders the message list, newest first, with any pending flash.
func (c *MessageController) Index(w http.ResponseWriter, r *http.Request) {
	messages, err := c.Service.ListMessages(r.Context())
	if err != nil {
		http.Error(w, "failed to fetch messages: "+err.Error(), http.StatusInternalServerError)
		return
	}

	var flash *session.Flash
	if s := SessionFrom(r.Context()); s != nil {
		flash, _ = c.Sessions.PopFlash(r.Context(), s.Token)
	}

	c.Renderer.Render(w, http.StatusOK, "index.html", indexData{
		Messages:        messages,
		Flash:           flash,
		RefreshInterval: c.RefreshInterval,
		Version:         c.Version,
	})
}

func (c *MessageController) SendForm(w http.ResponseWriter, r *http.Request) {
	c.Renderer.Render(w, http.StatusOK, "send.html", nil)
}

// SendSMS submits the form to the provider and always redirects back to the
// list; the outcome travels as a flash notice, never as an error page.
func (c *MessageController) SendSMS(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	to := r.PostFormValue("to")
	body := r.PostFormValue("message")

	msg, err := c.Service.SubmitSend(r.Context(), to, body)
	c.flashSendOutcome(w, r, msg, err, "send")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Resend re-submits an existing outgoing message as a brand-new record.
func (c *MessageController) Resend(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		c.putFlash(w, r, session.Flash{Type: "danger", Message: "Invalid message id."})
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	msg, err := c.Service.Resend(r.Context(), id)

	var notFound *appErrors.ErrMessageNotFound
	var notResendable *appErrors.ErrNotResendable
	if errors.As(err, &notFound) || errors.As(err, &notResendable) {
		c.putFlash(w, r, session.Flash{Type: "danger", Message: "Message not found or not eligible for resend."})
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	c.flashSendOutcome(w, r, msg, err, "resend")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Messages returns the full log as JSON.
func (c *MessageController) Messages(w http.ResponseWriter, r *http.Request) {
	messages, err := c.Service.ListMessages(r.Context())
	if err != nil {
		http.Error(w, "failed to fetch messages: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"messages": messages})
}

func (c *MessageController) flashSendOutcome(w http.ResponseWriter, r *http.Request, msg *model.Message, err error, verb string) {
	switch {
	case err != nil:
		c.putFlash(w, r, session.Flash{Type: "danger", Message: "Failed to " + verb + " message: " + err.Error()})
	case msg.Status == model.StatusFailed:
		detail := "unknown send error"
		if msg.ErrorMessage != nil {
			detail = *msg.ErrorMessage
		}
		c.putFlash(w, r, session.Flash{Type: "danger", Message: "Failed to " + verb + " message: " + detail})
	case verb == "resend":
		c.putFlash(w, r, session.Flash{Type: "success", Message: "Resent message successfully!"})
	default:
		c.putFlash(w, r, session.Flash{Type: "success", Message: "Message sent successfully!"})
	}
}

func (c *MessageController) putFlash(w http.ResponseWriter, r *http.Request, f session.Flash) {
	s := SessionFrom(r.Context())
	if s == nil {
		return
	}
	_ = c.Sessions.PutFlash(r.Context(), s.Token, f)
}
