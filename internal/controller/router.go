package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/unclebandit/sms-gateway/internal/session"
	"github.com/unclebandit/sms-gateway/web"
)

// NewRouter wires every HTTP surface of the gateway. The webhook and login
// endpoints are the only ones reachable without a session.
func NewRouter(auth *AuthController, messages *MessageController, hook *WebhookController, sessions *session.Manager) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/login", auth.LoginForm)
	r.Post("/login", auth.Login)
	r.Get("/logout", auth.Logout)

	r.Post("/webhook", hook.Handle)

	r.Handle("/static/*", web.StaticHandler())

	r.Group(func(r chi.Router) {
		r.Use(RequireSession(sessions))

		r.Get("/", messages.Index)
		r.Get("/send", messages.SendForm)
		r.Post("/send-sms", messages.SendSMS)
		r.Get("/resend/{id}", messages.Resend)
		r.Get("/messages", messages.Messages)
	})

	return r
}
