package session

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const CookieName = "gateway_session"

// Flash is a one-time notice shown on the next page render then discarded.
type Flash struct {
	Type    string `json:"type"` // "success" or "danger"
	Message string `json:"message"`
}

type Session struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	Flash     *Flash    `json:"flash,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Store persists sessions by token. Get returns (nil, nil) for tokens that
// are unknown or expired.
type Store interface {
	Save(ctx context.Context, s *Session) error
	Get(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
}

// Manager issues, resolves and destroys login sessions.
type Manager struct {
	store Store
	ttl   time.Duration
}

func NewManager(store Store, ttl time.Duration) *Manager {
	return &Manager{store: store, ttl: ttl}
}

func (m *Manager) Create(ctx context.Context, username string) (*Session, error) {
	s := &Session{
		Token:     uuid.NewString(),
		Username:  username,
		ExpiresAt: time.Now().UTC().Add(m.ttl),
	}
	if err := m.store.Save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// FromRequest resolves the session referenced by the request cookie.
// A missing cookie, unknown token or expired session all yield (nil, nil).
func (m *Manager) FromRequest(r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil, nil
	}
	return m.store.Get(r.Context(), cookie.Value)
}

func (m *Manager) Destroy(ctx context.Context, token string) error {
	return m.store.Delete(ctx, token)
}

// PutFlash attaches a one-time notice to the session.
func (m *Manager) PutFlash(ctx context.Context, token string, f Flash) error {
	s, err := m.store.Get(ctx, token)
	if err != nil || s == nil {
		return err
	}
	s.Flash = &f
	return m.store.Save(ctx, s)
}

// PopFlash removes and returns the pending notice, if any.
func (m *Manager) PopFlash(ctx context.Context, token string) (*Flash, error) {
	s, err := m.store.Get(ctx, token)
	if err != nil || s == nil {
		return nil, err
	}
	f := s.Flash
	if f == nil {
		return nil, nil
	}
	s.Flash = nil
	if err := m.store.Save(ctx, s); err != nil {
		return nil, err
	}
	return f, nil
}

// SetCookie writes the session cookie on the response.
func (m *Manager) SetCookie(w http.ResponseWriter, s *Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    s.Token,
		Path:     "/",
		Expires:  s.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *Manager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
