package controller

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"

	"github.com/unclebandit/sms-gateway/internal/session"
	"github.com/unclebandit/sms-gateway/web"
)

type AuthController struct {
	Sessions *session.Manager
	Renderer *web.Renderer
	Username string
	Password string
}

type loginData struct {
	Error string
}

func (c *AuthController) LoginForm(w http.ResponseWriter, r *http.Request) {
	if s, _ := c.Sessions.FromRequest(r); s != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	c.Renderer.Render(w, http.StatusOK, "login.html", loginData{})
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	if !credentialsMatch(username, c.Username) || !credentialsMatch(password, c.Password) {
		c.Renderer.Render(w, http.StatusUnauthorized, "login.html", loginData{
			Error: "Incorrect username or password",
		})
		return
	}

	s, err := c.Sessions.Create(r.Context(), username)
	if err != nil {
		http.Error(w, "failed to create session", http.StatusInternalServerError)
		return
	}
	c.Sessions.SetCookie(w, s)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(session.CookieName); err == nil {
		_ = c.Sessions.Destroy(r.Context(), cookie.Value)
	}
	c.Sessions.ClearCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// credentialsMatch compares hashed values so the comparison is constant-time
// and does not leak length.
func credentialsMatch(got, want string) bool {
	gotSum := sha256.Sum256([]byte(got))
	wantSum := sha256.Sum256([]byte(want))
	return subtle.ConstantTimeCompare(gotSum[:], wantSum[:]) == 1
}
