package auth

import (
	"log"
	"net/http"
	"time"
)

const SessionCookieName = "session"

// Session identifies the signed-in user.
type Session struct {
	UserID int64
}

// SessionManager issues and verifies cookie-backed sessions.
type SessionManager struct {
	secret []byte
	ttl    time.Duration
	secure bool
}

func NewSessionManager(secret string, ttl time.Duration, secure bool) *SessionManager {
	return &SessionManager{secret: []byte(secret), ttl: ttl, secure: secure}
}

// GetSession returns the session carried by r, or nil when there is none or it is invalid.
func (m *SessionManager) GetSession(r *http.Request) *Session {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	userID, err := ValidateJWT(cookie.Value, m.secret)
	if err != nil {
		log.Printf("Rejecting session cookie: %v", err)
		return nil
	}
	return &Session{UserID: userID}
}

// CreateSession sets a fresh session cookie for userID.
func (m *SessionManager) CreateSession(w http.ResponseWriter, userID int64) error {
	token, err := GenerateJWT(userID, m.secret, m.ttl)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(m.ttl),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// DeleteSession expires the session cookie.
func (m *SessionManager) DeleteSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
