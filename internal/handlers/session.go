// internal/handlers/session.go
package handlers

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"deberts/internal/auth"
)

const sessionCookieName = "session_token"

// EnsureSession resolves the caller's session ID from the session cookie,
// minting a fresh ephemeral session when the cookie is absent or invalid.
// Must run before the WebSocket upgrade so the Set-Cookie header lands on
// the handshake response.
func EnsureSession(w http.ResponseWriter, r *http.Request) (uuid.UUID, error) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		if sessionID, err := auth.VerifySessionToken(cookie.Value); err == nil {
			return sessionID, nil
		}
	}

	sessionID := uuid.New()
	token, err := auth.CreateSessionToken(sessionID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create session token: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		HttpOnly: true,
		Path:     "/",
	})
	return sessionID, nil
}
