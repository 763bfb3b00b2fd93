package web

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/ericfisherdev/tacticuspanel/internal/domain/port/driven"
)

const sessionCookieName = "tacticuspanel_session"

// currentSession resolves the request's session cookie against the session
// store. Returns nil when no cookie is set or the session no longer exists.
func (h *Handler) currentSession(r *http.Request) *driven.Session {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	sess, err := h.sessions.Get(r.Context(), cookie.Value)
	if err != nil {
		h.logger.Error("session lookup failed", "error", err)
		return nil
	}
	return sess
}

// startSession persists a new session for the given API key and sets the
// session cookie.
func (h *Handler) startSession(w http.ResponseWriter, r *http.Request, apiKey string) error {
	id := uuid.NewString()
	if err := h.sessions.Create(r.Context(), id, apiKey); err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   false, // set true when served over HTTPS
	})
	return nil
}

// endSession deletes the stored session and expires the cookie.
func (h *Handler) endSession(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(sessionCookieName)
	if err == nil && cookie.Value != "" {
		if err := h.sessions.Delete(r.Context(), cookie.Value); err != nil {
			h.logger.Error("session delete failed", "error", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}
