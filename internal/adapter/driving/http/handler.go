// Package httphandler implements the JSON API driving adapter. The API is
// stateless: every request carries the credential in an X-API-KEY header and
// may force a refresh with ?refresh=true.
package httphandler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/ericfisherdev/tacticuspanel/internal/application"
)

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	views  *application.ViewService
	logger *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(views *application.ViewService, logger *slog.Logger) *Handler {
	return &Handler{views: views, logger: logger}
}

// RegisterAPIRoutes registers all API routes on the provided mux.
func RegisterAPIRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /api/v1/player", h.GetPlayer)
	mux.HandleFunc("GET /api/v1/guild", h.GetGuild)
	mux.HandleFunc("GET /api/v1/guildRaid", h.GetGuildRaid)
	mux.HandleFunc("GET /api/v1/health", h.Health)
}

// ApplyMiddleware wraps the handler with logging and recovery middleware.
// Recovery sits innermost so panics are caught before logging.
func ApplyMiddleware(next http.Handler, logger *slog.Logger) http.Handler {
	wrapped := recoveryMiddleware(logger, next)
	wrapped = loggingMiddleware(logger, wrapped)
	return wrapped
}

// apiKey extracts the credential from the X-API-KEY request header.
func apiKey(r *http.Request) string {
	return r.Header.Get("X-API-KEY")
}

// forceRefresh reports whether the request asks to bypass the cache.
func forceRefresh(r *http.Request) bool {
	return r.URL.Query().Get("refresh") == "true"
}

// GetPlayer returns the decoded player view.
func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	key := apiKey(r)
	if key == "" {
		writeError(w, http.StatusUnauthorized, "missing X-API-KEY header")
		return
	}

	view, err := h.views.Player(r.Context(), key, forceRefresh(r))
	if err != nil {
		status, msg := statusForError(err)
		h.logger.Error("player request failed", "status", status, "error", err)
		writeError(w, status, msg)
		return
	}

	writeJSON(w, http.StatusOK, toPlayerResponse(view))
}

// GetGuild returns the decoded guild view.
func (h *Handler) GetGuild(w http.ResponseWriter, r *http.Request) {
	key := apiKey(r)
	if key == "" {
		writeError(w, http.StatusUnauthorized, "missing X-API-KEY header")
		return
	}

	view, err := h.views.Guild(r.Context(), key, forceRefresh(r))
	if err != nil {
		status, msg := statusForError(err)
		h.logger.Error("guild request failed", "status", status, "error", err)
		writeError(w, status, msg)
		return
	}

	writeJSON(w, http.StatusOK, toGuildResponse(view))
}

// GetGuildRaid returns the decoded guild raid view with per-boss statistics.
func (h *Handler) GetGuildRaid(w http.ResponseWriter, r *http.Request) {
	key := apiKey(r)
	if key == "" {
		writeError(w, http.StatusUnauthorized, "missing X-API-KEY header")
		return
	}

	view, err := h.views.Raid(r.Context(), key, forceRefresh(r))
	if err != nil {
		status, msg := statusForError(err)
		h.logger.Error("guild raid request failed", "status", status, "error", err)
		writeError(w, status, msg)
		return
	}

	writeJSON(w, http.StatusOK, toRaidResponse(view))
}

// Health reports process liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}
