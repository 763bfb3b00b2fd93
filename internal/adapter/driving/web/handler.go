// Package web implements the HTML GUI driving adapter. Pages are rendered
// from embedded html/template files; the credential lives in a server-side
// session resolved from a cookie and is passed explicitly into every
// application call.
package web

import (
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	vm "github.com/ericfisherdev/tacticuspanel/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/tacticuspanel/internal/application"
	"github.com/ericfisherdev/tacticuspanel/internal/domain/model"
	"github.com/ericfisherdev/tacticuspanel/internal/domain/port/driven"
)

// pageNames lists the templates rendered on top of layout.html.
var pageNames = []string{"index", "player", "guild", "raid"}

// Handler is the web GUI driving adapter.
type Handler struct {
	views     *application.ViewService
	snapshots *application.SnapshotService
	sessions  driven.SessionStore
	templates map[string]*template.Template
	logger    *slog.Logger
}

// NewHandler creates a Handler with all required dependencies, parsing the
// embedded templates once up front.
func NewHandler(
	views *application.ViewService,
	snapshots *application.SnapshotService,
	sessions driven.SessionStore,
	logger *slog.Logger,
) (*Handler, error) {
	templates := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.ParseFS(TemplateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		templates[name] = tmpl
	}

	return &Handler{
		views:     views,
		snapshots: snapshots,
		sessions:  sessions,
		templates: templates,
		logger:    logger,
	}, nil
}

// basePage assembles the shared page fields: nav state, flash, CSRF token.
func (h *Handler) basePage(w http.ResponseWriter, r *http.Request, title, active string, connected bool) vm.Page {
	return vm.Page{
		Title:     title,
		Active:    active,
		Connected: connected,
		HasData:   true,
		Flash:     takeFlash(w, r),
		CSRFToken: ensureCSRFToken(w, r),
	}
}

// render executes the named page template over layout.html.
func (h *Handler) render(w http.ResponseWriter, name string, data any) {
	tmpl, ok := h.templates[name]
	if !ok {
		h.logger.Error("unknown template", "name", name)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		h.logger.Error("failed to render page", "name", name, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// Index renders the landing page with the connect form.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	sess := h.currentSession(r)
	page := vm.IndexPage{Page: h.basePage(w, r, "Tacticus Panel", "home", sess != nil)}
	h.render(w, "index", page)
}

// Connect validates the submitted API key by fetching the player endpoint,
// then establishes the session. An invalid key is discarded immediately.
func (h *Handler) Connect(w http.ResponseWriter, r *http.Request) {
	if !validateCSRF(r) {
		http.Error(w, "invalid CSRF token", http.StatusForbidden)
		return
	}

	key := strings.TrimSpace(r.FormValue("api_key"))
	if key == "" {
		setFlash(w, "error", "Please enter an API key.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	// Probe the key with a forced player fetch; success also primes the cache.
	if _, err := h.views.Player(r.Context(), key, true); err != nil {
		kind, msg := classifyFetchError(err, model.EndpointPlayer)
		setFlash(w, kind, "Failed to connect: "+msg)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	// Reconnecting replaces any existing session; drop the old row so it
	// doesn't linger in the store.
	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		if err := h.sessions.Delete(r.Context(), cookie.Value); err != nil {
			h.logger.Error("failed to delete prior session", "error", err)
		}
	}

	if err := h.startSession(w, r, key); err != nil {
		h.logger.Error("failed to start session", "error", err)
		setFlash(w, "error", "Could not store the session. Check the server logs.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	setFlash(w, "success", "Connected to the Tacticus API.")
	http.Redirect(w, r, "/app/player", http.StatusSeeOther)
}

// Disconnect drops the session and evicts the key's cached snapshots.
func (h *Handler) Disconnect(w http.ResponseWriter, r *http.Request) {
	if !validateCSRF(r) {
		http.Error(w, "invalid CSRF token", http.StatusForbidden)
		return
	}

	if sess := h.currentSession(r); sess != nil {
		if err := h.snapshots.Evict(r.Context(), sess.APIKey); err != nil {
			h.logger.Error("failed to evict snapshots", "error", err)
		}
	}
	h.endSession(w, r)

	setFlash(w, "info", "Disconnected.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Player renders the player page.
func (h *Handler) Player(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	view, err := h.views.Player(r.Context(), sess.APIKey, false)
	if err != nil {
		h.renderFetchError(w, r, err, model.EndpointPlayer, "player", "Player")
		return
	}

	page := toPlayerPage(h.basePage(w, r, "Player", "player", true), view)
	h.render(w, "player", page)
}

// Guild renders the guild page.
func (h *Handler) Guild(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	view, err := h.views.Guild(r.Context(), sess.APIKey, false)
	if err != nil {
		h.renderFetchError(w, r, err, model.EndpointGuild, "guild", "Guild")
		return
	}

	page := toGuildPage(h.basePage(w, r, "Guild", "guild", true), view)
	h.render(w, "guild", page)
}

// Raid renders the guild raid page with per-boss statistics.
func (h *Handler) Raid(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	view, err := h.views.Raid(r.Context(), sess.APIKey, false)
	if err != nil {
		h.renderFetchError(w, r, err, model.EndpointGuildRaid, "raid", "Guild Raid")
		return
	}

	page := toRaidPage(h.basePage(w, r, "Guild Raid", "raid", true), view)
	h.render(w, "raid", page)
}

// Refresh forces a re-fetch of one endpoint and redirects back to its page.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	if !validateCSRF(r) {
		http.Error(w, "invalid CSRF token", http.StatusForbidden)
		return
	}

	sess, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	endpoint, err := model.ParseEndpoint(r.PathValue("endpoint"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if _, err := h.snapshots.Get(r.Context(), endpoint, sess.APIKey, true); err != nil {
		kind, msg := classifyFetchError(err, endpoint)
		setFlash(w, kind, "Refresh failed: "+msg)
	} else {
		setFlash(w, "success", "Refreshed from the Tacticus API.")
	}

	http.Redirect(w, r, pagePath(endpoint), http.StatusSeeOther)
}

// requireSession resolves the session or redirects to the connect page.
func (h *Handler) requireSession(w http.ResponseWriter, r *http.Request) (*driven.Session, bool) {
	sess := h.currentSession(r)
	if sess == nil {
		setFlash(w, "error", "Please enter your API key first.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return nil, false
	}
	return sess, true
}

// renderFetchError shows the page shell with a classified notice. An
// invalid-key failure additionally tears the session down, since the key
// will never work again.
func (h *Handler) renderFetchError(w http.ResponseWriter, r *http.Request, err error, endpoint model.Endpoint, name, title string) {
	if errors.Is(err, model.ErrAuthInvalid) {
		h.endSession(w, r)
		setFlash(w, "error", "Your API key was rejected. Please enter it again.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	h.logger.Warn("page fetch failed", "endpoint", endpoint, "error", err)

	kind, msg := classifyFetchError(err, endpoint)
	page := h.basePage(w, r, title, name, true)
	page.HasData = false
	if page.Flash == nil {
		page.Flash = &vm.Flash{Kind: kind, Message: msg}
	}

	switch name {
	case "player":
		h.render(w, name, vm.PlayerPage{Page: page})
	case "guild":
		h.render(w, name, vm.GuildPage{Page: page})
	case "raid":
		h.render(w, name, vm.RaidPage{Page: page})
	default:
		h.render(w, name, vm.IndexPage{Page: page})
	}
}

// classifyFetchError maps the fetch error taxonomy onto user-facing notices.
func classifyFetchError(err error, endpoint model.Endpoint) (kind, message string) {
	var scopeErr *model.ScopeError

	switch {
	case errors.Is(err, model.ErrAuthInvalid):
		return "error", "invalid API key, please enter it again."
	case errors.As(err, &scopeErr):
		return "error", fmt.Sprintf("this feature requires the %s scope on your API key.", scopeErr.Endpoint.ScopeName())
	case errors.Is(err, model.ErrNotFound):
		if endpoint == model.EndpointGuild {
			return "info", "this player is not in a guild."
		}
		return "info", "no data found upstream."
	default:
		return "error", "the Tacticus API is unreachable right now. Use refresh to retry."
	}
}

// pagePath maps an endpoint to its GUI page.
func pagePath(endpoint model.Endpoint) string {
	switch endpoint {
	case model.EndpointGuild:
		return "/app/guild"
	case model.EndpointGuildRaid:
		return "/app/raid"
	default:
		return "/app/player"
	}
}
