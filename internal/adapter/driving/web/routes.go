package web

import (
	"io/fs"
	"net/http"
)

// RegisterRoutes registers all web GUI routes on the provided mux.
// Pages live at / and /app/*; static assets are served from the embedded
// filesystem at /static/*.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Static assets (embedded via go:embed).
	staticFS, _ := fs.Sub(StaticFS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	// Page routes.
	mux.HandleFunc("GET /{$}", h.Index)
	mux.HandleFunc("GET /app/player", h.Player)
	mux.HandleFunc("GET /app/guild", h.Guild)
	mux.HandleFunc("GET /app/raid", h.Raid)

	// Actions.
	mux.HandleFunc("POST /app/connect", h.Connect)
	mux.HandleFunc("POST /app/disconnect", h.Disconnect)
	mux.HandleFunc("POST /app/refresh/{endpoint}", h.Refresh)
}
