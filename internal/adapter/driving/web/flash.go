package web

import (
	"net/http"
	"net/url"

	vm "github.com/ericfisherdev/tacticuspanel/internal/adapter/driving/web/viewmodel"
)

const (
	flashCookieName     = "flash"
	flashKindCookieName = "flash_kind"
)

// setFlash queues a one-shot notice for the next page render.
func setFlash(w http.ResponseWriter, kind, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    url.QueryEscape(message),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     flashKindCookieName,
		Value:    kind,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// takeFlash reads and clears the queued notice, if any.
func takeFlash(w http.ResponseWriter, r *http.Request) *vm.Flash {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	message, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		message = cookie.Value
	}

	kind := "info"
	if kc, err := r.Cookie(flashKindCookieName); err == nil && kc.Value != "" {
		kind = kc.Value
	}

	for _, name := range []string{flashCookieName, flashKindCookieName} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteStrictMode,
		})
	}

	return &vm.Flash{Kind: kind, Message: message}
}
