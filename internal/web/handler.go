// Package web hosts the shell over HTTP: it serves the rendered document
// per route, turns form posts into state-update events, and carries live
// shell events over a websocket.
package web

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"mafia/internal/route"
	"mafia/internal/shell"
	"mafia/internal/view"
)

type handler struct {
	registry *sessions
}

// NewHandler builds the HTTP handler for the shell server.
func NewHandler(registry *sessions) http.Handler {
	h := &handler{registry: registry}

	r := mux.NewRouter()
	r.HandleFunc(route.RootPath, h.servePage).Methods(http.MethodGet)
	r.HandleFunc(route.GamePath, h.servePage).Methods(http.MethodGet)
	r.HandleFunc(route.InfoPath, h.servePage).Methods(http.MethodGet)
	r.HandleFunc(route.SettingsPath, h.servePage).Methods(http.MethodGet)
	r.HandleFunc(route.GamePath+"/create", h.stateAction(shell.Lobby(shell.Host))).Methods(http.MethodPost)
	r.HandleFunc(route.GamePath+"/join", h.stateAction(shell.Lobby(shell.Player))).Methods(http.MethodPost)
	r.HandleFunc("/ws", h.serveWebSocket)
	r.HandleFunc("/api/healthz", handleHealthz).Methods(http.MethodGet)
	// Unknown paths still render a page; FromPath resolves them to the
	// not-found route.
	r.NotFoundHandler = http.HandlerFunc(h.servePage)
	return r
}

// servePage treats a full page load as a URL-changed event against the
// visitor's shell, then renders the document for the resulting model.
func (h *handler) servePage(w http.ResponseWriter, r *http.Request) {
	sess := h.ensureSession(w, r)
	// Only a GET is a navigation. Other methods land here through the
	// not-found fallback and must not move the visitor's URL; they render
	// the not-found page without touching the model.
	if r.Method == http.MethodGet {
		sess.shell.HandleURLChanged(requestURL(r, r.URL.Path))
	}

	snap := sess.shell.Snapshot()
	if r.Method != http.MethodGet {
		snap.Route = route.FromPath(r.URL.Path)
	}
	doc, err := view.Document(snap)
	if err != nil {
		log.Printf("render %s: %v", r.URL.Path, err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if snap.Route == route.NotFound {
		w.WriteHeader(http.StatusNotFound)
	}
	w.Write(doc)
}

// stateAction turns a form post into a state-update event and sends the
// visitor back to the game page.
func (h *handler) stateAction(state shell.UIState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := h.ensureSession(w, r)
		sess.shell.HandleStateUpdate(state)
		http.Redirect(w, r, route.GamePath, http.StatusSeeOther)
	}
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// ensureSession resolves the visitor's session from the cookie, creating
// one (and setting the cookie) on first contact.
func (h *handler) ensureSession(w http.ResponseWriter, r *http.Request) *session {
	sess, created := h.lookupOrCreate(r, requestURL(r, r.URL.Path))
	if created {
		http.SetCookie(w, sessionCookieFor(sess))
	}
	return sess
}

// requestURL rebuilds the absolute URL the browser used, so the shell can
// tell the app's own host apart from foreign ones.
func requestURL(r *http.Request, path string) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + path
}

// lookupOrCreate resolves the cookie to a live session, registering a new
// shell at startURL when the visitor is unknown or expired.
func (h *handler) lookupOrCreate(r *http.Request, startURL string) (*session, bool) {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if sess := h.registry.get(c.Value); sess != nil {
			return sess, false
		}
	}
	return h.registry.create(startURL), true
}

func sessionCookieFor(sess *session) *http.Cookie {
	return &http.Cookie{
		Name:     sessionCookie,
		Value:    sess.id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error":   http.StatusText(code),
		"message": msg,
		"status":  code,
	})
}
