package web

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"mafia/internal/route"
	"mafia/internal/shell"
	"mafia/internal/view"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// wsMsg is the envelope for shell events and render pushes.
//
// Client to server: navigate {url}, url_changed {url}, create, join.
// Server to client: push_url {path}, load_url {url}, render {target, html}.
type wsMsg struct {
	Type   string `json:"type"`
	URL    string `json:"url,omitempty"`
	Path   string `json:"path,omitempty"`
	Target string `json:"target,omitempty"`
	HTML   string `json:"html,omitempty"`
}

// wsClient is one live page connection. It implements shell.Navigator so
// navigation decided by the shell reaches the browser.
type wsClient struct {
	mu    sync.Mutex
	conn  *websocket.Conn
	shell *shell.Shell
}

func (c *wsClient) send(m wsMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.WriteJSON(m); err != nil {
		log.Printf("ws: write %s: %v", m.Type, err)
	}
}

// PushInternal tells the page to push the path onto its history, then
// feeds the shell the URL-changed event that push implies.
func (c *wsClient) PushInternal(path string) {
	c.send(wsMsg{Type: "push_url", Path: path})
	c.shell.HandleURLChanged(path)
}

// LoadExternal sends the page away with a full navigation.
func (c *wsClient) LoadExternal(url string) {
	c.send(wsMsg{Type: "load_url", URL: url})
}

// pushRender replaces the page's main content and footer with fragments
// rendered from the snapshot.
func (c *wsClient) pushRender(snap shell.Snapshot) {
	main, err := view.Main(snap)
	if err != nil {
		log.Printf("ws: render main: %v", err)
		return
	}
	footer, err := view.Footer(snap)
	if err != nil {
		log.Printf("ws: render footer: %v", err)
		return
	}
	c.send(wsMsg{Type: "render", Target: "main", HTML: string(main)})
	c.send(wsMsg{Type: "render", Target: "footer", HTML: string(footer)})
}

// attach makes the client the session's live page connection.
func (s *session) attach(c *wsClient) {
	s.nav.set(c)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.client = c
	s.shell.OnChange(c.pushRender)
}

// detach tears the client down unless a newer connection has taken over,
// so a stale close cannot strip the live connection's render hook.
func (s *session) detach(c *wsClient) {
	s.nav.clear(c)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client != c {
		return
	}
	s.client = nil
	s.shell.OnChange(nil)
}

// serveWebSocket attaches a page connection to the visitor's shell and
// pumps events until the page goes away.
func (h *handler) serveWebSocket(w http.ResponseWriter, r *http.Request) {
	if !websocket.IsWebSocketUpgrade(r) {
		writeError(w, http.StatusBadRequest, "websocket upgrade required")
		return
	}

	// A page connecting without a session starts at the root; the page
	// reports its real URL with a url_changed event if it differs.
	sess, created := h.lookupOrCreate(r, requestURL(r, route.RootPath))
	respHeader := http.Header{}
	if created {
		respHeader.Add("Set-Cookie", sessionCookieFor(sess).String())
	}

	conn, err := upgrader.Upgrade(w, r, respHeader)
	if err != nil {
		log.Printf("ws: upgrade: %v", err)
		return
	}
	defer conn.Close()

	client := &wsClient{conn: conn, shell: sess.shell}
	sess.attach(client)
	defer sess.detach(client)

	// Sync the page with the model it may have missed while disconnected.
	client.pushRender(sess.shell.Snapshot())

	for {
		var msg wsMsg
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		sess.touch(time.Now())

		switch msg.Type {
		case "navigate":
			sess.shell.HandleNavigationRequest(msg.URL)
		case "url_changed":
			sess.shell.HandleURLChanged(msg.URL)
		case "create":
			sess.shell.HandleStateUpdate(shell.Lobby(shell.Host))
		case "join":
			sess.shell.HandleStateUpdate(shell.Lobby(shell.Player))
		default:
			log.Printf("ws: unknown message type %q", msg.Type)
		}
	}
}
