package web

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialWS(t *testing.T) (*websocket.Conn, func()) {
	t.Helper()
	srv := httptest.NewServer(newTestHandler())
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		srv.Close()
		t.Fatalf("dial: %v", err)
	}
	return conn, func() {
		conn.Close()
		srv.Close()
	}
}

func readMsg(t *testing.T, conn *websocket.Conn) wsMsg {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg wsMsg
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg
}

// readRender consumes a main+footer render pair and returns the main HTML.
func readRender(t *testing.T, conn *websocket.Conn) (string, string) {
	t.Helper()
	main := readMsg(t, conn)
	if main.Type != "render" || main.Target != "main" {
		t.Fatalf("expected main render, got %+v", main)
	}
	footer := readMsg(t, conn)
	if footer.Type != "render" || footer.Target != "footer" {
		t.Fatalf("expected footer render, got %+v", footer)
	}
	return main.HTML, footer.HTML
}

func TestWSInitialRender(t *testing.T) {
	conn, done := dialWS(t)
	defer done()

	main, footer := readRender(t, conn)
	if !strings.Contains(main, "Create game") {
		t.Errorf("initial main = %s", main)
	}
	if strings.Contains(footer, `href="/settings"`) {
		t.Errorf("settings tab should be hidden while viewing: %s", footer)
	}
}

func TestWSCreateRendersHostLobby(t *testing.T) {
	conn, done := dialWS(t)
	defer done()
	readRender(t, conn)

	if err := conn.WriteJSON(wsMsg{Type: "create"}); err != nil {
		t.Fatalf("write: %v", err)
	}

	main, footer := readRender(t, conn)
	if !strings.Contains(main, "hosting this game") {
		t.Errorf("main after create = %s", main)
	}
	if !strings.Contains(footer, `href="/settings"`) {
		t.Errorf("settings tab should appear after create: %s", footer)
	}
}

func TestWSJoinRendersPlayerLobby(t *testing.T) {
	conn, done := dialWS(t)
	defer done()
	readRender(t, conn)

	if err := conn.WriteJSON(wsMsg{Type: "join"}); err != nil {
		t.Fatalf("write: %v", err)
	}

	main, _ := readRender(t, conn)
	if !strings.Contains(main, "joined as a player") {
		t.Errorf("main after join = %s", main)
	}
}

func TestWSInternalNavigation(t *testing.T) {
	conn, done := dialWS(t)
	defer done()
	readRender(t, conn)

	if err := conn.WriteJSON(wsMsg{Type: "navigate", URL: "/info"}); err != nil {
		t.Fatalf("write: %v", err)
	}

	push := readMsg(t, conn)
	if push.Type != "push_url" || push.Path != "/info" {
		t.Fatalf("expected push_url /info, got %+v", push)
	}
	main, _ := readRender(t, conn)
	if !strings.Contains(main, "About Mafia") {
		t.Errorf("main after navigate = %s", main)
	}
}

func TestWSExternalNavigation(t *testing.T) {
	conn, done := dialWS(t)
	defer done()
	readRender(t, conn)

	target := "https://en.wikipedia.org/wiki/Mafia_(party_game)"
	if err := conn.WriteJSON(wsMsg{Type: "navigate", URL: target}); err != nil {
		t.Fatalf("write: %v", err)
	}

	load := readMsg(t, conn)
	if load.Type != "load_url" || load.URL != target {
		t.Fatalf("expected load_url, got %+v", load)
	}
}

// TestWSStaleCloseKeepsLiveConnection reconnects a second page for the
// same visitor, then closes the first. The stale teardown must not strip
// the live connection's render hook.
func TestWSStaleCloseKeepsLiveConnection(t *testing.T) {
	srv := httptest.NewServer(newTestHandler())
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	first, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer first.Close()
	cookies := resp.Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie on the first dial")
	}
	readRender(t, first)

	header := http.Header{}
	header.Set("Cookie", cookies[0].Name+"="+cookies[0].Value)
	second, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	if err != nil {
		t.Fatalf("dial second: %v", err)
	}
	defer second.Close()
	readRender(t, second)

	first.Close()

	if err := second.WriteJSON(wsMsg{Type: "create"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	main, _ := readRender(t, second)
	if !strings.Contains(main, "hosting this game") {
		t.Errorf("live connection missed the render after a stale close: %s", main)
	}
}

// TestWSInternalNavigationOwnHostURL checks that an absolute URL pointing
// at the app's own host is pushed onto history instead of handed off as a
// full page load.
func TestWSInternalNavigationOwnHostURL(t *testing.T) {
	srv := httptest.NewServer(newTestHandler())
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	readRender(t, conn)

	if err := conn.WriteJSON(wsMsg{Type: "navigate", URL: srv.URL + "/info"}); err != nil {
		t.Fatalf("write: %v", err)
	}

	push := readMsg(t, conn)
	if push.Type != "push_url" || push.Path != "/info" {
		t.Fatalf("expected push_url /info, got %+v", push)
	}
	main, _ := readRender(t, conn)
	if !strings.Contains(main, "About Mafia") {
		t.Errorf("main after navigate = %s", main)
	}
}

func TestWSURLChanged(t *testing.T) {
	conn, done := dialWS(t)
	defer done()
	readRender(t, conn)

	// The page reports a history pop; only URL and route follow.
	if err := conn.WriteJSON(wsMsg{Type: "create"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	readRender(t, conn)

	if err := conn.WriteJSON(wsMsg{Type: "url_changed", URL: "/settings"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	main, _ := readRender(t, conn)
	if !strings.Contains(main, "Nothing to configure yet") {
		t.Errorf("main after url change = %s", main)
	}

	// Back on the game route, the lobby state is still there.
	if err := conn.WriteJSON(wsMsg{Type: "url_changed", URL: "/game"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	main, _ = readRender(t, conn)
	if !strings.Contains(main, "hosting this game") {
		t.Errorf("lobby state lost across url changes: %s", main)
	}
}
