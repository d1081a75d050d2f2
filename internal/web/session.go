package web

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"mafia/internal/shell"
)

// sessionCookie names the cookie binding a visitor to their shell.
const sessionCookie = "mafia_session"

// navProxy forwards navigation to the websocket connection currently
// attached to the session, if any. Visitors without a live connection
// navigate with plain page loads, so there is nothing to forward.
type navProxy struct {
	mu     sync.Mutex
	target shell.Navigator
}

func (n *navProxy) set(target shell.Navigator) {
	n.mu.Lock()
	n.target = target
	n.mu.Unlock()
}

// clear detaches the target, but only if it is still the one given.
func (n *navProxy) clear(target shell.Navigator) {
	n.mu.Lock()
	if n.target == target {
		n.target = nil
	}
	n.mu.Unlock()
}

func (n *navProxy) current() shell.Navigator {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.target
}

func (n *navProxy) PushInternal(path string) {
	if t := n.current(); t != nil {
		t.PushInternal(path)
	}
}

func (n *navProxy) LoadExternal(url string) {
	if t := n.current(); t != nil {
		t.LoadExternal(url)
	}
}

// session binds one visitor to one shell.
type session struct {
	id    string
	shell *shell.Shell
	nav   *navProxy

	mu       sync.Mutex
	client   *wsClient
	lastSeen time.Time
}

func (s *session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *session) seen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// sessions is an in-memory registry of visitor shells.
type sessions struct {
	mu   sync.Mutex
	byID map[string]*session
	ttl  time.Duration
}

func newSessions(ttl time.Duration) *sessions {
	return &sessions{byID: map[string]*session{}, ttl: ttl}
}

// get returns the session for the id, or nil when unknown or expired.
func (s *sessions) get(id string) *session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.byID[id]
	if !ok {
		return nil
	}
	sess.touch(time.Now())
	return sess
}

// create registers a fresh shell starting at the given URL.
func (s *sessions) create(startURL string) *session {
	nav := &navProxy{}
	sess := &session{
		id:       uuid.NewString(),
		shell:    shell.New(startURL, nav),
		nav:      nav,
		lastSeen: time.Now(),
	}
	s.mu.Lock()
	s.byID[sess.id] = sess
	s.mu.Unlock()
	return sess
}

// prune drops sessions idle past the TTL and reports how many were removed.
func (s *sessions) prune(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, sess := range s.byID {
		if now.Sub(sess.seen()) > s.ttl {
			delete(s.byID, id)
			removed++
		}
	}
	return removed
}

func (s *sessions) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}
