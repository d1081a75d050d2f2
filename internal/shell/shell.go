// Package shell owns the application model: current URL, the route derived
// from it, and the in-page UI state. Events mutate the model one at a time.
package shell

import (
	"net/url"
	"sync"

	"mafia/internal/route"
)

// Navigator abstracts the hosting environment's navigation so the shell can
// run without a real browser.
type Navigator interface {
	// PushInternal pushes an app path onto the navigation history. The host
	// is expected to follow up with a URL-changed event.
	PushInternal(path string)
	// LoadExternal leaves the app with a full page navigation.
	LoadExternal(url string)
}

// Snapshot is a point-in-time copy of the model.
type Snapshot struct {
	URL   string
	Route route.Route
	State UIState
}

// Shell holds the model and applies each event to completion before the
// next. The route is always recomputed from the URL, never set directly.
type Shell struct {
	mu       sync.Mutex
	nav      Navigator
	url      *url.URL
	route    route.Route
	state    UIState
	onChange func(Snapshot)
}

// New builds a shell for the given starting URL. The initial state is
// Viewing regardless of the URL; unparsable URLs fall back to the root.
func New(rawURL string, nav Navigator) *Shell {
	u, err := url.Parse(rawURL)
	if err != nil {
		u = &url.URL{Path: route.RootPath}
	}
	return &Shell{
		nav:   nav,
		url:   u,
		route: route.FromPath(u.Path),
		state: Viewing(),
	}
}

// OnChange registers a hook invoked after every model mutation. A nil hook
// disables notifications. The hook runs outside the model lock.
func (s *Shell) OnChange(fn func(Snapshot)) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// Snapshot returns a copy of the current model.
func (s *Shell) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Shell) snapshotLocked() Snapshot {
	return Snapshot{URL: s.url.String(), Route: s.route, State: s.state}
}

// HandleNavigationRequest routes a clicked link. Internal targets are
// pushed onto the navigation history; anything pointing at a foreign host
// loads as a full page navigation, leaving the app. Unparsable requests
// are dropped.
func (s *Shell) HandleNavigationRequest(raw string) {
	target, err := url.Parse(raw)
	if err != nil {
		return
	}

	s.mu.Lock()
	host := s.url.Host
	nav := s.nav
	s.mu.Unlock()
	if nav == nil {
		return
	}

	if isInternal(target, host) {
		path := target.Path
		if path == "" {
			path = route.RootPath
		}
		nav.PushInternal(path)
		return
	}
	nav.LoadExternal(raw)
}

// HandleURLChanged records a new URL and recomputes the route from it. The
// UI state is left untouched.
func (s *Shell) HandleURLChanged(raw string) {
	u, err := url.Parse(raw)
	if err != nil {
		return
	}

	s.mu.Lock()
	s.url = u
	s.route = route.FromPath(u.Path)
	snap := s.snapshotLocked()
	fn := s.onChange
	s.mu.Unlock()

	if fn != nil {
		fn(snap)
	}
}

// HandleStateUpdate overwrites the UI state unconditionally.
func (s *Shell) HandleStateUpdate(state UIState) {
	s.mu.Lock()
	s.state = state
	snap := s.snapshotLocked()
	fn := s.onChange
	s.mu.Unlock()

	if fn != nil {
		fn(snap)
	}
}

// isInternal reports whether the target stays inside the app: a bare path,
// or an absolute URL whose host matches the current one.
func isInternal(target *url.URL, host string) bool {
	if target.Scheme == "" && target.Host == "" {
		return true
	}
	return host != "" && target.Host == host
}
