// Package route maps URL paths to logical pages.
package route

// Canonical paths for each page.
const (
	RootPath     = "/"
	GamePath     = "/game"
	InfoPath     = "/info"
	SettingsPath = "/settings"
	// NotFoundPath is the internal representation for unknown paths.
	// Nothing links to it directly.
	NotFoundPath = "/not_found"
)

// Route identifies the logical page derived from a URL path.
type Route int

const (
	Game Route = iota
	Info
	Settings
	NotFound
)

// FromPath derives the route for a URL path. It is total over strings:
// unknown paths map to NotFound. The empty and root paths land on the game
// page. Matching is exact; trailing-slash variants are unknown paths.
func FromPath(path string) Route {
	switch path {
	case "", RootPath, GamePath:
		return Game
	case InfoPath:
		return Info
	case SettingsPath:
		return Settings
	default:
		return NotFound
	}
}

// Path returns the canonical path for the route.
func (r Route) Path() string {
	switch r {
	case Game:
		return GamePath
	case Info:
		return InfoPath
	case Settings:
		return SettingsPath
	default:
		return NotFoundPath
	}
}

// Title returns the label shown for the route in navigation.
func (r Route) Title() string {
	switch r {
	case Game:
		return "Game"
	case Info:
		return "Info"
	case Settings:
		return "Settings"
	default:
		return "Not Found"
	}
}

func (r Route) String() string {
	switch r {
	case Game:
		return "game"
	case Info:
		return "info"
	case Settings:
		return "settings"
	default:
		return "not_found"
	}
}
