// Package view renders the document and its fragments from a model
// snapshot using templates embedded at build time.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"mafia/internal/route"
	"mafia/internal/shell"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Tab is one footer navigation entry.
type Tab struct {
	Label  string
	Path   string
	Active bool
}

type layoutData struct {
	Main template.HTML
	Tabs []Tab
}

type lobbyData struct {
	IsHost bool
}

// Tabs returns the footer routes for the state: settings only appears once
// the visitor has left the landing view.
func Tabs(state shell.UIState) []route.Route {
	if state.Phase == shell.PhaseViewing {
		return []route.Route{route.Info, route.Game}
	}
	return []route.Route{route.Info, route.Game, route.Settings}
}

// Document renders the full page for the snapshot.
func Document(snap shell.Snapshot) ([]byte, error) {
	main, err := Main(snap)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	data := layoutData{
		Main: template.HTML(main),
		Tabs: footerTabs(snap),
	}
	if err := templates.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		return nil, fmt.Errorf("render layout: %w", err)
	}
	return buf.Bytes(), nil
}

// Main renders only the main content fragment for the snapshot.
func Main(snap shell.Snapshot) ([]byte, error) {
	name, data := mainTemplate(snap)
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// Footer renders only the footer fragment for the snapshot.
func Footer(snap shell.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	data := layoutData{Tabs: footerTabs(snap)}
	if err := templates.ExecuteTemplate(&buf, "footer", data); err != nil {
		return nil, fmt.Errorf("render footer: %w", err)
	}
	return buf.Bytes(), nil
}

// mainTemplate picks the body for the snapshot. The game route switches on
// the UI state; every other route has a fixed body.
func mainTemplate(snap shell.Snapshot) (string, any) {
	switch snap.Route {
	case route.Info:
		return "info.html", nil
	case route.Settings:
		return "settings.html", nil
	case route.NotFound:
		return "not_found.html", nil
	default:
		switch snap.State.Phase {
		case shell.PhaseLobby:
			return "game_lobby.html", lobbyData{IsHost: snap.State.Role == shell.Host}
		case shell.PhasePlaying:
			return "game_playing.html", nil
		default:
			return "game_landing.html", nil
		}
	}
}

func footerTabs(snap shell.Snapshot) []Tab {
	routes := Tabs(snap.State)
	tabs := make([]Tab, 0, len(routes))
	for _, r := range routes {
		tabs = append(tabs, Tab{
			Label:  r.Title(),
			Path:   r.Path(),
			Active: r == snap.Route,
		})
	}
	return tabs
}
