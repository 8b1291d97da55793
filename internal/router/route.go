package router

import (
	"unicode"
	"unicode/utf8"
)

// View identifies a screen the host knows how to render.
type View string

const (
	ViewLogin     View = "login"
	ViewRegister  View = "register"
	ViewHome      View = "home"
	ViewSwipe     View = "swipe"
	ViewGroups    View = "groups"
	ViewFavorites View = "favorites"
	ViewSettings  View = "settings"
)

const (
	LoginPath      = "/login"
	RegisterPath   = "/register"
	DefaultLanding = "/home"
)

// Meta carries display and access flags for a route.
type Meta struct {
	ShowHeader   bool `json:"show_header"`
	RequiresAuth bool `json:"requires_auth"`
	// Entry marks login and register: authenticated users are sent to the landing view.
	Entry bool `json:"entry"`
}

// Route describes one path in the table.
type Route struct {
	Path     string `json:"path"`
	Name     string `json:"name"`
	View     View   `json:"view,omitempty"`
	Redirect string `json:"redirect,omitempty"`
	Meta     Meta   `json:"meta"`
}

// IsRedirect reports whether the route forwards to another path instead of rendering a view.
func (r Route) IsRedirect() bool { return r.Redirect != "" }

// Title returns a display label for the route.
func (r Route) Title() string {
	if r.Name == "" {
		return r.Path
	}
	first, size := utf8.DecodeRuneInString(r.Name)
	return string(unicode.ToUpper(first)) + r.Name[size:]
}

// DefaultRoutes returns the route table mfx ships with.
func DefaultRoutes() []Route {
	entry := Meta{ShowHeader: false, RequiresAuth: false, Entry: true}
	protected := Meta{ShowHeader: true, RequiresAuth: true}

	return []Route{
		{Path: "/", Name: "root", Redirect: LoginPath},
		{Path: LoginPath, Name: "login", View: ViewLogin, Meta: entry},
		{Path: RegisterPath, Name: "register", View: ViewRegister, Meta: entry},
		{Path: "/home", Name: "home", View: ViewHome, Meta: protected},
		{Path: "/swipe", Name: "swipe", View: ViewSwipe, Meta: protected},
		{Path: "/groups", Name: "groups", View: ViewGroups, Meta: protected},
		{Path: "/favorites", Name: "favorites", View: ViewFavorites, Meta: protected},
		{Path: "/settings", Name: "settings", View: ViewSettings, Meta: protected},
	}
}
