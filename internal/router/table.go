package router

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrRouteNotFound = errors.New("no route matches path")
	ErrRedirectLoop  = errors.New("too many redirects")
	ErrInvalidTable  = errors.New("invalid route table")
)

// Action is the outcome of a guard check.
type Action int

const (
	Proceed Action = iota
	RedirectLogin
	RedirectLanding
)

func (a Action) String() string {
	switch a {
	case Proceed:
		return "proceed"
	case RedirectLogin:
		return "redirect-login"
	case RedirectLanding:
		return "redirect-landing"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// Decision is the guard's verdict for one route. Target is empty when Action is [Proceed].
type Decision struct {
	Action Action
	Target string
}

// Table is an immutable set of routes with a login and a landing path.
type Table struct {
	routes  map[string]Route
	order   []string
	login   string
	landing string
}

// NewTable validates routes and builds a table whose authenticated landing view is landing.
func NewTable(routes []Route, landing string) (*Table, error) {
	t := &Table{
		routes:  make(map[string]Route, len(routes)),
		order:   make([]string, 0, len(routes)),
		login:   LoginPath,
		landing: landing,
	}

	for _, r := range routes {
		if !strings.HasPrefix(r.Path, "/") {
			return nil, fmt.Errorf("%w: path %q must start with /", ErrInvalidTable, r.Path)
		}
		if _, dup := t.routes[r.Path]; dup {
			return nil, fmt.Errorf("%w: duplicate path %q", ErrInvalidTable, r.Path)
		}
		if (r.View == "") == (r.Redirect == "") {
			return nil, fmt.Errorf("%w: route %q needs exactly one of view or redirect", ErrInvalidTable, r.Path)
		}
		t.routes[r.Path] = r
		t.order = append(t.order, r.Path)
	}

	for _, r := range t.routes {
		if r.IsRedirect() {
			if _, ok := t.routes[r.Redirect]; !ok {
				return nil, fmt.Errorf("%w: %q redirects to unknown path %q", ErrInvalidTable, r.Path, r.Redirect)
			}
		}
	}

	login, ok := t.routes[t.login]
	if !ok || login.IsRedirect() {
		return nil, fmt.Errorf("%w: login route %q must render a view", ErrInvalidTable, t.login)
	}
	if login.Meta.RequiresAuth {
		return nil, fmt.Errorf("%w: login route cannot require auth", ErrInvalidTable)
	}

	land, ok := t.routes[t.landing]
	if !ok || land.IsRedirect() {
		return nil, fmt.Errorf("%w: landing route %q must render a view", ErrInvalidTable, t.landing)
	}
	if land.Meta.Entry {
		return nil, fmt.Errorf("%w: landing route %q cannot be an entry view", ErrInvalidTable, t.landing)
	}

	return t, nil
}

// DefaultTable builds [DefaultRoutes] with the given landing path.
func DefaultTable(landing string) (*Table, error) {
	if landing == "" {
		landing = DefaultLanding
	}
	return NewTable(DefaultRoutes(), landing)
}

// Resolve returns the route registered for path. Matching is exact.
func (t *Table) Resolve(path string) (Route, error) {
	r, ok := t.routes[path]
	if !ok {
		return Route{}, fmt.Errorf("%w: %s", ErrRouteNotFound, path)
	}
	return r, nil
}

// Routes returns the routes in registration order.
func (t *Table) Routes() []Route {
	out := make([]Route, 0, len(t.order))
	for _, p := range t.order {
		out = append(out, t.routes[p])
	}
	return out
}

func (t *Table) Login() string   { return t.login }
func (t *Table) Landing() string { return t.landing }

// Guard decides whether navigation to r may proceed given session presence.
func (t *Table) Guard(r Route, authenticated bool) Decision {
	switch {
	case !authenticated && r.Meta.RequiresAuth:
		return Decision{Action: RedirectLogin, Target: t.login}
	case authenticated && r.Meta.Entry:
		return Decision{Action: RedirectLanding, Target: t.landing}
	default:
		return Decision{Action: Proceed}
	}
}
