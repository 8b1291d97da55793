package router

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/mfx/internal/session"
)

// MaxRedirects bounds the hops followed while resolving one navigation.
const MaxRedirects = 5

// Outcome describes a resolved navigation.
type Outcome struct {
	Requested string `json:"requested"`
	Route     Route  `json:"route"`
	// Chain lists every path visited, starting with Requested and ending with Route.Path.
	Chain []string `json:"chain"`
	// Guarded is set when the guard, not a static redirect, changed the destination.
	Guarded bool   `json:"guarded"`
	Reason  string `json:"reason,omitempty"`
}

// Redirected reports whether the final route differs from the requested path.
func (o Outcome) Redirected() bool { return len(o.Chain) > 1 }

// Listener is notified after a navigation is committed.
type Listener func(Outcome)

// Navigator applies the table and guard to navigation requests and tracks the current route.
type Navigator struct {
	table  *Table
	store  session.Store
	logger *log.Logger

	mu        sync.Mutex
	current   *Route
	listeners []Listener
}

// NewNavigator creates a navigator reading session presence from store.
func NewNavigator(table *Table, store session.Store, logger *log.Logger) *Navigator {
	if logger == nil {
		logger = log.Default()
	}
	return &Navigator{table: table, store: store, logger: logger}
}

// Table returns the route table.
func (n *Navigator) Table() *Table { return n.table }

// Resolve evaluates path without committing it.
//
// Static redirects are followed first, then the guard. Session presence is read
// once so every hop sees the same answer.
func (n *Navigator) Resolve(path string) (Outcome, error) {
	authenticated := session.Present(n.store)
	out := Outcome{Requested: path, Chain: []string{path}}

	current := path
	for hops := 0; ; hops++ {
		if hops > MaxRedirects {
			return Outcome{}, fmt.Errorf("%w: %v", ErrRedirectLoop, out.Chain)
		}

		r, err := n.table.Resolve(current)
		if err != nil {
			return Outcome{}, err
		}

		if r.IsRedirect() {
			current = r.Redirect
			out.Chain = append(out.Chain, current)
			continue
		}

		d := n.table.Guard(r, authenticated)
		if d.Action == Proceed {
			out.Route = r
			return out, nil
		}

		out.Guarded = true
		current = d.Target
		out.Chain = append(out.Chain, current)
	}
}

// Navigate resolves path and makes the result the current route.
//
// On error the current route is unchanged and listeners are not called.
func (n *Navigator) Navigate(path string) (Outcome, error) {
	out, err := n.Resolve(path)
	if err != nil {
		n.logger.Debug("navigation rejected", "path", path, "error", err)
		return Outcome{}, err
	}
	n.commit(out)
	return out, nil
}

// ForceLogin commits the login view, recording reason on the outcome.
//
// The guard is skipped: the login view is entered even if a credential is
// still present, for example when clearing it failed.
func (n *Navigator) ForceLogin(reason string) (Outcome, error) {
	login := n.table.Login()
	r, err := n.table.Resolve(login)
	if err != nil {
		return Outcome{}, err
	}
	out := Outcome{Requested: login, Route: r, Chain: []string{login}, Reason: reason}
	n.logger.Info("forced navigation", "to", out.Route.Path, "reason", reason)
	n.commit(out)
	return out, nil
}

// Current returns the committed route, if any.
func (n *Navigator) Current() (Route, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return Route{}, false
	}
	return *n.current, true
}

// OnNavigate registers fn to run after every committed navigation.
func (n *Navigator) OnNavigate(fn Listener) {
	n.mu.Lock()
	n.listeners = append(n.listeners, fn)
	n.mu.Unlock()
}

func (n *Navigator) commit(out Outcome) {
	n.mu.Lock()
	r := out.Route
	n.current = &r
	listeners := append([]Listener(nil), n.listeners...)
	n.mu.Unlock()

	if out.Redirected() {
		n.logger.Debug("navigation redirected", "requested", out.Requested, "chain", out.Chain)
	}
	for _, fn := range listeners {
		fn(out)
	}
}
