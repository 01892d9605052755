// Package router maps navigation paths to views and guards them against the
// current session.
package router

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// maxHops bounds redirect chains.
const maxHops = 8

var (
	ErrUnknownRoute = errors.New("router: unknown route")
	ErrRedirectLoop = errors.New("router: too many redirects")
)

// Forced is a navigation the router performed on its own, outside a user action.
type Forced struct {
	Cause    error
	Decision Decision
}

// Router tracks the current route and enforces the guard on every navigation.
type Router struct {
	table   *Table
	session SessionState
	expire  func()
	forced  chan Forced

	mu      sync.RWMutex
	current Resolved
}

// Option configures a Router.
type Option func(*Router)

// WithTable replaces the default route table.
func WithTable(t *Table) Option {
	return func(r *Router) { r.table = t }
}

// WithExpire registers a callback run before a forced redirect to login,
// typically the session's in-memory clear.
func WithExpire(fn func()) Option {
	return func(r *Router) { r.expire = fn }
}

// New creates a router over the default route table.
func New(session SessionState, opts ...Option) *Router {
	r := &Router{
		table:   NewTable(Routes),
		session: session,
		forced:  make(chan Forced, 1),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Table returns the route table.
func (r *Router) Table() *Table { return r.table }

// Current returns the route last navigated to.
func (r *Router) Current() Resolved {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Navigate resolves p, runs the guard and follows redirects until a route is
// allowed. The returned Decision carries the first non-allow verdict (or
// Allow) and the route that ends up current.
func (r *Router) Navigate(p string) (Decision, error) {
	first := Decision{Outcome: Allow}
	guarded := false
	target := p
	for range maxHops {
		route, ok := r.table.Lookup(target)
		if !ok {
			return Decision{}, fmt.Errorf("%w: %s", ErrUnknownRoute, Clean(target))
		}
		if route.Redirect != "" {
			target = route.Redirect
			continue
		}

		d := Evaluate(route.Requires, r.session)
		if d.Outcome == Allow {
			first.Route = route
			r.mu.Lock()
			r.current = route
			r.mu.Unlock()
			log.Debug().Str("path", p).Str("route", route.Path).Str("outcome", first.Outcome.String()).Msg("navigate")
			return first, nil
		}
		if !guarded {
			first = d
			guarded = true
		}
		log.Debug().Str("route", route.Path).Str("outcome", d.Outcome.String()).Str("target", d.Target).Msg("guard")
		target = d.Target
	}
	return Decision{}, fmt.Errorf("%w: %s", ErrRedirectLoop, Clean(p))
}

// Visible returns the routes the current session may open, in table order.
// Redirect-only and guest-only routes are left out for signed-in users.
func (r *Router) Visible() []Resolved {
	var out []Resolved
	for _, route := range r.table.All() {
		if route.View == "" {
			continue
		}
		if Evaluate(route.Requires, r.session).Outcome == Allow {
			out = append(out, route)
		}
	}
	return out
}

// RedirectToLogin forces navigation to the login route after the session
// could not be refreshed. The outcome is published on Forced.
func (r *Router) RedirectToLogin(cause error) {
	if r.expire != nil {
		r.expire()
	}
	d, err := r.Navigate(LoginPath)
	if err != nil {
		log.Err(err).Msg("forced navigation to login")
		return
	}
	log.Warn().Err(cause).Msg("session ended, redirecting to login")
	select {
	case r.forced <- Forced{Cause: cause, Decision: d}:
	default:
		// A forced navigation is already pending.
	}
}

// ForcedNavigations delivers navigations the router performed on its own.
func (r *Router) ForcedNavigations() <-chan Forced { return r.forced }
