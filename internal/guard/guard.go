// Package guard enforces role-scoped access on top of the session
// controller: unauthenticated or wrongly-scoped visitors are bounced to the
// right login surface with the requested path preserved, banned sessions are
// parked on the banned page, and nothing protected renders while the
// controller is still reconciling.
package guard

import (
	"net/url"

	"github.com/riarumoda/hjslamet-frontend/internal/session"
)

type DecisionKind int

const (
	Allow DecisionKind = iota
	Loading
	Redirect
)

type Decision struct {
	Kind   DecisionKind
	Target string
	// ReturnTo is the originally requested path, set when Target is a login
	// surface so the session controller can navigate back after login.
	ReturnTo string
}

// Decide maps the current path and session snapshot to an access decision.
// Scopes are non-overlapping: a member session on /admin is treated exactly
// like no session at all, and vice versa.
func Decide(path string, snap session.Snapshot) Decision {
	// A banned session is terminal; it supersedes everything, return paths
	// included.
	if snap.State == session.StateBanned && path != session.PathBanned {
		return Decision{Kind: Redirect, Target: session.PathBanned}
	}

	if !session.ProtectedPath(path) {
		return Decision{Kind: Allow}
	}

	switch snap.State {
	case session.StateUninitialized, session.StateReconciling:
		// Never redirect before the state is known; that way an authenticated
		// user reloading a protected page sees a loading affordance instead
		// of a login flicker.
		return Decision{Kind: Loading}
	case session.StateAuthenticated:
		if snap.Role() == session.ScopeForPath(path) {
			return Decision{Kind: Allow}
		}
	}

	return loginRedirect(path)
}

func loginRedirect(path string) Decision {
	scope := session.ScopeForPath(path)
	target := session.LoginPath(scope)
	q := url.Values{"returnUrl": {path}}
	return Decision{
		Kind:     Redirect,
		Target:   target + "?" + q.Encode(),
		ReturnTo: path,
	}
}
