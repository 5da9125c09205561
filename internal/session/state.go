package session

import (
	"strings"

	"github.com/riarumoda/hjslamet-frontend/internal/models"
)

type State int

const (
	StateUninitialized State = iota
	StateReconciling
	StateAuthenticated
	StateUnauthenticated
	StateBanned
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReconciling:
		return "reconciling"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateBanned:
		return "banned"
	}
	return "unknown"
}

// Application surfaces the controller navigates to. The member login surface
// accepts a returnUrl query parameter; the banned page is terminal.
const (
	PathMemberLogin = "/auth/login"
	PathAdminLogin  = "/admin/auth"
	PathBanned      = "/account/banned"
)

// LoginPath returns the login entry point for a role scope.
func LoginPath(scope models.ProfileKind) string {
	if scope == models.KindAdmin {
		return PathAdminLogin
	}
	return PathMemberLogin
}

// ScopeForPath maps a route to the role scope that governs it: the /admin
// tree is admin territory, everything else belongs to the member storefront.
func ScopeForPath(path string) models.ProfileKind {
	if path == "/admin" || strings.HasPrefix(path, "/admin/") {
		return models.KindAdmin
	}
	return models.KindMember
}

// ProtectedPath reports whether a route requires an authenticated session.
// Login surfaces and the banned page stay reachable while logged out.
func ProtectedPath(path string) bool {
	switch {
	case path == PathBanned, path == PathAdminLogin:
		return false
	case path == "/admin" || strings.HasPrefix(path, "/admin/"):
		return true
	case path == "/account" || strings.HasPrefix(path, "/account/"):
		return true
	}
	return false
}

// Snapshot is the controller's externally visible state at one instant.
type Snapshot struct {
	State    State
	Scope    models.ProfileKind
	Identity *models.Identity
	Profile  models.Profile
}

// Role of the live session; empty unless authenticated.
func (s Snapshot) Role() models.ProfileKind {
	if s.State != StateAuthenticated {
		return ""
	}
	return s.Profile.Kind
}
