package session

import (
	"context"
	"errors"
	"log/slog"

	"github.com/riarumoda/hjslamet-frontend/internal/clientstore"
	"github.com/riarumoda/hjslamet-frontend/internal/models"
	"github.com/riarumoda/hjslamet-frontend/internal/token"
)

// Reconcile derives the live session from the persisted client store for the
// route at path, refreshing the token pair when it has gone stale. It is the
// mount-time entry point of the state machine and is re-run whenever the
// active route's role scope changes.
//
// Never-logged-in is the quiet path: missing pieces mean unauthenticated, no
// network call, no notice. A garbled or unrefreshable token is the loud one:
// credentials are cleared, the user is told, and protected areas bounce to
// their login surface.
func (c *Controller) Reconcile(ctx context.Context, path string) Snapshot {
	scope := ScopeForPath(path)
	l := c.log.With("svc", "session.reconcile", "scope", string(scope))

	c.setState(Snapshot{State: StateReconciling, Scope: scope})

	raw, haveToken, err := c.store.Get(clientstore.KeyToken)
	if err != nil {
		l.Error("client store read failed", "error", err)
		c.setState(Snapshot{State: StateUnauthenticated, Scope: scope})
		return c.Snapshot()
	}

	identity, haveIdentity := c.readIdentity(l)
	profile, haveProfile := c.readProfile(l, scope)

	if !haveToken {
		c.setState(Snapshot{State: StateUnauthenticated, Scope: scope})
		return c.Snapshot()
	}

	tok, err := token.Decode(raw)
	if err != nil {
		l.Warn("persisted token unparsable", "error", err)
		c.clearSessionKeys()
		c.setState(Snapshot{State: StateUnauthenticated, Scope: scope})
		c.notify(msgSessionExpired)
		if ProtectedPath(path) {
			c.navigate(LoginPath(scope))
		}
		return c.Snapshot()
	}

	if !haveIdentity || !haveProfile {
		c.setState(Snapshot{State: StateUnauthenticated, Scope: scope})
		return c.Snapshot()
	}

	if tok.StaleAt(c.now()) {
		return c.reconcileStale(ctx, scope, tok, l)
	}

	// Fresh token: adopt the persisted pieces without touching the network.
	c.setToken(tok)
	if profile.Banned() {
		l.Warn("adopted profile is banned")
		c.ban(scope)
		return c.Snapshot()
	}
	c.setState(Snapshot{State: StateAuthenticated, Scope: scope, Identity: &identity, Profile: profile})
	return c.Snapshot()
}

func (c *Controller) reconcileStale(ctx context.Context, scope models.ProfileKind, tok token.Token, l *slog.Logger) Snapshot {
	fresh, err := c.tokens.Refresh(ctx, tok)
	if err != nil {
		l.Warn("refresh exchange failed", "error", err)
		c.expire(scope)
		return c.Snapshot()
	}

	identity, profile, err := c.fetchProfile(ctx, scope, fresh.AccessToken)
	if err != nil {
		l.Warn("profile fetch after refresh failed", "error", err)
		c.expire(scope)
		return c.Snapshot()
	}

	// Ban check runs before the refreshed profile reaches any consumer.
	if profile.Banned() {
		l.Warn("refreshed profile is banned")
		c.ban(scope)
		return c.Snapshot()
	}

	if err := c.persistSession(fresh, identity, profile); err != nil {
		l.Warn("persist refreshed session failed", "error", err)
		c.expire(scope)
		return c.Snapshot()
	}

	c.setState(Snapshot{State: StateAuthenticated, Scope: scope, Identity: &identity, Profile: profile})
	if rp := c.consumeReturnURL(); rp != "" {
		c.navigate(rp)
	}
	return c.Snapshot()
}

// fetchProfile asks the backend who the bearer is, against the endpoint the
// active scope dictates.
func (c *Controller) fetchProfile(ctx context.Context, scope models.ProfileKind, access string) (models.Identity, models.Profile, error) {
	if scope == models.KindAdmin {
		me, err := c.api.MeAdmin(ctx, access)
		if err != nil {
			return models.Identity{}, models.Profile{}, err
		}
		return me.Identity(), models.AdminOf(me.AdminProfile()), nil
	}
	me, err := c.api.Me(ctx, access)
	if err != nil {
		return models.Identity{}, models.Profile{}, err
	}
	return me.Identity(), models.MemberOf(me.MemberProfile()), nil
}

func (c *Controller) readIdentity(l *slog.Logger) (models.Identity, bool) {
	var id models.Identity
	ok, err := clientstore.ReadJSON(c.store, clientstore.KeyUser, &id)
	if err != nil {
		if errors.Is(err, clientstore.ErrCorrupt) {
			l.Warn("persisted identity corrupt, dropping", "error", err)
			_ = c.store.Delete(clientstore.KeyUser)
		}
		return models.Identity{}, false
	}
	return id, ok
}

func (c *Controller) readProfile(l *slog.Logger, scope models.ProfileKind) (models.Profile, bool) {
	if scope == models.KindAdmin {
		var p models.AdminProfile
		ok, err := clientstore.ReadJSON(c.store, clientstore.KeyAdmin, &p)
		if err != nil || !ok {
			if err != nil && errors.Is(err, clientstore.ErrCorrupt) {
				l.Warn("persisted admin profile corrupt, dropping", "error", err)
				_ = c.store.Delete(clientstore.KeyAdmin)
			}
			return models.Profile{}, false
		}
		return models.AdminOf(p), true
	}
	var p models.MemberProfile
	ok, err := clientstore.ReadJSON(c.store, clientstore.KeyMember, &p)
	if err != nil || !ok {
		if err != nil && errors.Is(err, clientstore.ErrCorrupt) {
			l.Warn("persisted member profile corrupt, dropping", "error", err)
			_ = c.store.Delete(clientstore.KeyMember)
		}
		return models.Profile{}, false
	}
	return models.MemberOf(p), true
}
