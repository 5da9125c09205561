package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/riarumoda/hjslamet-frontend/internal/gateway"
	"github.com/riarumoda/hjslamet-frontend/internal/models"
	"github.com/riarumoda/hjslamet-frontend/internal/token"
)

// Result carries an operation outcome the UI renders directly. Messages are
// deliberately generic for auth failures so they leak nothing about which
// field was wrong.
type Result struct {
	Success bool
	Message string
}

// Login signs a member in. It is atomic: the store is only written once the
// token exchange and the profile fetch have both succeeded, so a failure at
// any step leaves no partial session behind.
func (c *Controller) Login(ctx context.Context, email, password string) error {
	l := c.log.With("svc", "session.login")

	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	resp, err := c.api.LoginMember(ctx, email, password)
	if err != nil {
		l.Warn("member login rejected", "error", err)
		return ErrInvalidCredentials
	}
	tok := token.FromResponse(resp)

	me, err := c.api.Me(ctx, tok.AccessToken)
	if err != nil {
		l.Warn("profile fetch after login failed", "error", err)
		return ErrInvalidCredentials
	}
	if me.Banned {
		c.ban(models.KindMember)
		return ErrBanned
	}

	identity, profile := me.Identity(), models.MemberOf(me.MemberProfile())
	if err := c.persistSession(tok, identity, profile); err != nil {
		l.Error("persist session failed", "error", err)
		c.clearSessionKeys()
		return fmt.Errorf("persist session: %w", err)
	}

	c.setState(Snapshot{State: StateAuthenticated, Scope: models.KindMember, Identity: &identity, Profile: profile})
	c.publishUserEvent(ctx, map[string]any{"type": "login", "userID": identity.ID})
	if rp := c.consumeReturnURL(); rp != "" {
		c.navigate(rp)
	}
	return nil
}

// LoginAdmin mirrors Login against the admin endpoints but reports through a
// Result instead of an error, so the caller can render the message as is.
func (c *Controller) LoginAdmin(ctx context.Context, email, password string) Result {
	l := c.log.With("svc", "session.login_admin")

	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return Result{Success: false, Message: msgFieldsRequired}
	}

	resp, err := c.api.LoginAdmin(ctx, email, password)
	if err != nil {
		l.Warn("admin login rejected", "error", err)
		return Result{Success: false, Message: msgLoginFailed}
	}
	tok := token.FromResponse(resp)

	me, err := c.api.MeAdmin(ctx, tok.AccessToken)
	if err != nil {
		l.Warn("admin profile fetch after login failed", "error", err)
		return Result{Success: false, Message: msgLoginFailed}
	}

	identity, profile := me.Identity(), models.AdminOf(me.AdminProfile())
	if err := c.persistSession(tok, identity, profile); err != nil {
		l.Error("persist session failed", "error", err)
		c.clearSessionKeys()
		return Result{Success: false, Message: msgBackendFailure}
	}

	c.setState(Snapshot{State: StateAuthenticated, Scope: models.KindAdmin, Identity: &identity, Profile: profile})
	c.publishUserEvent(ctx, map[string]any{"type": "admin_login", "userID": identity.ID})
	return Result{Success: true, Message: msgLoginSucceeded}
}

// Register creates a member account. It does not log the new member in.
func (c *Controller) Register(ctx context.Context, name, email, password string) Result {
	l := c.log.With("svc", "session.register")

	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return Result{Success: false, Message: msgFieldsRequired}
	}

	if err := c.api.RegisterMember(ctx, name, email, password); err != nil {
		l.Warn("registration rejected", "error", err)
		return Result{Success: false, Message: msgBackendFailure}
	}

	c.publishUserEvent(ctx, map[string]any{"type": "register", "email": email})
	return Result{Success: true, Message: msgRegisterOK}
}

// Logout invalidates the refresh token server-side on a best-effort basis
// and always clears the local session and cart, even when the server call
// fails.
func (c *Controller) Logout(ctx context.Context) {
	l := c.log.With("svc", "session.logout")

	if tok := c.currentToken(); tok.RefreshToken != "" {
		if err := c.api.Logout(ctx, tok.RefreshToken); err != nil {
			l.Warn("server-side logout failed, clearing locally anyway", "error", err)
		}
	}

	c.clearAll()
	c.setState(Snapshot{State: StateUnauthenticated, Scope: models.KindMember})
	c.publishUserEvent(ctx, map[string]any{"type": "logout"})
	c.navigate(PathMemberLogin)
}

// UpdateProfile submits the mutation, then re-fetches and re-persists the
// identity and member profile so local state matches the backend's view.
func (c *Controller) UpdateProfile(ctx context.Context, req gateway.UpdateProfileRequest) error {
	return c.authedMemberMutation(ctx, "session.update_profile", func(access string) error {
		return c.api.UpdateProfile(ctx, access, req)
	})
}

// UpdateAddress is the address counterpart of UpdateProfile.
func (c *Controller) UpdateAddress(ctx context.Context, address string) error {
	return c.authedMemberMutation(ctx, "session.update_address", func(access string) error {
		return c.api.UpdateAddress(ctx, access, address)
	})
}

// ChangePassword rotates the password and then forces a logout: the current
// token pair is considered invalidated by the rotation.
func (c *Controller) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	if strings.TrimSpace(oldPassword) == "" || strings.TrimSpace(newPassword) == "" {
		return fmt.Errorf("%w: old and new password are required", ErrValidation)
	}

	err := c.authedMemberMutation(ctx, "session.change_password", func(access string) error {
		return c.api.UpdatePassword(ctx, access, oldPassword, newPassword)
	})
	if err != nil {
		return err
	}

	c.Logout(ctx)
	return nil
}

// DeleteAccount wipes the whole local profile, cart included. It refuses to
// run without a live session.
func (c *Controller) DeleteAccount(ctx context.Context) error {
	snap := c.Snapshot()
	if snap.State != StateAuthenticated || snap.Identity == nil {
		return ErrNotAuthenticated
	}

	if err := c.store.Reset(); err != nil {
		return fmt.Errorf("reset client store: %w", err)
	}
	c.setToken(token.Token{})
	c.setState(Snapshot{State: StateUnauthenticated, Scope: snap.Scope})
	c.publishUserEvent(ctx, map[string]any{"type": "account_deleted", "userID": snap.Identity.ID})
	return nil
}

func (c *Controller) authedMemberMutation(ctx context.Context, svc string, call func(access string) error) error {
	l := c.log.With("svc", svc)

	err := c.withBearer(ctx, models.KindMember, call)
	if err != nil {
		l.Warn("mutation failed", "error", err)
		return err
	}

	return c.withBearer(ctx, models.KindMember, func(access string) error {
		me, err := c.api.Me(ctx, access)
		if err != nil {
			return err
		}
		if me.Banned {
			c.ban(models.KindMember)
			return ErrBanned
		}
		identity, profile := me.Identity(), models.MemberOf(me.MemberProfile())
		if err := c.persistSession(c.currentToken(), identity, profile); err != nil {
			return err
		}
		c.setState(Snapshot{State: StateAuthenticated, Scope: models.KindMember, Identity: &identity, Profile: profile})
		return nil
	})
}
