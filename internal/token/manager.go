package token

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/riarumoda/hjslamet-frontend/internal/gateway"
)

// Refresher is the slice of the backend gateway the manager needs.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*gateway.TokenResponse, error)
}

// Manager performs the refresh exchange. Concurrent refreshes of the same
// refresh token coalesce into one network call; there is no retry, a failed
// exchange means the caller must reauthenticate.
type Manager struct {
	api   Refresher
	group singleflight.Group
}

func NewManager(api Refresher) *Manager {
	return &Manager{api: api}
}

func (m *Manager) Refresh(ctx context.Context, tok Token) (Token, error) {
	if tok.RefreshToken == "" {
		return Token{}, ErrMalformed
	}

	v, err, _ := m.group.Do(tok.RefreshToken, func() (any, error) {
		resp, err := m.api.Refresh(ctx, tok.RefreshToken)
		if err != nil {
			return nil, err
		}
		fresh := FromResponse(resp)
		if fresh.AccessToken == "" || fresh.RefreshToken == "" {
			return nil, fmt.Errorf("%w: refresh response incomplete", ErrMalformed)
		}
		return fresh, nil
	})
	if err != nil {
		return Token{}, fmt.Errorf("token: refresh exchange: %w", err)
	}
	return v.(Token), nil
}
