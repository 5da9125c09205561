package gateway

import (
	"context"
	"net/http"

	"github.com/riarumoda/hjslamet-frontend/internal/models"
)

// TokenResponse is what login and refresh return. Expiration is a millisecond
// epoch instant after which the access token must not be sent.
type TokenResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	Expiration   int64  `json:"expiration"`
}

type MeResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Address     string `json:"address"`
	Banned      bool   `json:"banned"`
}

func (r MeResponse) Identity() models.Identity {
	return models.Identity{ID: r.ID, Name: r.Name, Email: r.Email}
}

func (r MeResponse) MemberProfile() models.MemberProfile {
	return models.MemberProfile{
		Name:        r.Name,
		Email:       r.Email,
		PhoneNumber: r.PhoneNumber,
		Address:     r.Address,
		Banned:      r.Banned,
	}
}

func (r MeResponse) AdminProfile() models.AdminProfile {
	return models.AdminProfile{Name: r.Name, Email: r.Email, PhoneNumber: r.PhoneNumber}
}

func (c *Client) LoginMember(ctx context.Context, email, password string) (*TokenResponse, error) {
	var out TokenResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "auth/login/member", body, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) LoginAdmin(ctx context.Context, email, password string) (*TokenResponse, error) {
	var out TokenResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "auth/login/admin", body, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RegisterMember(ctx context.Context, name, email, password string) error {
	body := map[string]string{"name": name, "email": email, "password": password}
	return c.do(ctx, http.MethodPost, "auth/register/member", body, "", nil)
}

func (c *Client) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	var out TokenResponse
	body := map[string]string{"refreshToken": refreshToken}
	if err := c.do(ctx, http.MethodPost, "auth/refresh", body, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout invalidates the refresh token server-side. Callers treat failure as
// non-fatal: local state is cleared regardless.
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	body := map[string]string{"token": refreshToken}
	return c.do(ctx, http.MethodPost, "auth/logout", body, "", nil)
}

func (c *Client) Me(ctx context.Context, accessToken string) (*MeResponse, error) {
	var out MeResponse
	if err := c.do(ctx, http.MethodGet, "user/me", nil, accessToken, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) MeAdmin(ctx context.Context, accessToken string) (*MeResponse, error) {
	var out MeResponse
	if err := c.do(ctx, http.MethodGet, "user/me-admin", nil, accessToken, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type UpdateProfileRequest struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
}

func (c *Client) UpdateProfile(ctx context.Context, accessToken string, req UpdateProfileRequest) error {
	return c.do(ctx, http.MethodPut, "user/update-profile", req, accessToken, nil)
}

func (c *Client) UpdateAddress(ctx context.Context, accessToken, address string) error {
	body := map[string]string{"address": address}
	return c.do(ctx, http.MethodPut, "user/update-address", body, accessToken, nil)
}

func (c *Client) UpdatePassword(ctx context.Context, accessToken, oldPassword, newPassword string) error {
	body := map[string]string{"oldPassword": oldPassword, "newPassword": newPassword}
	return c.do(ctx, http.MethodPut, "user/update-password", body, accessToken, nil)
}
