package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/riarumoda/hjslamet-frontend/internal/session"
)

type AuthHandler struct {
	Session *session.Controller
	Log     *slog.Logger
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	err := h.Session.Login(c.Request().Context(), req.Email, req.Password)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, h.Session.Snapshot().Identity)
	case errors.Is(err, session.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
	case errors.Is(err, session.ErrBanned):
		return c.Redirect(http.StatusFound, session.PathBanned)
	default:
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
	}
}

func (h *AuthHandler) LoginAdmin(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	res := h.Session.LoginAdmin(c.Request().Context(), req.Email, req.Password)
	status := http.StatusOK
	if !res.Success {
		status = http.StatusUnauthorized
	}
	return c.JSON(status, map[string]any{"success": res.Success, "message": res.Message})
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	res := h.Session.Register(c.Request().Context(), req.Name, req.Email, req.Password)
	status := http.StatusOK
	if !res.Success {
		status = http.StatusBadRequest
	}
	return c.JSON(status, map[string]any{"success": res.Success, "message": res.Message})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	h.Session.Logout(c.Request().Context())
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}
