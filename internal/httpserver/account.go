package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/riarumoda/hjslamet-frontend/internal/gateway"
	"github.com/riarumoda/hjslamet-frontend/internal/models"
	"github.com/riarumoda/hjslamet-frontend/internal/session"
)

type AccountHandler struct {
	Session *session.Controller
	Log     *slog.Logger
}

// Show renders the live session snapshot for whichever scope the guard let
// through.
func (h *AccountHandler) Show(c echo.Context) error {
	snap := h.Session.Snapshot()

	out := map[string]any{
		"state":    snap.State.String(),
		"identity": snap.Identity,
	}
	switch snap.Profile.Kind {
	case models.KindMember:
		out["member"] = snap.Profile.Member
	case models.KindAdmin:
		out["admin"] = snap.Profile.Admin
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AccountHandler) Banned(c echo.Context) error {
	return c.JSON(http.StatusForbidden, map[string]any{
		"message": "This account has been banned. Contact support for assistance.",
	})
}

func (h *AccountHandler) UpdateProfile(c echo.Context) error {
	var req gateway.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return h.mutation(c, h.Session.UpdateProfile(c.Request().Context(), req))
}

func (h *AccountHandler) UpdateAddress(c echo.Context) error {
	var req struct {
		Address string `json:"address"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return h.mutation(c, h.Session.UpdateAddress(c.Request().Context(), req.Address))
}

func (h *AccountHandler) ChangePassword(c echo.Context) error {
	var req struct {
		OldPassword string `json:"oldPassword"`
		NewPassword string `json:"newPassword"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return h.mutation(c, h.Session.ChangePassword(c.Request().Context(), req.OldPassword, req.NewPassword))
}

func (h *AccountHandler) Delete(c echo.Context) error {
	return h.mutation(c, h.Session.DeleteAccount(c.Request().Context()))
}

func (h *AccountHandler) mutation(c echo.Context, err error) error {
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, map[string]any{"success": true})
	case errors.Is(err, session.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, session.ErrNotAuthenticated), errors.Is(err, session.ErrSessionExpired):
		return echo.NewHTTPError(http.StatusUnauthorized, "please log in again")
	case errors.Is(err, session.ErrBanned):
		return c.Redirect(http.StatusFound, session.PathBanned)
	default:
		h.Log.Error("account mutation failed", "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, "backend unavailable")
	}
}
