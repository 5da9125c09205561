package guard

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/riarumoda/hjslamet-frontend/internal/session"
)

// Middleware reconciles the session for each request's route scope and
// applies the guard decision. Reconciliation is coalesced per scope: once
// the controller holds a snapshot for the request's scope it is reused, so
// rapid navigation inside one tree does not re-trigger network calls.
func Middleware(ctrl *session.Controller) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path

			snap := ctrl.Snapshot()
			if snap.State == session.StateUninitialized || snap.Scope != session.ScopeForPath(path) {
				snap = ctrl.Reconcile(c.Request().Context(), path)
			}

			switch d := Decide(path, snap); d.Kind {
			case Redirect:
				if d.ReturnTo != "" {
					ctrl.SetReturnURL(d.ReturnTo)
				}
				return c.Redirect(http.StatusFound, d.Target)
			case Loading:
				return c.String(http.StatusOK, "loading")
			default:
				return next(c)
			}
		}
	}
}
