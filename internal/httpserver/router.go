package httpserver

import (
	"log/slog"

	"github.com/labstack/echo/v4"

	"github.com/riarumoda/hjslamet-frontend/internal/cart"
	"github.com/riarumoda/hjslamet-frontend/internal/guard"
	"github.com/riarumoda/hjslamet-frontend/internal/session"
)

type Deps struct {
	Session *session.Controller
	Cart    *cart.Store
	Log     *slog.Logger
}

// Register wires the storefront surfaces. The /account and /admin trees sit
// behind the route guard; auth and cart endpoints are public, matching the
// web client they replace.
func Register(e *echo.Echo, d *Deps) {
	auth := &AuthHandler{Session: d.Session, Log: d.Log}
	account := &AccountHandler{Session: d.Session, Log: d.Log}
	cartH := &CartHandler{Cart: d.Cart, Log: d.Log}

	e.POST("/auth/login", auth.Login)
	e.POST("/auth/register", auth.Register)
	e.POST("/auth/logout", auth.Logout)
	e.POST("/admin/auth", auth.LoginAdmin)
	e.GET("/account/banned", account.Banned)

	guarded := guard.Middleware(d.Session)

	acc := e.Group("/account", guarded)
	acc.GET("", account.Show)
	acc.PUT("/profile", account.UpdateProfile)
	acc.PUT("/address", account.UpdateAddress)
	acc.PUT("/password", account.ChangePassword)
	acc.DELETE("", account.Delete)

	adm := e.Group("/admin", guarded)
	adm.GET("", account.Show)

	e.GET("/cart", cartH.Get)
	e.POST("/cart", cartH.Add)
	e.PUT("/cart/:id", cartH.SetQuantity)
	e.DELETE("/cart/:id", cartH.Remove)
}
