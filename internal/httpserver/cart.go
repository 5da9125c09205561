package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/riarumoda/hjslamet-frontend/internal/cart"
	"github.com/riarumoda/hjslamet-frontend/internal/models"
)

type CartHandler struct {
	Cart *cart.Store
	Log  *slog.Logger
}

// Get reloads before answering so a cart cleared by logout in another
// request shows up empty here too.
func (h *CartHandler) Get(c echo.Context) error {
	if err := h.Cart.Reload(); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, h.Cart.Items())
}

func (h *CartHandler) Add(c echo.Context) error {
	var req models.CartLine
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.ProductID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "productId is required")
	}
	if err := h.Cart.Add(c.Request().Context(), req); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, h.Cart.Items())
}

func (h *CartHandler) SetQuantity(c echo.Context) error {
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Quantity < 1 {
		return echo.NewHTTPError(http.StatusBadRequest, "quantity must be at least 1")
	}
	if err := h.Cart.SetQuantity(c.Request().Context(), c.Param("id"), req.Quantity); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, h.Cart.Items())
}

func (h *CartHandler) Remove(c echo.Context) error {
	if err := h.Cart.Remove(c.Request().Context(), c.Param("id")); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, h.Cart.Items())
}
