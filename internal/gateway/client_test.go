package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func newBackend(t *testing.T, register func(e *echo.Echo)) *Client {
	e := echo.New()
	register(e)
	ts := httptest.NewServer(e)
	t.Cleanup(ts.Close)
	return NewClient(ts.URL + "/")
}

func TestUnauthorizedIsTyped(t *testing.T) {
	client := newBackend(t, func(e *echo.Echo) {
		e.GET("/user/me", func(c echo.Context) error {
			return c.NoContent(http.StatusUnauthorized)
		})
	})

	_, err := client.Me(context.Background(), "expired-access")
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestNonOKStatusError(t *testing.T) {
	client := newBackend(t, func(e *echo.Echo) {
		e.POST("/auth/login/member", func(c echo.Context) error {
			return c.String(http.StatusUnprocessableEntity, "invalid email or password")
		})
	})

	_, err := client.LoginMember(context.Background(), "a@b.c", "nope")
	var se *StatusError
	require.ErrorAs(t, err, &se)
	require.Equal(t, http.StatusUnprocessableEntity, se.Code)
	require.Contains(t, se.Body, "invalid email")
}

func TestMalformedResponseBody(t *testing.T) {
	client := newBackend(t, func(e *echo.Echo) {
		e.POST("/auth/refresh", func(c echo.Context) error {
			return c.String(http.StatusOK, "<html>not json</html>")
		})
	})

	_, err := client.Refresh(context.Background(), "refresh-1")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrUnauthorized)
}

func TestBearerHeaderPropagation(t *testing.T) {
	var gotAuth string
	client := newBackend(t, func(e *echo.Echo) {
		e.GET("/user/me-admin", func(c echo.Context) error {
			gotAuth = c.Request().Header.Get("Authorization")
			return c.JSON(http.StatusOK, map[string]any{"id": "a1", "name": "Admin", "email": "admin@shop.test"})
		})
	})

	me, err := client.MeAdmin(context.Background(), "access-123")
	require.NoError(t, err)
	require.Equal(t, "Bearer access-123", gotAuth)
	require.Equal(t, "a1", me.ID)
}

func TestLogoutSendsRefreshToken(t *testing.T) {
	var body map[string]string
	client := newBackend(t, func(e *echo.Echo) {
		e.POST("/auth/logout", func(c echo.Context) error {
			require.NoError(t, c.Bind(&body))
			return c.JSON(http.StatusOK, map[string]any{"ok": true})
		})
	})

	require.NoError(t, client.Logout(context.Background(), "refresh-xyz"))
	require.Equal(t, "refresh-xyz", body["token"])
}

func TestNetworkFailureWrapped(t *testing.T) {
	client := NewClient("http://127.0.0.1:1/") // nothing listens here

	_, err := client.Me(context.Background(), "access")
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrUnauthorized))
}
