package session

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/riarumoda/hjslamet-frontend/internal/clientstore"
	"github.com/riarumoda/hjslamet-frontend/internal/gateway"
	"github.com/riarumoda/hjslamet-frontend/internal/models"
	"github.com/riarumoda/hjslamet-frontend/internal/token"
)

// fakeBackend plays the remote shop API for controller tests. Counters and
// behavior switches let each test script the exact failure it needs.
type fakeBackend struct {
	refreshCalls int32
	meCalls      int32
	meAdminCalls int32
	loginCalls   int32
	logoutCalls  int32

	refreshFail   bool
	meFail        bool
	banned        bool
	logoutStatus  int
	requireAccess string

	memberName      string
	lastLogoutToken string
}

func futureMs() int64 {
	return time.Now().Add(15 * time.Minute).UnixMilli()
}

func (b *fakeBackend) authorized(c echo.Context) bool {
	if b.requireAccess == "" {
		return true
	}
	return c.Request().Header.Get("Authorization") == "Bearer "+b.requireAccess
}

func (b *fakeBackend) register(e *echo.Echo) {
	e.POST("/auth/refresh", func(c echo.Context) error {
		atomic.AddInt32(&b.refreshCalls, 1)
		if b.refreshFail {
			return c.NoContent(http.StatusUnauthorized)
		}
		return c.JSON(http.StatusOK, map[string]any{
			"token":        "access-new",
			"refreshToken": "refresh-new",
			"expiration":   futureMs(),
		})
	})

	e.GET("/user/me", func(c echo.Context) error {
		atomic.AddInt32(&b.meCalls, 1)
		if b.meFail {
			return c.NoContent(http.StatusInternalServerError)
		}
		if !b.authorized(c) {
			return c.NoContent(http.StatusUnauthorized)
		}
		name := b.memberName
		if name == "" {
			name = "Member"
		}
		return c.JSON(http.StatusOK, map[string]any{
			"id":          "m1",
			"name":        name,
			"email":       "member@shop.test",
			"phoneNumber": "555-0101",
			"address":     "1 Market St",
			"banned":      b.banned,
		})
	})

	e.GET("/user/me-admin", func(c echo.Context) error {
		atomic.AddInt32(&b.meAdminCalls, 1)
		if !b.authorized(c) {
			return c.NoContent(http.StatusUnauthorized)
		}
		return c.JSON(http.StatusOK, map[string]any{
			"id":          "a1",
			"name":        "Admin",
			"email":       "admin@shop.test",
			"phoneNumber": "555-0102",
		})
	})

	login := func(wantEmail string) echo.HandlerFunc {
		return func(c echo.Context) error {
			atomic.AddInt32(&b.loginCalls, 1)
			var req map[string]string
			if err := c.Bind(&req); err != nil {
				return c.NoContent(http.StatusBadRequest)
			}
			if req["email"] != wantEmail || req["password"] != "password" {
				return c.NoContent(http.StatusUnauthorized)
			}
			return c.JSON(http.StatusOK, map[string]any{
				"token":        "access-new",
				"refreshToken": "refresh-new",
				"expiration":   futureMs(),
			})
		}
	}
	e.POST("/auth/login/member", login("member@shop.test"))
	e.POST("/auth/login/admin", login("admin@shop.test"))

	e.POST("/auth/register/member", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{"ok": true})
	})

	e.POST("/auth/logout", func(c echo.Context) error {
		atomic.AddInt32(&b.logoutCalls, 1)
		var req map[string]string
		_ = c.Bind(&req)
		b.lastLogoutToken = req["token"]
		if b.logoutStatus != 0 {
			return c.NoContent(b.logoutStatus)
		}
		return c.JSON(http.StatusOK, map[string]any{"ok": true})
	})

	e.PUT("/user/update-profile", func(c echo.Context) error {
		if !b.authorized(c) {
			return c.NoContent(http.StatusUnauthorized)
		}
		var req map[string]string
		_ = c.Bind(&req)
		if req["name"] != "" {
			b.memberName = req["name"]
		}
		return c.JSON(http.StatusOK, map[string]any{"ok": true})
	})

	e.PUT("/user/update-address", func(c echo.Context) error {
		if !b.authorized(c) {
			return c.NoContent(http.StatusUnauthorized)
		}
		return c.JSON(http.StatusOK, map[string]any{"ok": true})
	})

	e.PUT("/user/update-password", func(c echo.Context) error {
		if !b.authorized(c) {
			return c.NoContent(http.StatusUnauthorized)
		}
		return c.JSON(http.StatusOK, map[string]any{"ok": true})
	})
}

type testEnv struct {
	t       *testing.T
	backend *fakeBackend
	store   *clientstore.SQLiteStore
	ctrl    *Controller

	navs    []string
	notices []string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	backend := &fakeBackend{}
	e := echo.New()
	backend.register(e)
	ts := httptest.NewServer(e)
	t.Cleanup(ts.Close)

	store, err := clientstore.Open(":memory:")
	require.NoError(t, err)

	env := &testEnv{t: t, backend: backend, store: store}

	api := gateway.NewClient(ts.URL + "/")
	env.ctrl = New(Deps{
		Store:    store,
		API:      api,
		Tokens:   token.NewManager(api),
		Navigate: func(path string) { env.navs = append(env.navs, path) },
		Notify:   func(msg string) { env.notices = append(env.notices, msg) },
	})
	t.Cleanup(env.ctrl.Close)

	return env
}

func freshToken() token.Token {
	return token.Token{AccessToken: "access-old", RefreshToken: "refresh-old", ExpiresAt: futureMs()}
}

func staleToken() token.Token {
	return token.Token{AccessToken: "access-old", RefreshToken: "refresh-old", ExpiresAt: time.Now().Add(-time.Second).UnixMilli()}
}

// seedMemberSession persists a full member credential set, the state a
// previously logged-in member's device would hold.
func (env *testEnv) seedMemberSession(tok token.Token, banned bool) {
	env.t.Helper()
	require.NoError(env.t, clientstore.PutJSON(env.store, clientstore.KeyToken, tok))
	require.NoError(env.t, clientstore.PutJSON(env.store, clientstore.KeyUser, models.Identity{ID: "m1", Name: "Member", Email: "member@shop.test"}))
	require.NoError(env.t, clientstore.PutJSON(env.store, clientstore.KeyMember, models.MemberProfile{
		Name:        "Member",
		Email:       "member@shop.test",
		PhoneNumber: "555-0101",
		Address:     "1 Market St",
		Banned:      banned,
	}))
	require.NoError(env.t, clientstore.PutJSON(env.store, clientstore.KeyCart, []models.CartLine{{ProductID: "1", Quantity: 2}}))
}

func (env *testEnv) seedAdminSession(tok token.Token) {
	env.t.Helper()
	require.NoError(env.t, clientstore.PutJSON(env.store, clientstore.KeyToken, tok))
	require.NoError(env.t, clientstore.PutJSON(env.store, clientstore.KeyUser, models.Identity{ID: "a1", Name: "Admin", Email: "admin@shop.test"}))
	require.NoError(env.t, clientstore.PutJSON(env.store, clientstore.KeyAdmin, models.AdminProfile{Name: "Admin", Email: "admin@shop.test"}))
}

func (env *testEnv) hasKey(key string) bool {
	env.t.Helper()
	_, ok, err := env.store.Get(key)
	require.NoError(env.t, err)
	return ok
}

func (env *testEnv) persistedToken() token.Token {
	env.t.Helper()
	raw, ok, err := env.store.Get(clientstore.KeyToken)
	require.NoError(env.t, err)
	require.True(env.t, ok, "expected a persisted token")
	tok, err := token.Decode(raw)
	require.NoError(env.t, err)
	return tok
}

func countBackendCalls(b *fakeBackend) int32 {
	return atomic.LoadInt32(&b.refreshCalls) +
		atomic.LoadInt32(&b.meCalls) +
		atomic.LoadInt32(&b.meAdminCalls) +
		atomic.LoadInt32(&b.loginCalls) +
		atomic.LoadInt32(&b.logoutCalls)
}
