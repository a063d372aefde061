package session

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestGate(t *testing.T, cfg Config) *Gate {
	t.Helper()
	if cfg.Username == "" {
		cfg.Username = "admin"
	}
	if cfg.Secret == "" {
		cfg.Secret = "test-secret"
	}

	g, err := New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return g
}

func newContext(req *http.Request) (echo.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

// cookiesOf returns the last cookie set per name.
func cookiesOf(rec *httptest.ResponseRecorder) map[string]*http.Cookie {
	cookies := map[string]*http.Cookie{}
	for _, c := range rec.Result().Cookies() {
		cookies[c.Name] = c
	}
	return cookies
}

func TestGate_Authenticate(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	plain := newTestGate(t, Config{Password: "password"})
	hashed := newTestGate(t, Config{Password: "ignored", PasswordHash: string(hash)})

	tests := []struct {
		name     string
		gate     *Gate
		username string
		password string
		wantErr  bool
	}{
		{"PlainOK", plain, "admin", "password", false},
		{"PlainWrongPassword", plain, "admin", "Password", true},
		{"PlainWrongUser", plain, "root", "password", true},
		{"PlainEmpty", plain, "", "", true},
		{"HashOK", hashed, "admin", "s3cret", false},
		{"HashIgnoresPlain", hashed, "admin", "ignored", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := tt.gate.Authenticate(tt.username, tt.password)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrRejected)
				assert.Nil(t, s)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.username, s.Username)
		})
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := New(Config{}, logger)
	assert.Error(t, err)

	_, err = New(Config{Username: "admin", PasswordHash: "not-a-hash"}, logger)
	assert.Error(t, err)
}

func TestGate_LoginSession(t *testing.T) {
	g := newTestGate(t, Config{Password: "password", MaxAge: time.Hour})

	c, rec := newContext(httptest.NewRequest(http.MethodPost, LoginPath, nil))
	require.NoError(t, g.Login(c, "admin", "password"))

	cookie := cookiesOf(rec)[CookieName]
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, 3600, cookie.MaxAge)
	assert.NotContains(t, cookie.Value, "admin")

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(cookie)
	c, _ = newContext(req)
	assert.True(t, g.IsAuthenticated(c))
	assert.Equal(t, "admin", g.Current(c).Username)

	t.Run("Expired", func(t *testing.T) {
		g.WithClock(func() time.Time { return time.Now().Add(2 * time.Hour) })
		defer g.WithClock(time.Now)

		assert.False(t, g.IsAuthenticated(c))
	})

	t.Run("OtherSecret", func(t *testing.T) {
		other := newTestGate(t, Config{Password: "password", Secret: "another"})
		assert.False(t, other.IsAuthenticated(c))
	})

	t.Run("Tampered", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: cookie.Value[:len(cookie.Value)-4] + "AAAA"})
		c, _ := newContext(req)
		assert.False(t, g.IsAuthenticated(c))
	})
}

func TestGate_LoginRejected(t *testing.T) {
	g := newTestGate(t, Config{Password: "password"})

	c, rec := newContext(httptest.NewRequest(http.MethodPost, LoginPath, nil))
	assert.ErrorIs(t, g.Login(c, "admin", "nope"), ErrRejected)
	assert.NotContains(t, cookiesOf(rec), CookieName)
}

func TestGate_End(t *testing.T) {
	g := newTestGate(t, Config{Password: "password"})

	c, rec := newContext(httptest.NewRequest(http.MethodGet, "/admin/logout", nil))
	g.End(c)

	cookie := cookiesOf(rec)[CookieName]
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}

func TestGate_Require(t *testing.T) {
	g := newTestGate(t, Config{Password: "password"})

	called := false
	handler := g.Require(func(c echo.Context) error {
		called = true
		return c.String(http.StatusOK, "dashboard")
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		called = false
		c, rec := newContext(httptest.NewRequest(http.MethodGet, "/admin", nil))

		require.NoError(t, handler(c))
		assert.False(t, called)
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, LoginPath, rec.Header().Get(echo.HeaderLocation))

		flashCookie := cookiesOf(rec)[FlashCookieName]
		require.NotNil(t, flashCookie)

		req := httptest.NewRequest(http.MethodGet, LoginPath, nil)
		req.AddCookie(flashCookie)
		next, _ := newContext(req)
		assert.Equal(t, []Flash{{Category: Warning, Message: "Please log in to access admin panel"}}, g.Flashes(next))
	})

	t.Run("Authenticated", func(t *testing.T) {
		called = false
		login, rec := newContext(httptest.NewRequest(http.MethodPost, LoginPath, nil))
		require.NoError(t, g.Login(login, "admin", "password"))

		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.AddCookie(cookiesOf(rec)[CookieName])
		c, rec := newContext(req)

		require.NoError(t, handler(c))
		assert.True(t, called)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestGate_Flashes(t *testing.T) {
	g := newTestGate(t, Config{Password: "password"})

	c, rec := newContext(httptest.NewRequest(http.MethodPost, "/admin/news", nil))
	g.AddFlash(c, Success, "News created successfully!")
	g.AddFlash(c, Error, "second")

	setCookies := 0
	for _, v := range rec.Header().Values(echo.HeaderSetCookie) {
		if len(v) > len(FlashCookieName) && v[:len(FlashCookieName)+1] == FlashCookieName+"=" {
			setCookies++
		}
	}
	assert.Equal(t, 1, setCookies)

	req := httptest.NewRequest(http.MethodGet, "/admin/news", nil)
	req.AddCookie(cookiesOf(rec)[FlashCookieName])
	next, nextRec := newContext(req)

	want := []Flash{{Success, "News created successfully!"}, {Error, "second"}}
	assert.Equal(t, want, g.Flashes(next))
	assert.Empty(t, g.Flashes(next))

	cleared := cookiesOf(nextRec)[FlashCookieName]
	require.NotNil(t, cleared)
	assert.Negative(t, cleared.MaxAge)

	t.Run("SameRequest", func(t *testing.T) {
		c, _ := newContext(httptest.NewRequest(http.MethodPost, LoginPath, nil))
		g.AddFlash(c, Error, "Invalid username or password")
		assert.Equal(t, []Flash{{Error, "Invalid username or password"}}, g.Flashes(c))
	})

	t.Run("Garbage", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: FlashCookieName, Value: "garbage"})
		c, _ := newContext(req)
		assert.Empty(t, g.Flashes(c))
	})
}
