// Package session gates the admin panel behind a single configured credential
// kept in an encrypted cookie, and carries flash notices across redirects.
package session

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

const (
	CookieName = "vsk_session"
	LoginPath  = "/admin/login"

	defaultMaxAge = 24 * time.Hour
)

var (
	ErrRejected     = errors.New("invalid username or password")
	ErrUnauthorized = errors.New("admin session required")
)

// Config is the admin credential and session cookie settings.
type Config struct {
	Username string
	Password string
	// PasswordHash is a bcrypt hash; when set, Password is ignored.
	PasswordHash string
	Secret       string
	Secure       bool
	MaxAge       time.Duration
}

// Session is the content of the session cookie.
type Session struct {
	Username  string `json:"username"`
	ExpiresAt int64  `json:"expires_at"`
}

func (s *Session) expired(now time.Time) bool {
	return now.Unix() >= s.ExpiresAt
}

type Gate struct {
	cfg   Config
	codec *codec
	now   func() time.Time
	log   *slog.Logger
}

func New(cfg Config, logger *slog.Logger) (*Gate, error) {
	if cfg.Username == "" {
		return nil, errors.New("admin username is empty")
	}

	if cfg.PasswordHash != "" {
		if _, err := bcrypt.Cost([]byte(cfg.PasswordHash)); err != nil {
			return nil, fmt.Errorf("invalid admin password hash: %w", err)
		}
	}

	if cfg.MaxAge <= 0 {
		cfg.MaxAge = defaultMaxAge
	}

	c, err := newCodec(cfg.Secret)
	if err != nil {
		return nil, err
	}

	return &Gate{
		cfg:   cfg,
		codec: c,
		now:   time.Now,
		log:   logger.With("component", "session"),
	}, nil
}

// WithClock replaces the clock used for session expiry.
func (g *Gate) WithClock(now func() time.Time) *Gate {
	g.now = now
	return g
}

// Authenticate checks the credential pair against the configured admin.
func (g *Gate) Authenticate(username, password string) (*Session, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(g.cfg.Username)) == 1

	var passOK bool
	if g.cfg.PasswordHash != "" {
		passOK = bcrypt.CompareHashAndPassword([]byte(g.cfg.PasswordHash), []byte(password)) == nil
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(password), []byte(g.cfg.Password)) == 1
	}

	if !userOK || !passOK {
		return nil, ErrRejected
	}

	return &Session{
		Username:  username,
		ExpiresAt: g.now().Add(g.cfg.MaxAge).Unix(),
	}, nil
}

// Login authenticates and writes the session cookie.
func (g *Gate) Login(c echo.Context, username, password string) error {
	s, err := g.Authenticate(username, password)
	if err != nil {
		g.log.WarnContext(c.Request().Context(), "admin login rejected",
			"username", username,
			"remote_addr", c.RealIP(),
		)
		return err
	}

	value, err := g.codec.seal(s)
	if err != nil {
		return err
	}

	c.SetCookie(g.cookie(CookieName, value, int(g.cfg.MaxAge.Seconds())))
	g.log.InfoContext(c.Request().Context(), "admin logged in", "username", username)

	return nil
}

// Current returns the valid session of the request, or nil.
func (g *Gate) Current(c echo.Context) *Session {
	cookie, err := c.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	var s Session
	if err := g.codec.open(cookie.Value, &s); err != nil {
		g.log.DebugContext(c.Request().Context(), "session cookie unreadable", "error", err)
		return nil
	}

	if s.expired(g.now()) || s.Username != g.cfg.Username {
		return nil
	}

	return &s
}

func (g *Gate) IsAuthenticated(c echo.Context) bool {
	return g.Current(c) != nil
}

// End clears the session cookie.
func (g *Gate) End(c echo.Context) {
	c.SetCookie(g.cookie(CookieName, "", -1))
}

// Require redirects requests without a valid session to the login page.
func (g *Gate) Require(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !g.IsAuthenticated(c) {
			g.log.DebugContext(c.Request().Context(), "unauthorized admin request",
				"path", c.Request().URL.Path,
				"error", ErrUnauthorized,
			)
			g.AddFlash(c, Warning, "Please log in to access admin panel")
			return c.Redirect(http.StatusFound, LoginPath)
		}

		return next(c)
	}
}

func (g *Gate) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   g.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
