package session

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// FlashCookieName holds notices until the next rendered page.
const FlashCookieName = "vsk_flash"

const flashPending = "session.flash.pending"

type Category string

const (
	Success Category = "success"
	Error   Category = "error"
	Warning Category = "warning"
	Info    Category = "info"
)

// Flash is a one-time notice shown on the next page.
type Flash struct {
	Category Category `json:"category"`
	Message  string   `json:"message"`
}

// AddFlash queues a notice for the next page rendered for this client.
func (g *Gate) AddFlash(c echo.Context, category Category, message string) {
	pending := append(g.pending(c), Flash{Category: category, Message: message})
	c.Set(flashPending, pending)

	value, err := g.codec.seal(pending)
	if err != nil {
		g.log.ErrorContext(c.Request().Context(), "failed to store flash", "error", err)
		return
	}

	dropSetCookie(c.Response().Header(), FlashCookieName)
	c.SetCookie(g.cookie(FlashCookieName, value, 0))
}

// Flashes returns and clears the notices queued for this client.
func (g *Gate) Flashes(c echo.Context) []Flash {
	pending := g.pending(c)
	c.Set(flashPending, []Flash(nil))

	_, err := c.Cookie(FlashCookieName)
	if len(pending) > 0 || err == nil {
		dropSetCookie(c.Response().Header(), FlashCookieName)
		c.SetCookie(g.cookie(FlashCookieName, "", -1))
	}

	return pending
}

// pending merges notices carried in the request cookie with those added
// during this request.
func (g *Gate) pending(c echo.Context) []Flash {
	if flashes, ok := c.Get(flashPending).([]Flash); ok {
		return flashes
	}

	var flashes []Flash
	if cookie, err := c.Cookie(FlashCookieName); err == nil && cookie.Value != "" {
		if err := g.codec.open(cookie.Value, &flashes); err != nil {
			g.log.DebugContext(c.Request().Context(), "flash cookie unreadable", "error", err)
			flashes = nil
		}
	}

	c.Set(flashPending, flashes)
	return flashes
}

func dropSetCookie(h http.Header, name string) {
	values := h.Values(echo.HeaderSetCookie)
	if len(values) == 0 {
		return
	}

	var kept []string
	for _, v := range values {
		if !strings.HasPrefix(v, name+"=") {
			kept = append(kept, v)
		}
	}

	h.Del(echo.HeaderSetCookie)
	for _, v := range kept {
		h.Add(echo.HeaderSetCookie, v)
	}
}
