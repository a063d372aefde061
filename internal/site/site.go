// Package site serves the public pages and the admin panel.
package site

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/daniilsolovey/vsk-portal/internal/cms"
	"github.com/daniilsolovey/vsk-portal/internal/session"
	"github.com/daniilsolovey/vsk-portal/internal/upload"
)

const (
	healthPath = "/health"
	adminPath  = "/admin"

	defaultBodyLimit = "16M"
)

type Options struct {
	// MaxUploadSize limits request bodies, e.g. "16M".
	MaxUploadSize string
}

type Site struct {
	cms      *cms.Manager
	gate     *session.Gate
	uploads  *upload.Ingestor
	log      *slog.Logger
	opts     Options
	renderer *renderer
	sections []*section
}

func New(m *cms.Manager, gate *session.Gate, uploads *upload.Ingestor, opts Options, logger *slog.Logger) (*Site, error) {
	if opts.MaxUploadSize == "" {
		opts.MaxUploadSize = defaultBodyLimit
	}

	s := &Site{
		cms:     m,
		gate:    gate,
		uploads: uploads,
		log:     logger.With("component", "site"),
		opts:    opts,
	}

	r, err := newRenderer(s.funcs())
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	s.renderer = r
	s.sections = s.adminSections()

	return s, nil
}

// RegisterRoutes builds the echo instance serving every route of the portal.
func (s *Site) RegisterRoutes() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = s.renderer
	e.HTTPErrorHandler = s.handleError

	e.Use(s.loggingMiddleware)
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(s.opts.MaxUploadSize))

	s.registerPublicRoutes(e)
	s.registerAdminRoutes(e)

	e.GET(healthPath, s.handleHealth)
	e.Static(upload.URLPrefix, s.uploads.Root())

	return e
}

func (s *Site) registerPublicRoutes(e *echo.Echo) {
	e.GET("/", s.Index)
	e.GET("/news", s.News)
	e.GET("/news/:id", s.NewsDetail)
	e.GET("/articles", s.Articles)
	e.GET("/articles/:id", s.ArticleDetail)
	e.GET("/gallery", s.Gallery)
	e.GET("/publications", s.Publications)
	e.GET("/important-days", s.ImportantDays)
	e.GET("/others", s.Others)
}

func (s *Site) registerAdminRoutes(e *echo.Echo) {
	admin := e.Group(adminPath)
	admin.GET("/login", s.LoginForm)
	admin.POST("/login", s.Login)
	admin.GET("/logout", s.Logout)

	gated := admin.Group("", s.gate.Require)
	gated.GET("", s.Dashboard)

	for _, sec := range s.sections {
		gated.GET("/"+sec.Slug, s.sectionList(sec))
		gated.POST("/"+sec.Slug, s.sectionCreate(sec))
		gated.GET("/"+sec.Slug+"/delete/:id", s.sectionDelete(sec))
	}
}

func (s *Site) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// handleError renders error pages for failed requests.
func (s *Site) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
	}

	if code >= http.StatusInternalServerError && !errors.Is(err, context.Canceled) {
		s.log.ErrorContext(c.Request().Context(), "request failed",
			"error", err,
			"method", c.Request().Method,
			"path", c.Request().URL.Path,
		)
	}

	tmpl := "error"
	if code == http.StatusNotFound {
		tmpl = "not-found"
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = s.render(c, code, tmpl, http.StatusText(code), code)
	}

	if err != nil {
		s.log.ErrorContext(c.Request().Context(), "failed to render error page", "error", err)
	}
}
