package site

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/daniilsolovey/vsk-portal/internal/cms"
	"github.com/daniilsolovey/vsk-portal/internal/db"
	"github.com/daniilsolovey/vsk-portal/internal/session"
	"github.com/daniilsolovey/vsk-portal/internal/upload"
)

//go:embed templates
var templateFS embed.FS

const layoutFile = "layout.html"

// renderer executes one template set per page, each parsed with its layout.
type renderer struct {
	pages map[string]*template.Template
}

func newRenderer(funcs template.FuncMap) (*renderer, error) {
	r := &renderer{pages: map[string]*template.Template{}}

	for _, dir := range []string{"templates", "templates/admin"} {
		files, err := fs.Glob(templateFS, dir+"/*.html")
		if err != nil {
			return nil, err
		}

		prefix := strings.TrimPrefix(strings.TrimPrefix(dir, "templates"), "/")
		for _, file := range files {
			if path.Base(file) == layoutFile {
				continue
			}

			t, err := template.New("").Funcs(funcs).ParseFS(templateFS, path.Join(dir, layoutFile), file)
			if err != nil {
				return nil, fmt.Errorf("parse %s: %w", file, err)
			}

			name := strings.TrimSuffix(path.Base(file), ".html")
			r.pages[path.Join(prefix, name)] = t
		}
	}

	return r, nil
}

func (r *renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}

	return t.ExecuteTemplate(w, "layout", data)
}

// page is the data every template receives.
type page struct {
	Title   string
	Flashes []session.Flash
	Admin   bool
	Data    any
}

func (s *Site) render(c echo.Context, code int, name, title string, data any) error {
	return c.Render(code, name, page{
		Title:   title,
		Flashes: s.gate.Flashes(c),
		Admin:   s.gate.IsAuthenticated(c),
		Data:    data,
	})
}

func (s *Site) funcs() template.FuncMap {
	return template.FuncMap{
		"excerpt": cms.Excerpt,
		"image": func(name string) string {
			return s.uploads.URL(upload.Image, name)
		},
		"document": func(name string) string {
			return s.uploads.URL(upload.Document, name)
		},
		"media": func(g db.GalleryItem) string {
			return s.uploads.URL(cms.GalleryCategory(&g), g.Filename)
		},
		"date": func(t time.Time) string {
			return t.Format("02 Jan 2006")
		},
	}
}
