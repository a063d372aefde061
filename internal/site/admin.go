package site

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/daniilsolovey/vsk-portal/internal/cms"
	"github.com/daniilsolovey/vsk-portal/internal/db"
	"github.com/daniilsolovey/vsk-portal/internal/session"
	"github.com/daniilsolovey/vsk-portal/internal/upload"
)

// LoginForm handles GET /admin/login
func (s *Site) LoginForm(c echo.Context) error {
	return s.render(c, http.StatusOK, "admin/login", "Admin Login", nil)
}

// Login handles POST /admin/login
func (s *Site) Login(c echo.Context) error {
	err := s.gate.Login(c, c.FormValue("username"), c.FormValue("password"))
	if errors.Is(err, session.ErrRejected) {
		s.gate.AddFlash(c, session.Error, "Invalid credentials")
		return c.Redirect(http.StatusFound, session.LoginPath)
	} else if err != nil {
		return err
	}

	s.gate.AddFlash(c, session.Success, "Login successful!")
	return c.Redirect(http.StatusFound, adminPath)
}

// Logout handles GET /admin/logout
func (s *Site) Logout(c echo.Context) error {
	s.gate.End(c)
	s.gate.AddFlash(c, session.Info, "You have been logged out")

	return c.Redirect(http.StatusFound, session.LoginPath)
}

// Dashboard handles GET /admin
func (s *Site) Dashboard(c echo.Context) error {
	stats, err := s.cms.Stats(c.Request().Context())
	if err != nil {
		return err
	}

	return s.render(c, http.StatusOK, "admin/dashboard", "Dashboard", stats)
}

// field is one input of an admin create form.
type field struct {
	Name     string
	Label    string
	Input    string
	Accept   string
	Options  []string
	Required bool
}

// item is a record as listed in the admin panel.
type item struct {
	ID        int
	Title     string
	Summary   string
	Detail    string
	FileURL   string
	CreatedAt time.Time
}

// section serves the admin list, create and delete endpoints of one kind.
type section struct {
	Slug    string
	Heading string
	// Label names one record in notices.
	Label  string
	Fields []field

	list   func(ctx context.Context) ([]item, error)
	create func(c echo.Context) (int, error)
	remove func(ctx context.Context, id int) error
}

// form binds a create request of one kind.
type form[T any] struct {
	bind func(c echo.Context) (*T, error)
	// file is the multipart field carrying the upload, empty when the kind has none.
	file string
	item func(*T) item
}

func newSection[T any, P cms.Row[T]](kind *cms.Kind[T, P], sec section, f form[T]) *section {
	sec.list = func(ctx context.Context) ([]item, error) {
		rows, err := kind.List(ctx)
		if err != nil {
			return nil, err
		}

		items := make([]item, 0, len(rows))
		for i := range rows {
			items = append(items, f.item(&rows[i]))
		}
		return items, nil
	}

	sec.create = func(c echo.Context) (int, error) {
		row, err := f.bind(c)
		if err != nil {
			return 0, err
		}

		file, closeFile, err := formFile(c, f.file)
		if err != nil {
			return 0, err
		}
		defer closeFile()

		return kind.Create(c.Request().Context(), row, file)
	}

	sec.remove = kind.Delete

	return &sec
}

// formFile opens the named multipart file. A missing file yields nil.
func formFile(c echo.Context, name string) (*upload.File, func(), error) {
	noop := func() {}
	if name == "" {
		return nil, noop, nil
	}

	fh, err := c.FormFile(name)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, noop, nil
	} else if err != nil {
		return nil, noop, err
	}

	body, err := fh.Open()
	if err != nil {
		return nil, noop, err
	}

	return &upload.File{Name: fh.Filename, Body: body}, func() { _ = body.Close() }, nil
}

func (s *Site) sectionList(sec *section) echo.HandlerFunc {
	return func(c echo.Context) error {
		items, err := sec.list(c.Request().Context())
		if err != nil {
			return err
		}

		return s.render(c, http.StatusOK, "admin/section", sec.Heading, sectionPage{Section: sec, Items: items})
	}
}

type sectionPage struct {
	Section *section
	Items   []item
}

func (s *Site) sectionCreate(sec *section) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := sec.create(c); err != nil {
			s.gate.AddFlash(c, session.Error, s.createNotice(c, sec, err))
		} else {
			s.gate.AddFlash(c, session.Success, sec.Label+" added successfully!")
		}

		return c.Redirect(http.StatusFound, adminPath+"/"+sec.Slug)
	}
}

func (s *Site) sectionDelete(sec *section) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.Atoi(c.Param("id"))
		if err == nil {
			err = sec.remove(c.Request().Context(), id)
		} else {
			err = cms.ErrNotFound
		}

		switch {
		case err == nil:
			s.gate.AddFlash(c, session.Success, sec.Label+" deleted successfully")
		case errors.Is(err, cms.ErrNotFound):
			s.gate.AddFlash(c, session.Error, sec.Label+" not found")
		default:
			s.log.ErrorContext(c.Request().Context(), "failed to delete record", "kind", sec.Slug, "id", id, "error", err)
			s.gate.AddFlash(c, session.Error, "Could not delete "+strings.ToLower(sec.Label)+", please try again")
		}

		return c.Redirect(http.StatusFound, adminPath+"/"+sec.Slug)
	}
}

// createNotice turns a failed create into the message shown to the admin.
func (s *Site) createNotice(c echo.Context, sec *section, err error) string {
	var verr *cms.ValidationError
	switch {
	case errors.As(err, &verr):
		return capitalize(cms.Message(verr.Field, verr.Rule))
	case errors.Is(err, upload.ErrNoFile):
		return "File is required"
	case errors.Is(err, upload.ErrRejected):
		return "Invalid file format"
	}

	s.log.ErrorContext(c.Request().Context(), "failed to create record", "kind", sec.Slug, "error", err)

	return "Could not save " + strings.ToLower(sec.Label) + ", please try again"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}

	return strings.ToUpper(s[:1]) + s[1:]
}

type newsForm struct {
	Title   string `form:"title"`
	Content string `form:"content"`
}

type galleryForm struct {
	Title string `form:"title"`
	Type  string `form:"type"`
}

type publicationForm struct {
	Title       string `form:"title"`
	Description string `form:"description"`
}

type importantDayForm struct {
	Title       string `form:"title"`
	Date        string `form:"date"`
	Description string `form:"description"`
}

type otherForm struct {
	Title    string `form:"title"`
	Content  string `form:"content"`
	Category string `form:"category"`
}

func bindForm[F any, T any](convert func(F) *T) func(c echo.Context) (*T, error) {
	return func(c echo.Context) (*T, error) {
		var f F
		if err := c.Bind(&f); err != nil {
			return nil, err
		}

		return convert(f), nil
	}
}

var (
	titleField   = field{Name: "title", Label: "Title", Input: "text", Required: true}
	contentField = field{Name: "content", Label: "Content", Input: "textarea", Required: true}
	imageField   = field{Name: "image", Label: "Image", Input: "file", Accept: "image/*"}
)

func (s *Site) adminSections() []*section {
	return []*section{
		newSection(s.cms.News, section{
			Slug: cms.News, Heading: "News", Label: "News",
			Fields: []field{titleField, contentField, imageField},
		}, form[db.News]{
			bind: bindForm(func(f newsForm) *db.News {
				return &db.News{Title: f.Title, Content: f.Content}
			}),
			file: "image",
			item: func(n *db.News) item {
				return item{ID: n.ID, Title: n.Title, Summary: cms.Excerpt(n.Content),
					FileURL: s.uploads.URL(upload.Image, n.Image), CreatedAt: n.CreatedAt}
			},
		}),

		newSection(s.cms.Articles, section{
			Slug: cms.Articles, Heading: "Articles", Label: "Article",
			Fields: []field{titleField, contentField, imageField},
		}, form[db.Article]{
			bind: bindForm(func(f newsForm) *db.Article {
				return &db.Article{Title: f.Title, Content: f.Content}
			}),
			file: "image",
			item: func(a *db.Article) item {
				return item{ID: a.ID, Title: a.Title, Summary: cms.Excerpt(a.Content),
					FileURL: s.uploads.URL(upload.Image, a.Image), CreatedAt: a.CreatedAt}
			},
		}),

		newSection(s.cms.Gallery, section{
			Slug: cms.Gallery, Heading: "Gallery", Label: "Gallery item",
			Fields: []field{
				titleField,
				{Name: "type", Label: "Type", Input: "select", Options: []string{db.MediaImage, db.MediaVideo}, Required: true},
				{Name: "file", Label: "File", Input: "file", Accept: "image/*,video/*", Required: true},
			},
		}, form[db.GalleryItem]{
			bind: bindForm(func(f galleryForm) *db.GalleryItem {
				if f.Type == "" {
					f.Type = db.MediaImage
				}
				return &db.GalleryItem{Title: f.Title, Type: f.Type}
			}),
			file: "file",
			item: func(g *db.GalleryItem) item {
				return item{ID: g.ID, Title: g.Title, Detail: g.Type,
					FileURL: s.uploads.URL(cms.GalleryCategory(g), g.Filename), CreatedAt: g.CreatedAt}
			},
		}),

		newSection(s.cms.Publications, section{
			Slug: cms.Publications, Heading: "Publications", Label: "Publication",
			Fields: []field{
				titleField,
				{Name: "description", Label: "Description", Input: "textarea", Required: true},
				{Name: "file", Label: "Document", Input: "file", Accept: ".pdf,.doc,.docx,.txt"},
			},
		}, form[db.Publication]{
			bind: bindForm(func(f publicationForm) *db.Publication {
				return &db.Publication{Title: f.Title, Description: f.Description}
			}),
			file: "file",
			item: func(p *db.Publication) item {
				return item{ID: p.ID, Title: p.Title, Summary: cms.Excerpt(p.Description),
					FileURL: s.uploads.URL(upload.Document, p.Filename), CreatedAt: p.CreatedAt}
			},
		}),

		newSection(s.cms.ImportantDays, section{
			Slug: cms.ImportantDays, Heading: "Important Days", Label: "Important day",
			Fields: []field{
				titleField,
				{Name: "date", Label: "Date", Input: "text"},
				{Name: "description", Label: "Description", Input: "textarea", Required: true},
				imageField,
			},
		}, form[db.ImportantDay]{
			bind: bindForm(func(f importantDayForm) *db.ImportantDay {
				return &db.ImportantDay{Title: f.Title, Date: f.Date, Description: f.Description}
			}),
			file: "image",
			item: func(d *db.ImportantDay) item {
				return item{ID: d.ID, Title: d.Title, Summary: cms.Excerpt(d.Description), Detail: d.Date,
					FileURL: s.uploads.URL(upload.Image, d.Image), CreatedAt: d.CreatedAt}
			},
		}),

		newSection(s.cms.Others, section{
			Slug: cms.Others, Heading: "Others", Label: "Item",
			Fields: []field{
				titleField,
				contentField,
				{Name: "category", Label: "Category", Input: "text"},
			},
		}, form[db.OtherItem]{
			bind: bindForm(func(f otherForm) *db.OtherItem {
				return &db.OtherItem{Title: f.Title, Content: f.Content, Category: f.Category}
			}),
			item: func(o *db.OtherItem) item {
				return item{ID: o.ID, Title: o.Title, Summary: cms.Excerpt(o.Content), Detail: o.Category,
					CreatedAt: o.CreatedAt}
			},
		}),
	}
}
