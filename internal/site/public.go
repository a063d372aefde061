package site

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-pg/urlstruct"
	"github.com/labstack/echo/v4"

	"github.com/daniilsolovey/vsk-portal/internal/cms"
	"github.com/daniilsolovey/vsk-portal/internal/db"
)

// Index handles GET /
func (s *Site) Index(c echo.Context) error {
	landing, err := s.cms.Landing(c.Request().Context())
	if err != nil {
		return err
	}

	return s.render(c, http.StatusOK, "index", "Home", landing)
}

// News handles GET /news
func (s *Site) News(c echo.Context) error {
	news, err := s.cms.News.List(c.Request().Context())
	if err != nil {
		return err
	}

	return s.render(c, http.StatusOK, "news", "News", news)
}

// NewsDetail handles GET /news/:id
func (s *Site) NewsDetail(c echo.Context) error {
	id, err := recordID(c)
	if err != nil {
		return err
	}

	news, err := s.cms.News.Get(c.Request().Context(), id)
	if err != nil {
		return notFound(err)
	}

	return s.render(c, http.StatusOK, "news-detail", news.Title, news)
}

// Articles handles GET /articles
func (s *Site) Articles(c echo.Context) error {
	articles, err := s.cms.Articles.List(c.Request().Context())
	if err != nil {
		return err
	}

	return s.render(c, http.StatusOK, "articles", "Articles", articles)
}

// ArticleDetail handles GET /articles/:id
func (s *Site) ArticleDetail(c echo.Context) error {
	id, err := recordID(c)
	if err != nil {
		return err
	}

	article, err := s.cms.Articles.Get(c.Request().Context(), id)
	if err != nil {
		return notFound(err)
	}

	return s.render(c, http.StatusOK, "article-detail", article.Title, article)
}

type galleryPage struct {
	Filter cms.GalleryFilter
	Items  []db.GalleryItem
}

// Gallery handles GET /gallery[?type=image|video]
func (s *Site) Gallery(c echo.Context) error {
	ctx := c.Request().Context()

	var filter cms.GalleryFilter
	if err := urlstruct.Unmarshal(ctx, c.QueryParams(), &filter); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid filter").SetInternal(err)
	}

	items, err := s.cms.Gallery.List(ctx, filter.Filters()...)
	if err != nil {
		return err
	}

	return s.render(c, http.StatusOK, "gallery", "Gallery", galleryPage{Filter: filter, Items: items})
}

// Publications handles GET /publications
func (s *Site) Publications(c echo.Context) error {
	publications, err := s.cms.Publications.List(c.Request().Context())
	if err != nil {
		return err
	}

	return s.render(c, http.StatusOK, "publications", "Publications", publications)
}

// ImportantDays handles GET /important-days
func (s *Site) ImportantDays(c echo.Context) error {
	days, err := s.cms.ImportantDays.List(c.Request().Context())
	if err != nil {
		return err
	}

	return s.render(c, http.StatusOK, "important-days", "Important Days", days)
}

type othersPage struct {
	Filter cms.OthersFilter
	Items  []db.OtherItem
}

// Others handles GET /others[?category=]
func (s *Site) Others(c echo.Context) error {
	ctx := c.Request().Context()

	var filter cms.OthersFilter
	if err := urlstruct.Unmarshal(ctx, c.QueryParams(), &filter); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid filter").SetInternal(err)
	}

	items, err := s.cms.Others.List(ctx, filter.Filters()...)
	if err != nil {
		return err
	}

	return s.render(c, http.StatusOK, "others", "Others", othersPage{Filter: filter, Items: items})
}

// recordID parses the :id path parameter. Anything but a positive integer
// cannot name a record.
func recordID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		return 0, echo.ErrNotFound
	}

	return id, nil
}

func notFound(err error) error {
	if errors.Is(err, cms.ErrNotFound) {
		return echo.ErrNotFound.WithInternal(err)
	}

	return err
}
