package cms

import (
	"context"
	"log/slog"

	"github.com/daniilsolovey/vsk-portal/internal/db"
	"github.com/daniilsolovey/vsk-portal/internal/upload"
)

// Kind slugs, as used in URLs and RPC calls.
const (
	News          = "news"
	Articles      = "articles"
	Gallery       = "gallery"
	Publications  = "publications"
	ImportantDays = "important-days"
	Others        = "others"
)

// Slugs lists every kind in dashboard order.
var Slugs = []string{News, Articles, Gallery, Publications, ImportantDays, Others}

// Stores is the persistence backing of a Manager.
type Stores struct {
	News          Store[db.News]
	Articles      Store[db.Article]
	Gallery       Store[db.GalleryItem]
	Publications  Store[db.Publication]
	ImportantDays Store[db.ImportantDay]
	Others        Store[db.OtherItem]
}

// RepositoryStores backs a Manager with the database tables of repo.
func RepositoryStores(repo *db.Repository) Stores {
	return Stores{
		News:          repo.News,
		Articles:      repo.Articles,
		Gallery:       repo.Gallery,
		Publications:  repo.Publications,
		ImportantDays: repo.ImportantDays,
		Others:        repo.Others,
	}
}

type Manager struct {
	News          *Kind[db.News, *db.News]
	Articles      *Kind[db.Article, *db.Article]
	Gallery       *Kind[db.GalleryItem, *db.GalleryItem]
	Publications  *Kind[db.Publication, *db.Publication]
	ImportantDays *Kind[db.ImportantDay, *db.ImportantDay]
	Others        *Kind[db.OtherItem, *db.OtherItem]
}

func NewManager(stores Stores, uploads Uploader, logger *slog.Logger) *Manager {
	log := logger.With("component", "cms")

	return &Manager{
		News: newKind[db.News, *db.News](Schema[db.News]{
			Name:      News,
			FileField: "Image",
			Category:  func(*db.News) upload.Category { return upload.Image },
			SetFile:   func(n *db.News, name string) { n.Image = name },
		}, stores.News, uploads, log),

		Articles: newKind[db.Article, *db.Article](Schema[db.Article]{
			Name:      Articles,
			FileField: "Image",
			Category:  func(*db.Article) upload.Category { return upload.Image },
			SetFile:   func(a *db.Article, name string) { a.Image = name },
		}, stores.Articles, uploads, log),

		Gallery: newKind[db.GalleryItem, *db.GalleryItem](Schema[db.GalleryItem]{
			Name:         Gallery,
			FileField:    "Filename",
			FileRequired: true,
			Category:     GalleryCategory,
			SetFile:      func(g *db.GalleryItem, name string) { g.Filename = name },
		}, stores.Gallery, uploads, log),

		Publications: newKind[db.Publication, *db.Publication](Schema[db.Publication]{
			Name:      Publications,
			FileField: "Filename",
			Category:  func(*db.Publication) upload.Category { return upload.Document },
			SetFile:   func(p *db.Publication, name string) { p.Filename = name },
		}, stores.Publications, uploads, log),

		ImportantDays: newKind[db.ImportantDay, *db.ImportantDay](Schema[db.ImportantDay]{
			Name:      ImportantDays,
			FileField: "Image",
			Category:  func(*db.ImportantDay) upload.Category { return upload.Image },
			SetFile:   func(d *db.ImportantDay, name string) { d.Image = name },
		}, stores.ImportantDays, uploads, log),

		Others: newKind[db.OtherItem, *db.OtherItem](Schema[db.OtherItem]{
			Name: Others,
		}, stores.Others, uploads, log),
	}
}

// GalleryCategory picks the upload category matching the item media type.
func GalleryCategory(g *db.GalleryItem) upload.Category {
	if g.Type == db.MediaVideo {
		return upload.Video
	}

	return upload.Image
}

// Stats holds the per-kind record counts shown on the dashboard.
type Stats struct {
	News          int `json:"news_count"`
	Articles      int `json:"articles_count"`
	Gallery       int `json:"gallery_count"`
	Publications  int `json:"publications_count"`
	ImportantDays int `json:"important_days_count"`
	Others        int `json:"others_count"`
}

func (m *Manager) Stats(ctx context.Context) (Stats, error) {
	var (
		stats Stats
		err   error
	)

	counters := []struct {
		dst   *int
		count func(context.Context) (int, error)
	}{
		{&stats.News, m.News.Count},
		{&stats.Articles, m.Articles.Count},
		{&stats.Gallery, m.Gallery.Count},
		{&stats.Publications, m.Publications.Count},
		{&stats.ImportantDays, m.ImportantDays.Count},
		{&stats.Others, m.Others.Count},
	}

	for _, c := range counters {
		if *c.dst, err = c.count(ctx); err != nil {
			return Stats{}, err
		}
	}

	return stats, nil
}

// Landing holds the records shown on the home page.
type Landing struct {
	News     []db.News
	Articles []db.Article
}

const landingSize = 3

func (m *Manager) Landing(ctx context.Context) (Landing, error) {
	news, err := m.News.Recent(ctx, landingSize)
	if err != nil {
		return Landing{}, err
	}

	articles, err := m.Articles.Recent(ctx, landingSize)
	if err != nil {
		return Landing{}, err
	}

	return Landing{News: news, Articles: articles}, nil
}

// GalleryFilter narrows the public gallery listing by media type.
type GalleryFilter struct {
	Type string
}

func (f GalleryFilter) Filters() []db.Filter {
	if f.Type == "" {
		return nil
	}

	return []db.Filter{{Column: db.Columns.Type, Value: f.Type}}
}

// OthersFilter narrows the public miscellaneous listing by category.
type OthersFilter struct {
	Category string
}

func (f OthersFilter) Filters() []db.Filter {
	if f.Category == "" {
		return nil
	}

	return []db.Filter{{Column: db.Columns.Category, Value: f.Category}}
}
