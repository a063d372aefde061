package rpc

import (
	"github.com/daniilsolovey/vsk-portal/internal/cms"
	"github.com/daniilsolovey/vsk-portal/internal/db"
	"github.com/daniilsolovey/vsk-portal/internal/upload"
)

// converter builds Items with public file URLs.
type converter struct {
	uploads *upload.Ingestor
}

func (c converter) news(n *db.News) Item {
	return Item{
		ID:        n.ID,
		Kind:      cms.News,
		Title:     n.Title,
		Body:      n.Content,
		Excerpt:   cms.Excerpt(n.Content),
		FileURL:   c.uploads.URL(upload.Image, n.Image),
		CreatedAt: n.CreatedAt,
	}
}

func (c converter) article(a *db.Article) Item {
	return Item{
		ID:        a.ID,
		Kind:      cms.Articles,
		Title:     a.Title,
		Body:      a.Content,
		Excerpt:   cms.Excerpt(a.Content),
		FileURL:   c.uploads.URL(upload.Image, a.Image),
		CreatedAt: a.CreatedAt,
	}
}

func (c converter) galleryItem(g *db.GalleryItem) Item {
	return Item{
		ID:        g.ID,
		Kind:      cms.Gallery,
		Title:     g.Title,
		FileURL:   c.uploads.URL(cms.GalleryCategory(g), g.Filename),
		MediaType: g.Type,
		CreatedAt: g.CreatedAt,
	}
}

func (c converter) publication(p *db.Publication) Item {
	return Item{
		ID:        p.ID,
		Kind:      cms.Publications,
		Title:     p.Title,
		Body:      p.Description,
		Excerpt:   cms.Excerpt(p.Description),
		FileURL:   c.uploads.URL(upload.Document, p.Filename),
		CreatedAt: p.CreatedAt,
	}
}

func (c converter) importantDay(d *db.ImportantDay) Item {
	return Item{
		ID:        d.ID,
		Kind:      cms.ImportantDays,
		Title:     d.Title,
		Body:      d.Description,
		Excerpt:   cms.Excerpt(d.Description),
		FileURL:   c.uploads.URL(upload.Image, d.Image),
		Date:      d.Date,
		CreatedAt: d.CreatedAt,
	}
}

func (c converter) otherItem(o *db.OtherItem) Item {
	return Item{
		ID:        o.ID,
		Kind:      cms.Others,
		Title:     o.Title,
		Body:      o.Content,
		Excerpt:   cms.Excerpt(o.Content),
		Category:  o.Category,
		CreatedAt: o.CreatedAt,
	}
}

func NewStats(s cms.Stats) Stats {
	return Stats{
		News:          s.News,
		Articles:      s.Articles,
		Gallery:       s.Gallery,
		Publications:  s.Publications,
		ImportantDays: s.ImportantDays,
		Others:        s.Others,
	}
}
