package rpc

import (
	"context"
	"errors"
	"fmt"

	"github.com/vmkteam/zenrpc/v2"

	"github.com/daniilsolovey/vsk-portal/internal/cms"
	"github.com/daniilsolovey/vsk-portal/internal/db"
	"github.com/daniilsolovey/vsk-portal/internal/upload"
)

//go:generate zenrpc

// ContentService provides read-only RPC methods over the published content.
type ContentService struct {
	zenrpc.Service
	manager *cms.Manager
	conv    converter
}

func NewContentService(manager *cms.Manager, uploads *upload.Ingestor) *ContentService {
	return &ContentService{manager: manager, conv: converter{uploads: uploads}}
}

// List returns all records of a kind, newest first.
//
//zenrpc:kind one of news, articles, gallery, publications, important-days, others
//zenrpc:filter optional type (gallery) or category (others) filter
//zenrpc:return list of records
//zenrpc:400 unknown kind
//zenrpc:500 internal server error
func (s *ContentService) List(ctx context.Context, kind string, filter *Filter) ([]Item, error) {
	if filter == nil {
		filter = &Filter{}
	}

	switch kind {
	case cms.News:
		return listItems(ctx, s.manager.News, nil, s.conv.news)
	case cms.Articles:
		return listItems(ctx, s.manager.Articles, nil, s.conv.article)
	case cms.Gallery:
		return listItems(ctx, s.manager.Gallery, cms.GalleryFilter{Type: filter.Type}.Filters(), s.conv.galleryItem)
	case cms.Publications:
		return listItems(ctx, s.manager.Publications, nil, s.conv.publication)
	case cms.ImportantDays:
		return listItems(ctx, s.manager.ImportantDays, nil, s.conv.importantDay)
	case cms.Others:
		return listItems(ctx, s.manager.Others, cms.OthersFilter{Category: filter.Category}.Filters(), s.conv.otherItem)
	}

	return nil, unknownKind(kind)
}

// ByID returns a single record of a kind.
//
//zenrpc:kind one of news, articles, gallery, publications, important-days, others
//zenrpc:id record numeric ID
//zenrpc:return record
//zenrpc:400 unknown kind or invalid id
//zenrpc:404 record not found
//zenrpc:500 internal server error
func (s *ContentService) ByID(ctx context.Context, kind string, id int) (*Item, error) {
	if id <= 0 {
		return nil, zenrpc.NewStringError(400, "id must be positive")
	}

	switch kind {
	case cms.News:
		return itemByID(ctx, s.manager.News, id, s.conv.news)
	case cms.Articles:
		return itemByID(ctx, s.manager.Articles, id, s.conv.article)
	case cms.Gallery:
		return itemByID(ctx, s.manager.Gallery, id, s.conv.galleryItem)
	case cms.Publications:
		return itemByID(ctx, s.manager.Publications, id, s.conv.publication)
	case cms.ImportantDays:
		return itemByID(ctx, s.manager.ImportantDays, id, s.conv.importantDay)
	case cms.Others:
		return itemByID(ctx, s.manager.Others, id, s.conv.otherItem)
	}

	return nil, unknownKind(kind)
}

// Stats returns the number of records of every kind.
//
//zenrpc:return record counts
//zenrpc:500 internal server error
func (s *ContentService) Stats(ctx context.Context) (*Stats, error) {
	stats, err := s.manager.Stats(ctx)
	if err != nil {
		return nil, err
	}

	res := NewStats(stats)
	return &res, nil
}

func listItems[T any, P cms.Row[T]](ctx context.Context, kind *cms.Kind[T, P], filters []db.Filter, conv func(*T) Item) ([]Item, error) {
	rows, err := kind.List(ctx, filters...)
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(rows))
	for i := range rows {
		items = append(items, conv(&rows[i]))
	}

	return items, nil
}

func itemByID[T any, P cms.Row[T]](ctx context.Context, kind *cms.Kind[T, P], id int, conv func(*T) Item) (*Item, error) {
	row, err := kind.Get(ctx, id)
	if errors.Is(err, cms.ErrNotFound) {
		return nil, zenrpc.NewStringError(404, fmt.Sprintf("%s not found", kind.Name()))
	} else if err != nil {
		return nil, err
	}

	item := conv(row)
	return &item, nil
}

func unknownKind(kind string) error {
	return zenrpc.NewStringError(400, fmt.Sprintf("unknown kind %q", kind))
}
