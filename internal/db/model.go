package db

import (
	"time"
)

// Meta holds the store-assigned columns shared by every content table.
type Meta struct {
	ID        int       `pg:"id,pk"`
	CreatedAt time.Time `pg:"created_at,default:now()"`
}

// Base gives generic code access to the store-assigned columns.
func (m *Meta) Base() *Meta {
	return m
}

var Tables = struct {
	News, Article, GalleryItem, Publication, ImportantDay, OtherItem string
}{
	News:         "news",
	Article:      "articles",
	GalleryItem:  "gallery_items",
	Publication:  "publications",
	ImportantDay: "important_days",
	OtherItem:    "other_items",
}

var Columns = struct {
	ID, CreatedAt, Title, Type, Category string
}{
	ID:        "id",
	CreatedAt: "created_at",
	Title:     "title",
	Type:      "type",
	Category:  "category",
}

type News struct {
	tableName struct{} `pg:"news,alias:t,discard_unknown_columns"`

	Meta
	Title   string `pg:"title,use_zero" validate:"required,max=200"`
	Content string `pg:"content,use_zero" validate:"required"`
	Image   string `pg:"image"`
}

type Article struct {
	tableName struct{} `pg:"articles,alias:t,discard_unknown_columns"`

	Meta
	Title   string `pg:"title,use_zero" validate:"required,max=200"`
	Content string `pg:"content,use_zero" validate:"required"`
	Image   string `pg:"image"`
}

const (
	MediaImage = "image"
	MediaVideo = "video"
)

type GalleryItem struct {
	tableName struct{} `pg:"gallery_items,alias:t,discard_unknown_columns"`

	Meta
	Title    string `pg:"title,use_zero" validate:"required,max=200"`
	Filename string `pg:"filename,use_zero" validate:"required"`
	Type     string `pg:"type,use_zero" validate:"required,oneof=image video"`
}

type Publication struct {
	tableName struct{} `pg:"publications,alias:t,discard_unknown_columns"`

	Meta
	Title       string `pg:"title,use_zero" validate:"required,max=200"`
	Description string `pg:"description,use_zero" validate:"required"`
	Filename    string `pg:"filename"`
}

type ImportantDay struct {
	tableName struct{} `pg:"important_days,alias:t,discard_unknown_columns"`

	Meta
	Title       string `pg:"title,use_zero" validate:"required,max=200"`
	Date        string `pg:"date"`
	Description string `pg:"description,use_zero" validate:"required"`
	Image       string `pg:"image"`
}

type OtherItem struct {
	tableName struct{} `pg:"other_items,alias:t,discard_unknown_columns"`

	Meta
	Title    string `pg:"title,use_zero" validate:"required,max=200"`
	Content  string `pg:"content,use_zero" validate:"required"`
	Category string `pg:"category"`
}
