package rpc

import (
	"time"
)

// Filter narrows list results. Type applies to gallery, Category to others.
type Filter struct {
	// image or video
	Type string `json:"type,omitempty"`
	// free-text category of miscellaneous items
	Category string `json:"category,omitempty"`
}

// Item is a content record of any kind.
type Item struct {
	ID        int       `json:"id"`
	Kind      string    `json:"kind"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Excerpt   string    `json:"excerpt,omitempty"`
	FileURL   string    `json:"fileUrl,omitempty"`
	MediaType string    `json:"mediaType,omitempty"`
	Date      string    `json:"date,omitempty"`
	Category  string    `json:"category,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type Stats struct {
	News          int `json:"newsCount"`
	Articles      int `json:"articlesCount"`
	Gallery       int `json:"galleryCount"`
	Publications  int `json:"publicationsCount"`
	ImportantDays int `json:"importantDaysCount"`
	Others        int `json:"othersCount"`
}
