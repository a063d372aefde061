// Package cmstest provides an in-memory content store for tests.
package cmstest

import (
	"context"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/daniilsolovey/vsk-portal/internal/cms"
	"github.com/daniilsolovey/vsk-portal/internal/db"
)

// Store is an in-memory cms.Store with sequential ids.
type Store[T any, P cms.Row[T]] struct {
	mu     sync.Mutex
	rows   []T
	nextID int
	calls  int

	// Now stamps created_at on insert.
	Now func() time.Time
	// Err, when set, is returned by every call.
	Err error
}

func NewStore[T any, P cms.Row[T]]() *Store[T, P] {
	return &Store[T, P]{
		nextID: 1,
		Now:    func() time.Time { return time.Now().UTC() },
	}
}

// Calls returns how many store operations ran.
func (s *Store[T, P]) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *Store[T, P]) enter() error {
	s.mu.Lock()
	s.calls++
	return s.Err
}

func (s *Store[T, P]) Insert(_ context.Context, row *T) error {
	defer s.mu.Unlock()
	if err := s.enter(); err != nil {
		return err
	}

	meta := P(row).Base()
	meta.ID = s.nextID
	if meta.CreatedAt.IsZero() {
		meta.CreatedAt = s.Now()
	}
	s.nextID++

	s.rows = append(s.rows, *row)
	return nil
}

func (s *Store[T, P]) List(_ context.Context, filters ...db.Filter) ([]T, error) {
	defer s.mu.Unlock()
	if err := s.enter(); err != nil {
		return nil, err
	}

	rows := make([]T, 0, len(s.rows))
	for i := range s.rows {
		if matches(&s.rows[i], filters) {
			rows = append(rows, s.rows[i])
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := P(&rows[i]).Base(), P(&rows[j]).Base()
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})

	return rows, nil
}

func (s *Store[T, P]) Latest(ctx context.Context, n int) ([]T, error) {
	rows, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	if len(rows) > n {
		rows = rows[:n]
	}
	return rows, nil
}

func (s *Store[T, P]) ByID(_ context.Context, id int) (*T, error) {
	defer s.mu.Unlock()
	if err := s.enter(); err != nil {
		return nil, err
	}

	for i := range s.rows {
		if P(&s.rows[i]).Base().ID == id {
			row := s.rows[i]
			return &row, nil
		}
	}
	return nil, nil
}

func (s *Store[T, P]) Delete(_ context.Context, id int) (bool, error) {
	defer s.mu.Unlock()
	if err := s.enter(); err != nil {
		return false, err
	}

	for i := range s.rows {
		if P(&s.rows[i]).Base().ID == id {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *Store[T, P]) Count(_ context.Context) (int, error) {
	defer s.mu.Unlock()
	if err := s.enter(); err != nil {
		return 0, err
	}

	return len(s.rows), nil
}

// matches compares filter values against the fields carrying the same pg column name.
func matches(row any, filters []db.Filter) bool {
	v := reflect.ValueOf(row).Elem()
	for _, f := range filters {
		field, ok := fieldByColumn(v, f.Column)
		if !ok || field.Kind() != reflect.String || field.String() != f.Value {
			return false
		}
	}
	return true
}

func fieldByColumn(v reflect.Value, column string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("pg")
		if name, _, _ := strings.Cut(tag, ","); name == column {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// Stores bundles one in-memory store per kind.
type Stores struct {
	News          *Store[db.News, *db.News]
	Articles      *Store[db.Article, *db.Article]
	Gallery       *Store[db.GalleryItem, *db.GalleryItem]
	Publications  *Store[db.Publication, *db.Publication]
	ImportantDays *Store[db.ImportantDay, *db.ImportantDay]
	Others        *Store[db.OtherItem, *db.OtherItem]
}

func NewStores() *Stores {
	return &Stores{
		News:          NewStore[db.News, *db.News](),
		Articles:      NewStore[db.Article, *db.Article](),
		Gallery:       NewStore[db.GalleryItem, *db.GalleryItem](),
		Publications:  NewStore[db.Publication, *db.Publication](),
		ImportantDays: NewStore[db.ImportantDay, *db.ImportantDay](),
		Others:        NewStore[db.OtherItem, *db.OtherItem](),
	}
}

func (s *Stores) CMS() cms.Stores {
	return cms.Stores{
		News:          s.News,
		Articles:      s.Articles,
		Gallery:       s.Gallery,
		Publications:  s.Publications,
		ImportantDays: s.ImportantDays,
		Others:        s.Others,
	}
}

// Calls returns the number of operations across all stores.
func (s *Stores) Calls() int {
	return s.News.Calls() + s.Articles.Calls() + s.Gallery.Calls() +
		s.Publications.Calls() + s.ImportantDays.Calls() + s.Others.Calls()
}
