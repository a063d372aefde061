package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-pg/pg/v10"
	"github.com/go-pg/pg/v10/orm"
)

// Filter is an equality condition on a column of the listed table.
type Filter struct {
	Column string
	Value  string
}

// Table is a content table of model T.
type Table[T any] struct {
	db   pg.DBI
	name string
}

func newTable[T any](db pg.DBI, name string) *Table[T] {
	return &Table[T]{db: db, name: name}
}

func (t *Table[T]) Name() string {
	return t.name
}

// Insert stores row and fills its id and created_at from the database.
func (t *Table[T]) Insert(ctx context.Context, row *T) error {
	if _, err := t.db.ModelContext(ctx, row).Returning("*").Insert(); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", t.name, err)
	}

	return nil
}

// List returns all rows matching filters, newest first, ties by ascending id.
func (t *Table[T]) List(ctx context.Context, filters ...Filter) ([]T, error) {
	return t.selectRows(ctx, 0, filters)
}

// Latest returns the n newest rows.
func (t *Table[T]) Latest(ctx context.Context, n int) ([]T, error) {
	if n < 1 {
		return nil, fmt.Errorf("n must be greater than 0: n=%d", n)
	}

	return t.selectRows(ctx, n, nil)
}

func (t *Table[T]) selectRows(ctx context.Context, limit int, filters []Filter) ([]T, error) {
	rows := []T{}
	query := t.db.ModelContext(ctx, &rows)

	applyFilters(query, filters)

	query = query.OrderExpr(`"t"."created_at" DESC, "t"."id" ASC`)
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Select(); err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", t.name, err)
	}

	return rows, nil
}

// ByID returns the row with id, or nil when there is none.
func (t *Table[T]) ByID(ctx context.Context, id int) (*T, error) {
	row := new(T)
	err := t.db.ModelContext(ctx, row).
		Where(`"t"."id" = ?`, id).
		Select()

	if errors.Is(err, pg.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get %s by id: %w", t.name, err)
	}

	return row, nil
}

// Delete removes the row with id and reports whether it existed.
func (t *Table[T]) Delete(ctx context.Context, id int) (bool, error) {
	res, err := t.db.ModelContext(ctx, (*T)(nil)).
		Where(`"t"."id" = ?`, id).
		Delete()
	if err != nil {
		return false, fmt.Errorf("failed to delete from %s: %w", t.name, err)
	}

	return res.RowsAffected() > 0, nil
}

func (t *Table[T]) Count(ctx context.Context) (int, error) {
	count, err := t.db.ModelContext(ctx, (*T)(nil)).Count()
	if err != nil {
		return 0, fmt.Errorf("failed to get %s count: %w", t.name, err)
	}

	return count, nil
}

func applyFilters(query *orm.Query, filters []Filter) {
	for _, f := range filters {
		query.Where(`"t".? = ?`, pg.Ident(f.Column), f.Value)
	}
}

// Repository groups the content tables of one database.
type Repository struct {
	db pg.DBI

	News          *Table[News]
	Articles      *Table[Article]
	Gallery       *Table[GalleryItem]
	Publications  *Table[Publication]
	ImportantDays *Table[ImportantDay]
	Others        *Table[OtherItem]
}

func New(db pg.DBI) *Repository {
	return &Repository{
		db:            db,
		News:          newTable[News](db, Tables.News),
		Articles:      newTable[Article](db, Tables.Article),
		Gallery:       newTable[GalleryItem](db, Tables.GalleryItem),
		Publications:  newTable[Publication](db, Tables.Publication),
		ImportantDays: newTable[ImportantDay](db, Tables.ImportantDay),
		Others:        newTable[OtherItem](db, Tables.OtherItem),
	}
}

func (r *Repository) Ping(ctx context.Context) error {
	if db, ok := r.db.(*pg.DB); ok {
		return db.Ping(ctx)
	}

	return nil
}

func (r *Repository) Close() error {
	if db, ok := r.db.(*pg.DB); ok {
		return db.Close()
	}

	return nil
}
