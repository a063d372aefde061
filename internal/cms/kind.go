package cms

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/daniilsolovey/vsk-portal/internal/db"
	"github.com/daniilsolovey/vsk-portal/internal/upload"
)

// Store persists rows of one content table.
type Store[T any] interface {
	Insert(ctx context.Context, row *T) error
	List(ctx context.Context, filters ...db.Filter) ([]T, error)
	Latest(ctx context.Context, n int) ([]T, error)
	ByID(ctx context.Context, id int) (*T, error)
	Delete(ctx context.Context, id int) (bool, error)
	Count(ctx context.Context) (int, error)
}

// Uploader stores submitted files and returns their stored names.
type Uploader interface {
	Ingest(f upload.File, category upload.Category) (string, error)
}

// Row is satisfied by pointers to the db content models.
type Row[T any] interface {
	*T
	Base() *db.Meta
}

// Schema describes how a kind handles its stored-file field.
type Schema[T any] struct {
	Name string

	// FileField is the struct field holding the stored filename, empty when
	// the kind has no file.
	FileField    string
	FileRequired bool
	Category     func(*T) upload.Category
	SetFile      func(*T, string)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Kind implements create/list/get/delete/count for one record kind.
type Kind[T any, P Row[T]] struct {
	schema  Schema[T]
	store   Store[T]
	uploads Uploader
	log     *slog.Logger
}

func newKind[T any, P Row[T]](schema Schema[T], store Store[T], uploads Uploader, log *slog.Logger) *Kind[T, P] {
	return &Kind[T, P]{
		schema:  schema,
		store:   store,
		uploads: uploads,
		log:     log.With("kind", schema.Name),
	}
}

func (k *Kind[T, P]) Name() string {
	return k.schema.Name
}

// Create validates row, stores the optional file and inserts the row.
// Nothing is written when validation fails.
func (k *Kind[T, P]) Create(ctx context.Context, row *T, file *upload.File) (int, error) {
	if err := k.validate(row); err != nil {
		return 0, err
	}

	if file == nil && k.schema.FileRequired {
		return 0, fmt.Errorf("%s: %w", k.schema.Name, upload.ErrNoFile)
	}

	if file != nil {
		if k.schema.SetFile == nil {
			return 0, fmt.Errorf("%w: %s does not accept files", upload.ErrRejected, k.schema.Name)
		}

		stored, err := k.uploads.Ingest(*file, k.schema.Category(row))
		if err != nil {
			return 0, err
		}

		k.schema.SetFile(row, stored)
	}

	meta := P(row).Base()
	meta.ID = 0
	meta.CreatedAt = time.Time{}

	if err := k.store.Insert(ctx, row); err != nil {
		return 0, fmt.Errorf("db create %s: %w", k.schema.Name, err)
	}

	k.log.InfoContext(ctx, "record created", "id", meta.ID)

	return meta.ID, nil
}

// List returns all rows, newest first with ties broken by ascending id.
func (k *Kind[T, P]) List(ctx context.Context, filters ...db.Filter) ([]T, error) {
	rows, err := k.store.List(ctx, filters...)
	if err != nil {
		return nil, fmt.Errorf("db list %s: %w", k.schema.Name, err)
	}

	return inUTC[T, P](rows), nil
}

// Recent returns the n newest rows.
func (k *Kind[T, P]) Recent(ctx context.Context, n int) ([]T, error) {
	rows, err := k.store.Latest(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("db recent %s: %w", k.schema.Name, err)
	}

	return inUTC[T, P](rows), nil
}

func (k *Kind[T, P]) Get(ctx context.Context, id int) (*T, error) {
	row, err := k.store.ByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("db get %s by id: %w", k.schema.Name, err)
	} else if row == nil {
		return nil, fmt.Errorf("%s %d: %w", k.schema.Name, id, ErrNotFound)
	}

	meta := P(row).Base()
	meta.CreatedAt = meta.CreatedAt.UTC()

	return row, nil
}

// Delete removes the row permanently. Stored files are left in place.
func (k *Kind[T, P]) Delete(ctx context.Context, id int) error {
	deleted, err := k.store.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("db delete %s: %w", k.schema.Name, err)
	} else if !deleted {
		return fmt.Errorf("%s %d: %w", k.schema.Name, id, ErrNotFound)
	}

	k.log.InfoContext(ctx, "record deleted", "id", id)

	return nil
}

func (k *Kind[T, P]) Count(ctx context.Context) (int, error) {
	count, err := k.store.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("db count %s: %w", k.schema.Name, err)
	}

	return count, nil
}

func (k *Kind[T, P]) validate(row *T) error {
	var err error
	if k.schema.FileField != "" {
		// the file field is filled in after the upload succeeds
		err = validate.StructExcept(row, k.schema.FileField)
	} else {
		err = validate.Struct(row)
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return &ValidationError{
			Kind:  k.schema.Name,
			Field: strings.ToLower(fieldErrs[0].Field()),
			Rule:  fieldErrs[0].Tag(),
		}
	}

	return err
}

func inUTC[T any, P Row[T]](rows []T) []T {
	for i := range rows {
		meta := P(&rows[i]).Base()
		meta.CreatedAt = meta.CreatedAt.UTC()
	}

	return rows
}
