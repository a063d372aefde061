package upload

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// Category selects the extension whitelist and destination directory of an upload.
type Category string

const (
	Image    Category = "image"
	Video    Category = "video"
	Document Category = "document"
)

const timestampLayout = "20060102_150405"

// URLPrefix is the public path the upload root is served under.
const URLPrefix = "/uploads"

var (
	ErrRejected = errors.New("file rejected")
	// ErrNoFile is returned when a file is required but none was submitted.
	ErrNoFile = fmt.Errorf("%w: no file submitted", ErrRejected)
)

// Rule describes where files of a category go and which extensions they may have.
type Rule struct {
	Dir        string
	Extensions []string
}

// DefaultRules returns the stock whitelist for every category.
func DefaultRules() map[Category]Rule {
	return map[Category]Rule{
		Image:    {Dir: "images", Extensions: []string{"png", "jpg", "jpeg", "gif", "webp"}},
		Video:    {Dir: "videos", Extensions: []string{"mp4", "mov", "avi", "webm"}},
		Document: {Dir: "publications", Extensions: []string{"pdf", "doc", "docx", "txt"}},
	}
}

// File is a submitted upload: the name the client sent and its bytes.
type File struct {
	Name string
	Body io.Reader
}

type Ingestor struct {
	root  string
	rules map[Category]Rule
	now   func() time.Time
	log   *slog.Logger
}

// New creates an Ingestor writing under root. A nil rules map means DefaultRules.
func New(root string, rules map[Category]Rule, log *slog.Logger) *Ingestor {
	if rules == nil {
		rules = DefaultRules()
	}

	return &Ingestor{
		root:  root,
		rules: rules,
		now:   time.Now,
		log:   log.With("component", "upload"),
	}
}

// WithClock replaces the clock used for stored filename timestamps.
func (i *Ingestor) WithClock(now func() time.Time) *Ingestor {
	i.now = now
	return i
}

func (i *Ingestor) Root() string {
	return i.root
}

// Prepare creates the directory of every category under the upload root.
func (i *Ingestor) Prepare() error {
	for _, rule := range i.rules {
		dir := filepath.Join(i.root, rule.Dir)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create upload dir %s: %w", dir, err)
		}
	}

	return nil
}

// Allowed reports whether name has an extension whitelisted for category.
func (i *Ingestor) Allowed(name string, category Category) bool {
	rule, ok := i.rules[category]
	if !ok {
		return false
	}

	dot := strings.LastIndex(name, ".")
	if dot < 0 {
		return false
	}

	return slices.Contains(rule.Extensions, strings.ToLower(name[dot+1:]))
}

// Ingest validates f against category, writes it to the category directory
// and returns the stored filename. Rejected files are never written.
func (i *Ingestor) Ingest(f File, category Category) (string, error) {
	if f.Name == "" || f.Body == nil {
		return "", ErrNoFile
	}

	if !i.Allowed(f.Name, category) {
		return "", fmt.Errorf("%w: %q is not an allowed %s file", ErrRejected, f.Name, category)
	}

	rule := i.rules[category]
	stored := StoredName(f.Name, i.now())
	dir := filepath.Join(i.root, rule.Dir)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir %s: %w", dir, err)
	}

	target := filepath.Join(dir, stored)
	if err := writeFile(target, f.Body); err != nil {
		return "", err
	}

	i.log.Info("file stored", "category", category, "original", f.Name, "stored", stored)

	return stored, nil
}

// URL returns the public path of a stored file, or "" when stored is empty.
func (i *Ingestor) URL(category Category, stored string) string {
	if stored == "" {
		return ""
	}

	rule, ok := i.rules[category]
	if !ok {
		return ""
	}

	return path.Join(URLPrefix, rule.Dir, stored)
}

// StoredName derives {stem}_{YYYYMMDD_HHMMSS}{ext} from a client filename.
// Directory components are discarded and stem and extension are sanitized separately.
func StoredName(name string, at time.Time) string {
	base := name[strings.LastIndexAny(name, `/\`)+1:]

	ext := filepath.Ext(base)
	stem := Sanitize(strings.TrimSuffix(base, ext))
	if stem == "" {
		stem = "file"
	}

	if ext = Sanitize(ext); ext != "" {
		ext = "." + ext
	}

	return stem + "_" + at.Format(timestampLayout) + ext
}

func writeFile(target string, body io.Reader) error {
	out, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("create %s: %w", target, err)
	}

	if _, err := io.Copy(out, body); err != nil {
		_ = out.Close()
		_ = os.Remove(target)
		return fmt.Errorf("write %s: %w", target, err)
	}

	if err := out.Close(); err != nil {
		_ = os.Remove(target)
		return fmt.Errorf("close %s: %w", target, err)
	}

	return nil
}
