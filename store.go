package sharevault

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/gommon/log"
	_ "modernc.org/sqlite"
)

// Store wraps a SQLite database and is the sole access path to the post
// collection and the media metadata table. Callers never build raw filters;
// every query shape lives here.
type Store struct {
	db     *sql.DB
	logger *log.Logger
}

// ErrSlugTaken is returned when a create or update would violate the unique
// slug constraint. The advisory IsSlugUnique pre-check cannot stop two racing
// writers from both passing it; the constraint is what actually holds the
// invariant.
var ErrSlugTaken = fmt.Errorf("slug already in use")

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Enable WAL mode for concurrent read/write access, set a busy timeout
	// so writers wait instead of returning SQLITE_BUSY immediately, and tune
	// performance: synchronous=NORMAL is safe with WAL and avoids an fsync
	// per transaction; larger cache and mmap reduce disk I/O.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
		PRAGMA mmap_size=268435456;
	`); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db, logger: log.New("store")}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

// SetLogger replaces the store's logger so it can share the server's.
func (s *Store) SetLogger(l *log.Logger) {
	if l != nil {
		s.logger = l
	}
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS posts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    slug TEXT NOT NULL UNIQUE,
    title TEXT NOT NULL,
    content TEXT NOT NULL,
    excerpt TEXT NOT NULL DEFAULT '',
    image_url TEXT NOT NULL DEFAULT '',
    category TEXT NOT NULL DEFAULT '',
    tags TEXT NOT NULL DEFAULT ',',
    author_id TEXT NOT NULL DEFAULT '',
    author_name TEXT NOT NULL DEFAULT '',
    featured INTEGER NOT NULL DEFAULT 0,
    published INTEGER NOT NULL DEFAULT 0,
    read_time INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_posts_published_created ON posts(published, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_posts_category ON posts(category);

CREATE TABLE IF NOT EXISTS media (
    path TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    url TEXT NOT NULL,
    type TEXT NOT NULL,
    size INTEGER NOT NULL,
    uploaded_by TEXT NOT NULL,
    uploaded_at TEXT NOT NULL
);
`)
	return err
}

const postColumns = `id, slug, title, content, excerpt, image_url, category, tags, author_id, author_name, featured, published, read_time, created_at, updated_at`

func scanPost(row interface{ Scan(...any) error }) (Post, error) {
	var p Post
	var tags string
	var featured, published int
	var createdAt, updatedAt string
	err := row.Scan(&p.ID, &p.Slug, &p.Title, &p.Content, &p.Excerpt, &p.ImageURL,
		&p.Category, &tags, &p.AuthorID, &p.AuthorName, &featured, &published,
		&p.ReadTime, &createdAt, &updatedAt)
	if err != nil {
		return Post{}, err
	}
	p.Tags = ParseTags(tags)
	p.Featured = featured == 1
	p.Published = published == 1
	p.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	p.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	return p, nil
}

func (s *Store) queryPosts(query string, args ...any) ([]Post, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// sqlLimit maps limit <= 0 to SQLite's "no limit" sentinel so callers can
// ask for the full set.
func sqlLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// timeLayout keeps full nanosecond width so the TEXT columns sort
// lexicographically in timestamp order. RFC3339Nano trims trailing zeros
// and would not.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// CreatePost stamps both timestamps to now, persists the post, and returns
// the new identifier. It does not validate slug format or run the uniqueness
// pre-check; that pipeline belongs to the caller. A duplicate slug surfaces
// as ErrSlugTaken from the unique index.
func (s *Store) CreatePost(p Post) (int64, error) {
	now := formatTime(time.Now())
	res, err := s.db.Exec(`INSERT INTO posts (slug, title, content, excerpt, image_url, category, tags, author_id, author_name, featured, published, read_time, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Slug, p.Title, p.Content, p.Excerpt, p.ImageURL, p.Category, JoinTags(p.Tags),
		p.AuthorID, p.AuthorName, boolInt(p.Featured), boolInt(p.Published), p.ReadTime, now, now)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrSlugTaken
		}
		return 0, err
	}
	return res.LastInsertId()
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "unique")
}

// GetPosts returns published posts, newest first, truncated to limit.
// A limit of zero or less returns every published post.
func (s *Store) GetPosts(limit int) ([]Post, error) {
	return s.queryPosts(`SELECT `+postColumns+` FROM posts WHERE published = 1 ORDER BY created_at DESC LIMIT ?`, sqlLimit(limit))
}

// GetAllPosts returns every post regardless of publish state, newest first.
// For admin use only; public callers go through GetPosts.
func (s *Store) GetAllPosts(limit int) ([]Post, error) {
	return s.queryPosts(`SELECT `+postColumns+` FROM posts ORDER BY created_at DESC LIMIT ?`, sqlLimit(limit))
}

// GetFeaturedPosts returns featured published posts, newest first.
func (s *Store) GetFeaturedPosts(limit int) ([]Post, error) {
	return s.queryPosts(`SELECT `+postColumns+` FROM posts WHERE featured = 1 AND published = 1 ORDER BY created_at DESC LIMIT ?`, sqlLimit(limit))
}

// GetDraftPosts returns unpublished posts ordered by most recent edit, so the
// draft an author just touched sits at the top of the dashboard.
func (s *Store) GetDraftPosts(limit int) ([]Post, error) {
	return s.queryPosts(`SELECT `+postColumns+` FROM posts WHERE published = 0 ORDER BY updated_at DESC LIMIT ?`, sqlLimit(limit))
}

// GetPostByID looks a post up by id with no publish filter, so admin editing
// can reach drafts. Returns (nil, nil) when nothing matches.
func (s *Store) GetPostByID(id int64) (*Post, error) {
	row := s.db.QueryRow(`SELECT `+postColumns+` FROM posts WHERE id = ?`, id)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetPostBySlug looks a published post up by slug. Unpublished posts are
// invisible at their public URL even on an exact slug hit; a draft's slug
// behaves the same as a missing one. Returns (nil, nil) when nothing matches.
func (s *Store) GetPostBySlug(slug string) (*Post, error) {
	row := s.db.QueryRow(`SELECT `+postColumns+` FROM posts WHERE slug = ? AND published = 1`, slug)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetPostsByCategory returns published posts in the category, newest first.
func (s *Store) GetPostsByCategory(category string, limit int) ([]Post, error) {
	return s.queryPosts(`SELECT `+postColumns+` FROM posts WHERE category = ? AND published = 1 ORDER BY created_at DESC LIMIT ?`, category, sqlLimit(limit))
}

// GetCategories returns the distinct categories of published posts, sorted
// ascending. Public callers additionally sit behind the post cache.
func (s *Store) GetCategories() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT category FROM posts WHERE published = 1 AND category != '' ORDER BY category ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// UpdatePost merges the set fields of u into an existing post and always
// refreshes updated_at. created_at is never touched. Changing the slug to one
// another post holds returns ErrSlugTaken.
func (s *Store) UpdatePost(id int64, u PostUpdate) error {
	sets := []string{"updated_at = ?"}
	args := []any{formatTime(time.Now())}

	add := func(column string, value any) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}
	if u.Title != nil {
		add("title", *u.Title)
	}
	if u.Slug != nil {
		add("slug", *u.Slug)
	}
	if u.Content != nil {
		add("content", *u.Content)
	}
	if u.Excerpt != nil {
		add("excerpt", *u.Excerpt)
	}
	if u.ImageURL != nil {
		add("image_url", *u.ImageURL)
	}
	if u.Category != nil {
		add("category", *u.Category)
	}
	if u.Tags != nil {
		add("tags", JoinTags(*u.Tags))
	}
	if u.AuthorID != nil {
		add("author_id", *u.AuthorID)
	}
	if u.AuthorName != nil {
		add("author_name", *u.AuthorName)
	}
	if u.Featured != nil {
		add("featured", boolInt(*u.Featured))
	}
	if u.Published != nil {
		add("published", boolInt(*u.Published))
	}
	if u.ReadTime != nil {
		add("read_time", *u.ReadTime)
	}

	args = append(args, id)
	_, err := s.db.Exec(`UPDATE posts SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if isUniqueViolation(err) {
		return ErrSlugTaken
	}
	return err
}

// DeletePost removes a post by id. Deleting a nonexistent id is a no-op.
func (s *Store) DeletePost(id int64) error {
	_, err := s.db.Exec(`DELETE FROM posts WHERE id = ?`, id)
	return err
}

// BulkDeletePosts removes every post whose id is listed in a single
// statement. Missing ids are silently skipped.
func (s *Store) BulkDeletePosts(ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	marks := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	_, err := s.db.Exec(`DELETE FROM posts WHERE id IN (`+marks+`)`, args...)
	return err
}

// PublishPost makes a post publicly reachable.
func (s *Store) PublishPost(id int64) error {
	published := true
	return s.UpdatePost(id, PostUpdate{Published: &published})
}

// UnpublishPost turns a post back into a draft.
func (s *Store) UnpublishPost(id int64) error {
	published := false
	return s.UpdatePost(id, PostUpdate{Published: &published})
}

// IsSlugUnique reports whether slug is free to use. When excludeID is
// nonzero, a match on that id still counts as unique, so an author can keep
// their own slug while editing. The check fails open: on a query error it
// logs and reports the slug as available rather than blocking the author,
// and the unique index catches the rare collision at write time.
func (s *Store) IsSlugUnique(slug string, excludeID int64) bool {
	var id int64
	err := s.db.QueryRow(`SELECT id FROM posts WHERE slug = ? LIMIT 1`, slug).Scan(&id)
	if err == sql.ErrNoRows {
		return true
	}
	if err != nil {
		s.logger.Warnf("slug uniqueness check failed for %q: %v", slug, err)
		return true
	}
	return excludeID != 0 && id == excludeID
}

// SaveMedia records an uploaded file's metadata. Re-saving the same storage
// key replaces the earlier row.
func (s *Store) SaveMedia(m MediaFile) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO media (path, name, url, type, size, uploaded_by, uploaded_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.Path, m.Name, m.URL, m.Type, m.Size, m.UploadedBy, formatTime(m.UploadedAt))
	return err
}

// ListMedia returns all media metadata, newest upload first.
func (s *Store) ListMedia() ([]MediaFile, error) {
	rows, err := s.db.Query(`SELECT path, name, url, type, size, uploaded_by, uploaded_at FROM media ORDER BY uploaded_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []MediaFile
	for rows.Next() {
		var m MediaFile
		var uploadedAt string
		if err := rows.Scan(&m.Path, &m.Name, &m.URL, &m.Type, &m.Size, &m.UploadedBy, &uploadedAt); err != nil {
			return nil, err
		}
		m.UploadedAt, _ = time.Parse(time.RFC3339Nano, uploadedAt)
		files = append(files, m)
	}
	return files, rows.Err()
}

// DeleteMediaRecord removes a media metadata row by storage key.
func (s *Store) DeleteMediaRecord(path string) error {
	_, err := s.db.Exec(`DELETE FROM media WHERE path = ?`, path)
	return err
}

// ParseTags splits a comma-delimited tag string (e.g. ",go,web,") into a slice.
func ParseTags(tagString string) []string {
	tagString = strings.Trim(tagString, ",")
	if tagString == "" {
		return nil
	}
	parts := strings.Split(tagString, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// JoinTags normalizes tags to trimmed lowercase and encodes them in the
// comma-wrapped storage form ParseTags reads back.
func JoinTags(tags []string) string {
	normalized := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			normalized = append(normalized, t)
		}
	}
	return "," + strings.Join(normalized, ",") + ","
}
