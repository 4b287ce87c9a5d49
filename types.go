package sharevault

import "time"

// Post is the core content entity stored in SQLite and rendered by pages and
// feeds. Slug is globally unique across all posts regardless of publish
// state. AuthorName is a denormalized copy taken at write time and is not
// kept in sync with later author edits. ReadTime is stored at write time
// (ceiling of word count / 200) rather than computed on read.
type Post struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Slug       string    `json:"slug"`
	Content    string    `json:"content"`
	Excerpt    string    `json:"excerpt"`
	ImageURL   string    `json:"imageUrl,omitempty"`
	Category   string    `json:"category"`
	Tags       []string  `json:"tags"`
	AuthorID   string    `json:"authorId"`
	AuthorName string    `json:"authorName"`
	Featured   bool      `json:"featured"`
	Published  bool      `json:"published"`
	ReadTime   int       `json:"readTime"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Link returns the post's public path.
func (p Post) Link() string {
	return "/blog/" + p.Slug + "/"
}

// PostUpdate is a partial update: nil fields are left untouched. UpdatedAt is
// always refreshed by the store; CreatedAt is never written.
type PostUpdate struct {
	Title      *string
	Slug       *string
	Content    *string
	Excerpt    *string
	ImageURL   *string
	Category   *string
	Tags       *[]string
	AuthorID   *string
	AuthorName *string
	Featured   *bool
	Published  *bool
	ReadTime   *int
}

// MediaFile is an uploaded asset's metadata. Path is the storage key; URL is
// the public retrieval path. Posts reference media only by copying URL into
// ImageURL — there is no foreign key.
type MediaFile struct {
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	Type       string    `json:"type"`
	Size       int64     `json:"size"`
	Path       string    `json:"path"`
	UploadedBy string    `json:"uploadedBy"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head>.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
}
