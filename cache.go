package sharevault

import (
	"sync"
	"time"
)

// PostCache is an in-memory cache of the full published set and its
// categories with TTL. Holding every published post keeps each public URL
// servable from the cache; a capped load would make older posts 404 at
// their own slugs. Admin writes call Invalidate so public pages converge
// within one request instead of waiting out the TTL.
type PostCache struct {
	mu         sync.RWMutex
	posts      []Post
	categories []string
	fetched    time.Time
	ttl        time.Duration
	store      *Store
}

// NewPostCache creates a PostCache backed by the given Store.
func NewPostCache(s *Store, ttl time.Duration) *PostCache {
	return &PostCache{store: s, ttl: ttl}
}

func (c *PostCache) valid() bool {
	return c.posts != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *PostCache) Invalidate() {
	c.mu.Lock()
	c.posts = nil
	c.categories = nil
	c.mu.Unlock()
}

func (c *PostCache) load() error {
	if c.valid() {
		return nil
	}
	posts, err := c.store.GetPosts(0)
	if err != nil {
		return err
	}
	categories, err := c.store.GetCategories()
	if err != nil {
		return err
	}
	if posts == nil {
		posts = []Post{}
	}
	c.posts = posts
	c.categories = categories
	c.fetched = time.Now()
	return nil
}

// ensureLoaded returns cached posts and categories after ensuring the cache
// is fresh. It tries a read lock first; only takes a write lock if a reload
// is needed.
func (c *PostCache) ensureLoaded() ([]Post, []string, error) {
	c.mu.RLock()
	if c.valid() {
		posts, categories := c.posts, c.categories
		c.mu.RUnlock()
		return posts, categories, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(); err != nil {
		return nil, nil, err
	}
	return c.posts, c.categories, nil
}

// GetPosts returns published posts, newest first, truncated to limit.
func (c *PostCache) GetPosts(limit int) ([]Post, error) {
	posts, _, err := c.ensureLoaded()
	if err != nil {
		return nil, err
	}
	if limit > 0 && limit < len(posts) {
		posts = posts[:limit]
	}
	return posts, nil
}

// GetFeaturedPosts returns featured published posts, newest first.
func (c *PostCache) GetFeaturedPosts(limit int) ([]Post, error) {
	posts, _, err := c.ensureLoaded()
	if err != nil {
		return nil, err
	}
	var featured []Post
	for _, p := range posts {
		if p.Featured {
			featured = append(featured, p)
			if limit > 0 && len(featured) == limit {
				break
			}
		}
	}
	return featured, nil
}

// GetPostsByCategory returns published posts in the category, newest first.
// Matching is exact, the same as the store query behind it.
func (c *PostCache) GetPostsByCategory(category string, limit int) ([]Post, error) {
	posts, _, err := c.ensureLoaded()
	if err != nil {
		return nil, err
	}
	var filtered []Post
	for _, p := range posts {
		if p.Category == category {
			filtered = append(filtered, p)
			if limit > 0 && len(filtered) == limit {
				break
			}
		}
	}
	return filtered, nil
}

// GetCategories returns the distinct categories of published posts, sorted.
func (c *PostCache) GetCategories() ([]string, error) {
	_, categories, err := c.ensureLoaded()
	return categories, err
}

// GetPostBySlug returns a single published post by slug from the cache.
// Returns (nil, nil) when nothing matches.
func (c *PostCache) GetPostBySlug(slug string) (*Post, error) {
	posts, _, err := c.ensureLoaded()
	if err != nil {
		return nil, err
	}
	for i := range posts {
		if posts[i].Slug == slug {
			p := posts[i]
			return &p, nil
		}
	}
	return nil, nil
}
