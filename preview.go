package sharevault

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// PreviewStore hands out short-lived tokens for draft previews. An author in
// the admin editor mints a token for unsaved post content and opens the
// public preview URL in another tab; the token expires on its own, so
// abandoned previews never pile up.
type PreviewStore struct {
	mu      sync.Mutex
	entries map[string]previewEntry
	ttl     time.Duration
}

type previewEntry struct {
	post    Post
	expires time.Time
}

// NewPreviewStore creates a PreviewStore whose tokens live for ttl.
func NewPreviewStore(ttl time.Duration) *PreviewStore {
	p := &PreviewStore{
		entries: make(map[string]previewEntry),
		ttl:     ttl,
	}
	go p.cleanup()
	return p
}

func (p *PreviewStore) cleanup() {
	ticker := time.NewTicker(p.ttl)
	for range ticker.C {
		now := time.Now()
		p.mu.Lock()
		for token, e := range p.entries {
			if now.After(e.expires) {
				delete(p.entries, token)
			}
		}
		p.mu.Unlock()
	}
}

// Put stores post content under a fresh token and returns the token.
func (p *PreviewStore) Put(post Post) string {
	token := uuid.NewString()
	p.mu.Lock()
	p.entries[token] = previewEntry{post: post, expires: time.Now().Add(p.ttl)}
	p.mu.Unlock()
	return token
}

// Get returns the post stored under token, or nil if the token is unknown
// or expired. Tokens stay valid until expiry so an author can reload the
// preview tab.
func (p *PreviewStore) Get(token string) *Post {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, ok := p.entries[token]
	if !ok || time.Now().After(e.expires) {
		delete(p.entries, token)
		return nil
	}
	post := e.post
	return &post
}
