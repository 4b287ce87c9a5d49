package sharevault

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestBuildURL(t *testing.T) {
	tests := []struct {
		base string
		segs []string
		want string
	}{
		{"https://example.com", nil, "https://example.com"},
		{"https://example.com", []string{"blog", "my-post"}, "https://example.com/blog/my-post/"},
		{"https://example.com/", []string{"categories"}, "https://example.com/categories/"},
	}
	for _, tt := range tests {
		if got := BuildURL(tt.base, tt.segs...); got != tt.want {
			t.Errorf("BuildURL(%q, %v) = %q, want %q", tt.base, tt.segs, got, tt.want)
		}
	}
}

func TestFilterEmpty(t *testing.T) {
	got := FilterEmpty([]string{"a", "", "  ", "b"})
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("FilterEmpty = %v", got)
	}
}

func TestRelatedPosts(t *testing.T) {
	current := Post{ID: 1, Category: "Tech", Tags: []string{"go"}}
	posts := []Post{
		{ID: 1, Category: "Tech"},                            // current itself
		{ID: 2, Category: "Tech"},                            // same category
		{ID: 3, Category: "Art", Tags: []string{"GO"}},       // shared tag, case folded
		{ID: 4, Category: "Art", Tags: []string{"painting"}}, // unrelated
		{ID: 5, Category: "tech"},                            // category case folded
	}

	got := RelatedPosts(current, posts, 0)
	if len(got) != 3 {
		t.Fatalf("RelatedPosts count = %d, want 3: %v", len(got), got)
	}
	if got[0].ID != 2 || got[1].ID != 3 || got[2].ID != 5 {
		t.Errorf("RelatedPosts order = %v", got)
	}

	limited := RelatedPosts(current, posts, 1)
	if len(limited) != 1 || limited[0].ID != 2 {
		t.Errorf("RelatedPosts with limit = %v", limited)
	}
}

func TestBlogPostingJsonLD(t *testing.T) {
	cfg := SiteConfig{Name: "ShareVault", URL: "https://example.com", Author: "Site Author"}
	post := Post{
		ID:        7,
		Title:     "A Post",
		Slug:      "a-post",
		Excerpt:   "summary",
		Tags:      []string{"go", "web"},
		CreatedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC),
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(BlogPostingJsonLD(post, cfg)), &data); err != nil {
		t.Fatalf("invalid JSON-LD: %v", err)
	}
	if data["headline"] != "A Post" {
		t.Errorf("headline = %v", data["headline"])
	}
	if data["url"] != "https://example.com/blog/a-post/" {
		t.Errorf("url = %v", data["url"])
	}
	if data["datePublished"] != "2025-03-01T10:00:00Z" {
		t.Errorf("datePublished = %v", data["datePublished"])
	}
	author, _ := data["author"].(map[string]any)
	if author == nil || author["name"] != "Site Author" {
		t.Errorf("author = %v", data["author"])
	}
	if !strings.Contains(data["keywords"].(string), "go") {
		t.Errorf("keywords = %v", data["keywords"])
	}
}

func TestBlogPostingJsonLDPrefersPostAuthor(t *testing.T) {
	cfg := SiteConfig{Name: "ShareVault", URL: "https://example.com", Author: "Site Author"}
	post := Post{Title: "T", Slug: "t", AuthorName: "Post Author"}

	var data map[string]any
	if err := json.Unmarshal([]byte(BlogPostingJsonLD(post, cfg)), &data); err != nil {
		t.Fatalf("invalid JSON-LD: %v", err)
	}
	author, _ := data["author"].(map[string]any)
	if author == nil || author["name"] != "Post Author" {
		t.Errorf("author = %v", data["author"])
	}
}
