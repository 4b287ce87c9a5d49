package sharevault

import "time"

// SiteConfig holds all configuration for a sharevault site.
type SiteConfig struct {
	Name        string // Site name (default "ShareVault")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for RSS and meta tags
	Author      string // Default author name for JSON-LD
	OGImage     string // Fallback image for feed enclosures (default "/public/og-image.jpg")

	Addr         string // Listen address (default ":3000")
	DatabasePath string // SQLite path (default "data/sharevault.db")
	MediaDir     string // Uploaded media root (default "data/media")

	AdminPassword string // Required: admin login password
	SessionSecret string // Required: session encryption secret
	CookieSecure  bool   // Set true for HTTPS

	PostCacheTTL time.Duration // Post cache TTL (default 5min)
	PreviewTTL   time.Duration // Draft preview token lifetime (default 1h)
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "ShareVault"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.OGImage == "" {
		c.OGImage = "/public/og-image.jpg"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/sharevault.db"
	}
	if c.MediaDir == "" {
		c.MediaDir = "data/media"
	}
	if c.PostCacheTTL == 0 {
		c.PostCacheTTL = 5 * time.Minute
	}
	if c.PreviewTTL == 0 {
		c.PreviewTTL = time.Hour
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}
