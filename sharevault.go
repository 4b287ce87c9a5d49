// Package sharevault is a content publishing engine built with Go, Echo, and
// templ. It provides the post store, slug pipeline, quote-aware content
// rendering, media uploads, draft previews, RSS, and sitemap out of the box.
//
// Sites can replace any page template through the ViewFuncs struct;
// sharevault handles handler logic, middleware, and database operations.
package sharevault

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

// ViewFuncs holds the templ components the engine calls when rendering
// pages. Zero-value fields fall back to the built-in views, so a site only
// overrides the pages it wants to own.
type ViewFuncs struct {
	Home        func(featured, posts []Post, categories []string, cfg SiteConfig) templ.Component
	Post        func(post Post, related []Post, cfg SiteConfig) templ.Component
	Preview     func(post Post, cfg SiteConfig) templ.Component
	Category    func(category string, posts []Post, cfg SiteConfig) templ.Component
	Categories  func(categories []string, cfg SiteConfig) templ.Component
	AdminLogin  func(showError bool, csrfToken string) templ.Component
	AdminHome   func(csrfToken string) templ.Component
	NotFound    func() templ.Component
	ServerError func() templ.Component
}

// App is the central sharevault application. It wires together the store,
// cache, media storage, preview tokens, handlers, middleware, and views.
type App struct {
	Config   SiteConfig
	Echo     *echo.Echo
	Store    *Store
	Cache    *PostCache
	Media    *MediaStore
	Previews *PreviewStore
	Views    ViewFuncs

	loginLimiter *LoginLimiter
	customRoutes []func(*App)
	staticDir    string
}

// New creates a sharevault App with the given configuration and view overrides.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     views,
		staticDir: "public",
	}
	a.fillDefaultViews()

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Start initializes storage, cache, middleware, and routes, then starts the
// server. It blocks until the server stops.
func (a *App) Start() error {
	if a.Config.AdminPassword == "" {
		return fmt.Errorf("sharevault: AdminPassword is required")
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("sharevault: SessionSecret is required")
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("sharevault: init store: %w", err)
	}
	a.Store = store
	if l, ok := a.Echo.Logger.(*log.Logger); ok {
		a.Store.SetLogger(l)
	}

	media, err := NewMediaStore(a.Config.MediaDir, a.Store)
	if err != nil {
		return fmt.Errorf("sharevault: init media: %w", err)
	}
	a.Media = media

	a.Cache = NewPostCache(a.Store, a.Config.PostCacheTTL)
	a.Previews = NewPreviewStore(a.Config.PreviewTTL)
	a.loginLimiter = NewLoginLimiter(5, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}

	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Static assets and uploaded media.
	e.Static("/public", a.staticDir)
	e.Static("/media", a.Config.MediaDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	// Public routes.
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/", a.handleHome)
	e.GET("/blog", handleBlogRedirect)
	e.GET("/blog/:slug/", a.handlePost)
	e.GET("/category/:category/", a.handleCategory)
	e.GET("/categories/", a.handleCategories)
	e.GET("/preview/:token/", a.handlePreview)

	// Admin pages.
	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", handleAdminLogout)

	// Admin JSON API.
	api := e.Group("/admin/api", a.requireAdmin)
	api.GET("/posts", a.handleAPIListPosts)
	api.POST("/posts", a.handleAPICreatePost)
	api.POST("/posts/bulk", a.handleAPIBulkCreatePosts)
	api.POST("/posts/bulk-delete", a.handleAPIBulkDeletePosts)
	api.GET("/posts/:id", a.handleAPIGetPost)
	api.PUT("/posts/:id", a.handleAPIUpdatePost)
	api.DELETE("/posts/:id", a.handleAPIDeletePost)
	api.POST("/posts/:id/publish", a.handleAPIPublishPost)
	api.POST("/posts/:id/unpublish", a.handleAPIUnpublishPost)
	api.GET("/slug-check", a.handleAPISlugCheck)
	api.GET("/media", a.handleAPIListMedia)
	api.POST("/media", a.handleAPIUploadMedia)
	api.DELETE("/media/*", a.handleAPIDeleteMedia)
	api.POST("/preview", a.handleAPICreatePreview)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or fatally
// exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		fmt.Fprintf(os.Stderr, "sharevault: required environment variable %s is not set\n", key)
		os.Exit(1)
	}
	return v
}
