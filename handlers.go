package sharevault

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const homePostLimit = 50

func (a *App) handleHome(c echo.Context) error {
	posts, err := a.Cache.GetPosts(homePostLimit)
	if err != nil {
		return err
	}
	featured, err := a.Cache.GetFeaturedPosts(3)
	if err != nil {
		return err
	}
	categories, err := a.Cache.GetCategories()
	if err != nil {
		return err
	}
	return Render(c, a.Views.Home(featured, posts, categories, a.Config))
}

func (a *App) handlePost(c echo.Context) error {
	post, err := a.Cache.GetPostBySlug(c.Param("slug"))
	if err != nil {
		return err
	}
	if post == nil {
		return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
	}
	posts, err := a.Cache.GetPosts(0)
	if err != nil {
		return err
	}
	related := RelatedPosts(*post, posts, 3)
	return Render(c, a.Views.Post(*post, related, a.Config))
}

func (a *App) handleCategory(c echo.Context) error {
	category := c.Param("category")
	posts, err := a.Cache.GetPostsByCategory(category, homePostLimit)
	if err != nil {
		return err
	}
	return Render(c, a.Views.Category(category, posts, a.Config))
}

func (a *App) handleCategories(c echo.Context) error {
	categories, err := a.Cache.GetCategories()
	if err != nil {
		return err
	}
	return Render(c, a.Views.Categories(categories, a.Config))
}

// handlePreview renders draft content stored under a preview token. Unknown
// and expired tokens 404 the same way a missing post does.
func (a *App) handlePreview(c echo.Context) error {
	post := a.Previews.Get(c.Param("token"))
	if post == nil {
		return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
	}
	return RenderPrivate(c, a.Views.Preview(*post, a.Config))
}

func (a *App) handleSitemap(c echo.Context) error {
	posts, err := a.Cache.GetPosts(0)
	if err != nil {
		return err
	}
	return a.renderSitemap(c, posts)
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.Cache.GetPosts(0)
	if err != nil {
		return err
	}
	return a.renderRSS(c, posts)
}

func handleBlogRedirect(c echo.Context) error {
	return c.Redirect(http.StatusMovedPermanently, "/")
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(a.staticDir + "/favicon.svg")
}

func (a *App) handleRobots(c echo.Context) error {
	sitemap := strings.TrimSuffix(a.Config.URL, "/") + "/sitemap.xml"
	return c.String(http.StatusOK, "User-agent: *\nDisallow: /admin/\nDisallow: /preview/\n\nSitemap: "+sitemap+"\n")
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, a.Views.ServerError())
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
