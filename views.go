package sharevault

import (
	"context"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/sharevault/sharevault/content"
)

// fillDefaultViews plugs the built-in views into any ViewFuncs field the
// caller left nil.
func (a *App) fillDefaultViews() {
	v := &a.Views
	if v.Home == nil {
		v.Home = defaultHome
	}
	if v.Post == nil {
		v.Post = defaultPost
	}
	if v.Preview == nil {
		v.Preview = defaultPreview
	}
	if v.Category == nil {
		v.Category = defaultCategory
	}
	if v.Categories == nil {
		v.Categories = defaultCategories
	}
	if v.AdminLogin == nil {
		v.AdminLogin = defaultAdminLogin
	}
	if v.AdminHome == nil {
		v.AdminHome = defaultAdminHome
	}
	if v.NotFound == nil {
		v.NotFound = defaultNotFound
	}
	if v.ServerError == nil {
		v.ServerError = defaultServerError
	}
}

func page(title string, cfg SiteConfig, meta PageMeta, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<!DOCTYPE html><html lang=\"en\"><head><meta charset=\"utf-8\">")
		b.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">")
		b.WriteString("<title>" + html.EscapeString(title) + "</title>")
		if meta.Description != "" {
			b.WriteString("<meta name=\"description\" content=\"" + html.EscapeString(meta.Description) + "\">")
		}
		if meta.URL != "" {
			b.WriteString("<link rel=\"canonical\" href=\"" + html.EscapeString(meta.URL) + "\">")
			b.WriteString("<meta property=\"og:url\" content=\"" + html.EscapeString(meta.URL) + "\">")
		}
		b.WriteString("<meta property=\"og:title\" content=\"" + html.EscapeString(title) + "\">")
		if meta.OGType != "" {
			b.WriteString("<meta property=\"og:type\" content=\"" + html.EscapeString(meta.OGType) + "\">")
		}
		b.WriteString("<link rel=\"alternate\" type=\"application/rss+xml\" title=\"" + html.EscapeString(cfg.Name) + "\" href=\"/feed.xml\">")
		b.WriteString("<link rel=\"stylesheet\" href=\"/public/styles.css\">")
		b.WriteString("</head><body><header class=\"site-header\"><a href=\"/\" class=\"site-name\">" + html.EscapeString(cfg.Name) + "</a>")
		b.WriteString("<nav><a href=\"/categories/\">Categories</a> <a href=\"/feed.xml\">RSS</a></nav></header><main>")
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</main><footer class=\"site-footer\">"+html.EscapeString(cfg.Name)+"</footer></body></html>")
		return err
	})
}

func postCard(b *strings.Builder, p Post) {
	b.WriteString("<article class=\"post-card\">")
	if p.ImageURL != "" {
		b.WriteString("<img src=\"" + html.EscapeString(p.ImageURL) + "\" alt=\"\" loading=\"lazy\">")
	}
	b.WriteString("<h2><a href=\"" + html.EscapeString(p.Link()) + "\">" + html.EscapeString(p.Title) + "</a></h2>")
	b.WriteString("<p class=\"post-meta\">")
	if p.Category != "" {
		b.WriteString("<a href=\"/category/" + html.EscapeString(PathEscape(p.Category)) + "/\">" + html.EscapeString(p.Category) + "</a> · ")
	}
	b.WriteString(p.CreatedAt.Format("Jan 2, 2006"))
	if p.ReadTime > 0 {
		fmt.Fprintf(b, " · %d min read", p.ReadTime)
	}
	b.WriteString("</p>")
	if p.Excerpt != "" {
		b.WriteString("<p>" + html.EscapeString(p.Excerpt) + "</p>")
	}
	b.WriteString("</article>")
}

func defaultHome(featured, posts []Post, categories []string, cfg SiteConfig) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<script type=\"application/ld+json\">" + WebsiteJsonLD(cfg) + "</script>")
		if len(featured) > 0 {
			b.WriteString("<section class=\"featured\"><h2>Featured</h2>")
			for _, p := range featured {
				postCard(&b, p)
			}
			b.WriteString("</section>")
		}
		b.WriteString("<section class=\"posts\">")
		for _, p := range posts {
			postCard(&b, p)
		}
		if len(posts) == 0 {
			b.WriteString("<p class=\"empty\">No posts yet.</p>")
		}
		b.WriteString("</section>")
		if len(categories) > 0 {
			b.WriteString("<aside class=\"categories\"><h2>Categories</h2><ul>")
			for _, c := range categories {
				b.WriteString("<li><a href=\"/category/" + html.EscapeString(PathEscape(c)) + "/\">" + html.EscapeString(c) + "</a></li>")
			}
			b.WriteString("</ul></aside>")
		}
		_, err := io.WriteString(w, b.String())
		return err
	})
	return page(cfg.Name, cfg, PageMeta{Description: cfg.Description, URL: BuildURL(cfg.URL), OGType: "website"}, body)
}

func postArticle(post Post, cfg SiteConfig, preview bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		if preview {
			b.WriteString("<div class=\"preview-banner\">Draft preview</div>")
		} else {
			b.WriteString("<script type=\"application/ld+json\">" + BlogPostingJsonLD(post, cfg) + "</script>")
		}
		b.WriteString("<article class=\"post\"><h1>" + html.EscapeString(post.Title) + "</h1>")
		b.WriteString("<p class=\"post-meta\">")
		if post.AuthorName != "" {
			b.WriteString(html.EscapeString(post.AuthorName) + " · ")
		}
		b.WriteString(post.CreatedAt.Format("Jan 2, 2006"))
		if post.ReadTime > 0 {
			fmt.Fprintf(&b, " · %d min read", post.ReadTime)
		}
		b.WriteString("</p>")
		if post.ImageURL != "" {
			b.WriteString("<img class=\"post-hero\" src=\"" + html.EscapeString(post.ImageURL) + "\" alt=\"\">")
		}
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}

		postURL := BuildURL(cfg.URL, "blog", post.Slug)
		if err := content.Blocks(post.Content, post.Title, postURL).Render(ctx, w); err != nil {
			return err
		}

		b.Reset()
		if len(post.Tags) > 0 {
			b.WriteString("<p class=\"post-tags\">" + html.EscapeString(TagList(post.Tags)) + "</p>")
		}
		b.WriteString("</article>")
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
		return content.QuoteScript().Render(ctx, w)
	})
}

func defaultPost(post Post, related []Post, cfg SiteConfig) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := postArticle(post, cfg, false).Render(ctx, w); err != nil {
			return err
		}
		if len(related) == 0 {
			return nil
		}
		var b strings.Builder
		b.WriteString("<section class=\"related\"><h2>Related posts</h2>")
		for _, p := range related {
			postCard(&b, p)
		}
		b.WriteString("</section>")
		_, err := io.WriteString(w, b.String())
		return err
	})
	meta := PageMeta{
		Description: post.Excerpt,
		URL:         BuildURL(cfg.URL, "blog", post.Slug),
		OGType:      "article",
	}
	return page(post.Title+" | "+cfg.Name, cfg, meta, body)
}

func defaultPreview(post Post, cfg SiteConfig) templ.Component {
	return page(post.Title+" (preview)", cfg, PageMeta{OGType: "article"}, postArticle(post, cfg, true))
}

func defaultCategory(category string, posts []Post, cfg SiteConfig) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<h1>" + html.EscapeString(category) + "</h1><section class=\"posts\">")
		for _, p := range posts {
			postCard(&b, p)
		}
		if len(posts) == 0 {
			b.WriteString("<p class=\"empty\">No posts in this category.</p>")
		}
		b.WriteString("</section>")
		_, err := io.WriteString(w, b.String())
		return err
	})
	meta := PageMeta{URL: BuildURL(cfg.URL, "category", PathEscape(category)), OGType: "website"}
	return page(category+" | "+cfg.Name, cfg, meta, body)
}

func defaultCategories(categories []string, cfg SiteConfig) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<h1>Categories</h1><ul class=\"category-list\">")
		for _, c := range categories {
			b.WriteString("<li><a href=\"/category/" + html.EscapeString(PathEscape(c)) + "/\">" + html.EscapeString(c) + "</a></li>")
		}
		b.WriteString("</ul>")
		if len(categories) == 0 {
			b.WriteString("<p class=\"empty\">No categories yet.</p>")
		}
		_, err := io.WriteString(w, b.String())
		return err
	})
	return page("Categories | "+cfg.Name, cfg, PageMeta{URL: BuildURL(cfg.URL, "categories"), OGType: "website"}, body)
}

func defaultAdminLogin(showError bool, csrfToken string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<!DOCTYPE html><html lang=\"en\"><head><meta charset=\"utf-8\"><title>Admin login</title>")
		b.WriteString("<link rel=\"stylesheet\" href=\"/public/styles.css\"></head><body class=\"admin\">")
		b.WriteString("<form class=\"login\" method=\"post\" action=\"/admin/login/\">")
		b.WriteString("<input type=\"hidden\" name=\"_csrf\" value=\"" + html.EscapeString(csrfToken) + "\">")
		if showError {
			b.WriteString("<p class=\"error\">Wrong password.</p>")
		}
		b.WriteString("<label>Password <input type=\"password\" name=\"password\" autofocus></label>")
		b.WriteString("<button type=\"submit\">Sign in</button></form></body></html>")
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// defaultAdminHome is the dashboard shell; the editor itself is a static
// asset that talks to /admin/api/.
func defaultAdminHome(csrfToken string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<!DOCTYPE html><html lang=\"en\"><head><meta charset=\"utf-8\"><title>Admin</title>")
		b.WriteString("<meta name=\"csrf-token\" content=\"" + html.EscapeString(csrfToken) + "\">")
		b.WriteString("<link rel=\"stylesheet\" href=\"/public/styles.css\"></head><body class=\"admin\">")
		b.WriteString("<header class=\"admin-header\"><h1>Dashboard</h1>")
		b.WriteString("<form method=\"post\" action=\"/admin/logout/\"><input type=\"hidden\" name=\"_csrf\" value=\"" + html.EscapeString(csrfToken) + "\"><button type=\"submit\">Sign out</button></form></header>")
		b.WriteString("<div id=\"app\"></div><script src=\"/public/admin.js\"></script></body></html>")
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func defaultNotFound() templ.Component {
	return errorPage("404", "Page not found")
}

func defaultServerError() templ.Component {
	return errorPage("500", "Something went wrong")
}

func errorPage(code, msg string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<!DOCTYPE html><html lang=\"en\"><head><meta charset=\"utf-8\"><title>"+
			code+"</title></head><body><main class=\"error-page\"><h1>"+code+"</h1><p>"+
			html.EscapeString(msg)+"</p><p><a href=\"/\">Back to home</a></p></main></body></html>")
		return err
	})
}
