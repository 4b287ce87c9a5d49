package sharevault

import (
	"crypto/subtle"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sharevault/sharevault/content"
	"github.com/sharevault/sharevault/slug"
)

func (a *App) handleAdmin(c echo.Context) error {
	if !IsAdmin(c) {
		return RenderPrivate(c, a.Views.AdminLogin(false, CsrfToken(c)))
	}
	return RenderPrivate(c, a.Views.AdminHome(CsrfToken(c)))
}

func (a *App) handleAdminLogin(c echo.Context) error {
	if !a.loginLimiter.Check(c.RealIP()) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) == 1 {
		if err := setAdminSession(c); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	a.loginLimiter.Record(c.RealIP())
	return RenderPrivate(c, a.Views.AdminLogin(true, CsrfToken(c)))
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func jsonError(c echo.Context, code int, msg string) error {
	return c.JSON(code, map[string]string{"error": msg})
}

// postRequest is the JSON body for creating and updating posts. Pointer
// fields distinguish "absent" from "set to zero" on updates.
type postRequest struct {
	Title      *string   `json:"title"`
	Slug       *string   `json:"slug"`
	Content    *string   `json:"content"`
	Excerpt    *string   `json:"excerpt"`
	ImageURL   *string   `json:"imageUrl"`
	Category   *string   `json:"category"`
	Tags       *[]string `json:"tags"`
	AuthorID   *string   `json:"authorId"`
	AuthorName *string   `json:"authorName"`
	Featured   *bool     `json:"featured"`
	Published  *bool     `json:"published"`
}

// resolveSlug runs the slug pipeline: take the requested slug or derive one
// from the title, sanitize it, validate it, then run the advisory uniqueness
// check. Returns the final slug or a client-facing error message.
func (a *App) resolveSlug(requested, title string, excludeID int64) (string, string) {
	s := strings.TrimSpace(requested)
	if s == "" {
		s = slug.Generate(title)
	} else {
		s = slug.Sanitize(s)
	}
	if ok, msg := slug.Validate(s); !ok {
		return "", msg
	}
	if !a.Store.IsSlugUnique(s, excludeID) {
		return "", "This slug is already taken"
	}
	return s, ""
}

func (a *App) handleAPIListPosts(c echo.Context) error {
	limit := 200
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	var (
		posts []Post
		err   error
	)
	switch c.QueryParam("status") {
	case "draft":
		posts, err = a.Store.GetDraftPosts(limit)
	case "published":
		posts, err = a.Store.GetPosts(limit)
	default:
		posts, err = a.Store.GetAllPosts(limit)
	}
	if err != nil {
		return err
	}
	if posts == nil {
		posts = []Post{}
	}
	return c.JSON(http.StatusOK, posts)
}

func (a *App) handleAPIGetPost(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid post id")
	}
	post, err := a.Store.GetPostByID(id)
	if err != nil {
		return err
	}
	if post == nil {
		return jsonError(c, http.StatusNotFound, "post not found")
	}
	return c.JSON(http.StatusOK, post)
}

// buildPost assembles a Post from a create request, running the slug
// pipeline and stamping the read time. On rejection it returns a
// client-facing message and the status code to report.
func (a *App) buildPost(req postRequest) (Post, int, string) {
	if req.Title == nil || strings.TrimSpace(*req.Title) == "" {
		return Post{}, http.StatusBadRequest, "Title is required"
	}

	requested := ""
	if req.Slug != nil {
		requested = *req.Slug
	}
	finalSlug, msg := a.resolveSlug(requested, *req.Title, 0)
	if msg != "" {
		code := http.StatusBadRequest
		if msg == "This slug is already taken" {
			code = http.StatusConflict
		}
		return Post{}, code, msg
	}

	p := Post{
		Title: strings.TrimSpace(*req.Title),
		Slug:  finalSlug,
	}
	if req.Content != nil {
		p.Content = *req.Content
	}
	if req.Excerpt != nil {
		p.Excerpt = *req.Excerpt
	}
	if req.ImageURL != nil {
		p.ImageURL = *req.ImageURL
	}
	if req.Category != nil {
		p.Category = strings.TrimSpace(*req.Category)
	}
	if req.Tags != nil {
		p.Tags = FilterEmpty(*req.Tags)
	}
	if req.AuthorID != nil {
		p.AuthorID = *req.AuthorID
	}
	if req.AuthorName != nil {
		p.AuthorName = *req.AuthorName
	}
	if req.Featured != nil {
		p.Featured = *req.Featured
	}
	if req.Published != nil {
		p.Published = *req.Published
	}
	p.ReadTime = content.ReadTime(p.Content)
	return p, 0, ""
}

func (a *App) handleAPICreatePost(c echo.Context) error {
	var req postRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid request body")
	}
	p, code, msg := a.buildPost(req)
	if msg != "" {
		return jsonError(c, code, msg)
	}

	id, err := a.Store.CreatePost(p)
	if err == ErrSlugTaken {
		return jsonError(c, http.StatusConflict, "This slug is already taken")
	}
	if err != nil {
		return err
	}
	a.Cache.Invalidate()

	created, err := a.Store.GetPostByID(id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// bulkCreateResult reports the outcome for one item of a bulk upload.
type bulkCreateResult struct {
	Index int    `json:"index"`
	ID    int64  `json:"id,omitempty"`
	Slug  string `json:"slug,omitempty"`
	Error string `json:"error,omitempty"`
}

// handleAPIBulkCreatePosts imports a JSON array of posts. Each item runs the
// same slug pipeline as a single create; a rejected item does not stop the
// rest, and the response carries a per-item result in input order.
func (a *App) handleAPIBulkCreatePosts(c echo.Context) error {
	var reqs []postRequest
	if err := c.Bind(&reqs); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid request body")
	}
	if len(reqs) == 0 {
		return jsonError(c, http.StatusBadRequest, "no posts provided")
	}

	results := make([]bulkCreateResult, 0, len(reqs))
	created := 0
	for i, req := range reqs {
		p, _, msg := a.buildPost(req)
		if msg != "" {
			results = append(results, bulkCreateResult{Index: i, Error: msg})
			continue
		}
		id, err := a.Store.CreatePost(p)
		if err == ErrSlugTaken {
			// Two items in the same batch can pass the advisory check with
			// the same slug; the unique index rejects the later one here.
			results = append(results, bulkCreateResult{Index: i, Error: "This slug is already taken"})
			continue
		}
		if err != nil {
			return err
		}
		created++
		results = append(results, bulkCreateResult{Index: i, ID: id, Slug: p.Slug})
	}
	if created > 0 {
		a.Cache.Invalidate()
	}
	return c.JSON(http.StatusCreated, map[string]any{
		"created": created,
		"results": results,
	})
}

func (a *App) handleAPIUpdatePost(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid post id")
	}
	existing, err := a.Store.GetPostByID(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return jsonError(c, http.StatusNotFound, "post not found")
	}

	var req postRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid request body")
	}

	u := PostUpdate{
		Title:      req.Title,
		Content:    req.Content,
		Excerpt:    req.Excerpt,
		ImageURL:   req.ImageURL,
		Category:   req.Category,
		Tags:       req.Tags,
		AuthorID:   req.AuthorID,
		AuthorName: req.AuthorName,
		Featured:   req.Featured,
		Published:  req.Published,
	}
	if req.Slug != nil {
		title := existing.Title
		if req.Title != nil {
			title = *req.Title
		}
		finalSlug, msg := a.resolveSlug(*req.Slug, title, id)
		if msg != "" {
			if msg == "This slug is already taken" {
				return jsonError(c, http.StatusConflict, msg)
			}
			return jsonError(c, http.StatusBadRequest, msg)
		}
		u.Slug = &finalSlug
	}
	if req.Content != nil {
		rt := content.ReadTime(*req.Content)
		u.ReadTime = &rt
	}

	if err := a.Store.UpdatePost(id, u); err != nil {
		if err == ErrSlugTaken {
			return jsonError(c, http.StatusConflict, "This slug is already taken")
		}
		return err
	}
	a.Cache.Invalidate()

	updated, err := a.Store.GetPostByID(id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

func (a *App) handleAPIDeletePost(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid post id")
	}
	if err := a.Store.DeletePost(id); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return c.NoContent(http.StatusNoContent)
}

func (a *App) handleAPIBulkDeletePosts(c echo.Context) error {
	var req struct {
		IDs []int64 `json:"ids"`
	}
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid request body")
	}
	if err := a.Store.BulkDeletePosts(req.IDs); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return c.JSON(http.StatusOK, map[string]int{"deleted": len(req.IDs)})
}

func (a *App) handleAPIPublishPost(c echo.Context) error {
	return a.togglePublish(c, true)
}

func (a *App) handleAPIUnpublishPost(c echo.Context) error {
	return a.togglePublish(c, false)
}

func (a *App) togglePublish(c echo.Context, published bool) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid post id")
	}
	post, err := a.Store.GetPostByID(id)
	if err != nil {
		return err
	}
	if post == nil {
		return jsonError(c, http.StatusNotFound, "post not found")
	}
	if published {
		err = a.Store.PublishPost(id)
	} else {
		err = a.Store.UnpublishPost(id)
	}
	if err != nil {
		return err
	}
	a.Cache.Invalidate()

	updated, err := a.Store.GetPostByID(id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// handleAPISlugCheck lets the editor validate a slug as the author types.
func (a *App) handleAPISlugCheck(c echo.Context) error {
	s := slug.Sanitize(c.QueryParam("slug"))
	var excludeID int64
	if v := c.QueryParam("exclude"); v != "" {
		excludeID, _ = strconv.ParseInt(v, 10, 64)
	}
	if ok, msg := slug.Validate(s); !ok {
		return c.JSON(http.StatusOK, map[string]any{"slug": s, "valid": false, "message": msg})
	}
	if !a.Store.IsSlugUnique(s, excludeID) {
		return c.JSON(http.StatusOK, map[string]any{"slug": s, "valid": false, "message": "This slug is already taken"})
	}
	return c.JSON(http.StatusOK, map[string]any{"slug": s, "valid": true})
}

func (a *App) handleAPIListMedia(c echo.Context) error {
	files, err := a.Media.List()
	if err != nil {
		return err
	}
	if files == nil {
		files = []MediaFile{}
	}
	return c.JSON(http.StatusOK, files)
}

// handleAPIUploadMedia accepts one or more files in the "files" multipart
// field and stores each under the current uploader's prefix.
func (a *App) handleAPIUploadMedia(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "multipart form required")
	}
	files := form.File["files"]
	if len(files) == 0 {
		return jsonError(c, http.StatusBadRequest, "no files provided")
	}
	uploadedBy := c.FormValue("uploadedBy")
	if uploadedBy == "" {
		uploadedBy = "admin"
	}

	var saved []MediaFile
	for _, fh := range files {
		if fh.Size > maxUploadSize {
			return jsonError(c, http.StatusBadRequest, fh.Filename+" is too large (max 10MB)")
		}
		src, err := fh.Open()
		if err != nil {
			return err
		}
		file, err := a.Media.Save(src, fh.Filename, fh.Header.Get("Content-Type"), uploadedBy)
		src.Close()
		if err != nil {
			return jsonError(c, http.StatusBadRequest, "could not store "+fh.Filename+": "+err.Error())
		}
		saved = append(saved, file)
	}
	return c.JSON(http.StatusCreated, saved)
}

func (a *App) handleAPIDeleteMedia(c echo.Context) error {
	key := c.Param("*")
	if key == "" {
		return jsonError(c, http.StatusBadRequest, "media key required")
	}
	if err := a.Media.Delete(key); err != nil {
		return jsonError(c, http.StatusBadRequest, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// handleAPICreatePreview stores unsaved editor content under a short-lived
// token and returns the public preview URL.
func (a *App) handleAPICreatePreview(c echo.Context) error {
	var req postRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid request body")
	}
	p := Post{Title: "Untitled"}
	if req.Title != nil && strings.TrimSpace(*req.Title) != "" {
		p.Title = *req.Title
	}
	if req.Content != nil {
		p.Content = *req.Content
	}
	if req.Excerpt != nil {
		p.Excerpt = *req.Excerpt
	}
	if req.ImageURL != nil {
		p.ImageURL = *req.ImageURL
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if req.Tags != nil {
		p.Tags = FilterEmpty(*req.Tags)
	}
	if req.AuthorName != nil {
		p.AuthorName = *req.AuthorName
	}
	p.ReadTime = content.ReadTime(p.Content)

	token := a.Previews.Put(p)
	return c.JSON(http.StatusCreated, map[string]string{
		"token": token,
		"url":   strings.TrimSuffix(a.Config.URL, "/") + "/preview/" + token + "/",
	})
}
