package httpserver

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/content_api/internal/logging"
	"github.com/Skotchmaster/content_api/internal/middleware"
	"github.com/Skotchmaster/content_api/internal/service"
	"github.com/Skotchmaster/content_api/internal/transport"
	"github.com/Skotchmaster/content_api/internal/util"
)

type PostHTTP struct {
	Svc      *service.PostService
	Validate *validator.Validate
}

func (h *PostHTTP) GetPosts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "post.get_posts")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, items, err := h.Svc.List(ctx, c.QueryParam("status"), offset, limit)
	if err != nil {
		l.Warn("get_posts_failed", "error", err)
		return httpError(err, "cannot list posts")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": map[string]any{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	})
}

func (h *PostHTTP) GetPost(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "post.get_post")

	post, err := h.Svc.Get(ctx, c.Param("slug"))
	if err != nil {
		l.Warn("get_post_failed", "slug", c.Param("slug"), "error", err)
		return httpError(err, "cannot get post")
	}

	return c.JSON(http.StatusOK, post)
}

func (h *PostHTTP) CreatePost(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "post.create_post")

	var req transport.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("post_create_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := h.Validate.Struct(req); err != nil {
		l.Warn("post_create_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{
			"error":  "validation failed",
			"fields": transport.ValidationDetail(err),
		})
	}

	post, err := h.Svc.Create(ctx, middleware.CallerID(c), req)
	if err != nil {
		return httpError(err, "cannot create post")
	}

	return c.JSON(http.StatusCreated, post)
}

func (h *PostHTTP) UpdatePost(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "post.update_post")

	var req transport.UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("post_update_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := h.Validate.Struct(req); err != nil {
		l.Warn("post_update_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{
			"error":  "validation failed",
			"fields": transport.ValidationDetail(err),
		})
	}

	post, err := h.Svc.Update(ctx, middleware.CallerID(c), c.Param("slug"), req)
	if err != nil {
		return httpError(err, "cannot update post")
	}

	return c.JSON(http.StatusOK, post)
}

func (h *PostHTTP) DeletePost(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.Svc.Delete(ctx, middleware.CallerID(c), c.Param("slug")); err != nil {
		return httpError(err, "cannot delete post")
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *PostHTTP) SearchPosts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "post.search_posts")

	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "q is required")
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	docs, total, err := h.Svc.SearchPosts(ctx, q, offset, limit)
	if err != nil {
		l.Error("search_posts_failed", "error", err)
		return httpError(err, "search failed")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": docs,
		"meta": map[string]any{
			"page":  page,
			"size":  limit,
			"total": total,
		},
	})
}
