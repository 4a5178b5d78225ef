package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/content_api/internal/middleware"
)

type Deps struct {
	AuthHandler *AuthHTTP
	PostHandler *PostHTTP
	FileHandler *FileHTTP
	JWTSecret   []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	authMw := middleware.NewSimpleAuth(d.JWTSecret)

	auth := e.Group("/api/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/refresh", d.AuthHandler.Refresh)
	auth.POST("/logout", d.AuthHandler.Logout, authMw.RequireAuth)
	auth.GET("/user", d.AuthHandler.CurrentUser, authMw.RequireAuth)

	posts := e.Group("/api/posts", authMw.RequireAuth)
	posts.GET("", d.PostHandler.GetPosts)
	posts.POST("", d.PostHandler.CreatePost)
	posts.GET("/search", d.PostHandler.SearchPosts)
	posts.GET("/:slug", d.PostHandler.GetPost)
	posts.PATCH("/:slug", d.PostHandler.UpdatePost)
	posts.PUT("/:slug", d.PostHandler.UpdatePost)
	posts.DELETE("/:slug", d.PostHandler.DeletePost)

	files := e.Group("/api/files", authMw.RequireAuth)
	files.POST("/upload", d.FileHandler.Upload)
	files.GET("/:id/preview", d.FileHandler.Preview)
	files.DELETE("/:id", d.FileHandler.Delete)
}
