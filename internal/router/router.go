package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/fastygo/tracker/api/handler"
	"github.com/fastygo/tracker/internal/middleware"
)

type Handlers struct {
	Health   *apiHandler.HealthHandler
	Category *apiHandler.CategoryHandler
	Article  *apiHandler.ArticleHandler
	Issue    *apiHandler.IssueHandler
	Comment  *apiHandler.CommentHandler
	Status   *apiHandler.StatusHandler
	User     *apiHandler.UserHandler
	Admin    *apiHandler.AdminHandler
}

type Middleware = func(fasthttp.RequestHandler) fasthttp.RequestHandler

// New registers the API. Reads are public, writes need a token and
// moderation routes additionally need the admin role.
func New(handlers Handlers, auth Middleware) *router.Router {
	r := router.New()

	public := func(h fasthttp.RequestHandler) fasthttp.RequestHandler {
		return middleware.Anonymous(h)
	}
	user := func(h fasthttp.RequestHandler) fasthttp.RequestHandler {
		return auth(h)
	}
	admin := func(h fasthttp.RequestHandler) fasthttp.RequestHandler {
		return middleware.Chain(h, auth, middleware.RequireRole("admin"))
	}

	r.GET("/health", handlers.Health.Check)

	v1 := r.Group("/api/v1")

	v1.GET("/categories", public(handlers.Category.List))
	v1.POST("/categories", admin(handlers.Category.Create))
	v1.GET("/categories/{key}", public(handlers.Category.Get))
	v1.PUT("/categories/{key}", admin(handlers.Category.Update))
	v1.POST("/categories/{key}/archive", admin(handlers.Category.Archive))

	v1.GET("/articles", public(handlers.Article.List))
	v1.POST("/articles", user(handlers.Article.Create))
	v1.GET("/articles/{key}", public(handlers.Article.Get))
	v1.PUT("/articles/{key}", user(handlers.Article.Update))
	v1.POST("/articles/{key}/archive", user(handlers.Article.Archive))

	v1.GET("/issues", user(handlers.Issue.List))
	v1.POST("/issues", user(handlers.Issue.Create))
	v1.GET("/issues/{id}", public(handlers.Issue.Get))
	v1.PUT("/issues/{id}", user(handlers.Issue.Update))
	v1.PUT("/issues/{id}/status", admin(handlers.Issue.SetStatus))
	v1.POST("/issues/{id}/approve", admin(handlers.Issue.Approve))
	v1.POST("/issues/{id}/reject", admin(handlers.Issue.Reject))
	v1.POST("/issues/{id}/archive", user(handlers.Issue.Archive))
	v1.GET("/issues/{id}/comments", public(handlers.Comment.ListByIssue))

	v1.GET("/comments", public(handlers.Comment.List))
	v1.POST("/comments", user(handlers.Comment.Create))
	v1.GET("/comments/{id}", public(handlers.Comment.Get))
	v1.PUT("/comments/{id}", user(handlers.Comment.Update))
	v1.POST("/comments/{id}/vote", user(handlers.Comment.Vote))
	v1.POST("/comments/{id}/archive", user(handlers.Comment.Archive))

	v1.GET("/statuses", public(handlers.Status.List))
	v1.POST("/statuses", admin(handlers.Status.Create))
	v1.GET("/statuses/{id}", public(handlers.Status.Get))
	v1.PUT("/statuses/{id}", admin(handlers.Status.Update))
	v1.POST("/statuses/{id}/archive", admin(handlers.Status.Archive))

	v1.GET("/me", user(handlers.User.Me))
	v1.GET("/users", admin(handlers.User.List))
	v1.POST("/users", user(handlers.User.Create))
	v1.GET("/users/{id}", user(handlers.User.Get))
	v1.PUT("/users/{id}", user(handlers.User.Update))
	v1.POST("/users/{id}/archive", admin(handlers.User.Archive))

	v1.POST("/admin/sample-data", admin(handlers.Admin.SeedSampleData))

	return r
}
