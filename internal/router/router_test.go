package router

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/fastygo/tracker/api/handler"
	"github.com/fastygo/tracker/internal/infrastructure/cache"
	"github.com/fastygo/tracker/internal/infrastructure/monitor"
	"github.com/fastygo/tracker/internal/middleware"
	"github.com/fastygo/tracker/pkg/httpcontext"
	"github.com/fastygo/tracker/repository/docstore/memstore"
	"github.com/fastygo/tracker/repository/document"
	"github.com/fastygo/tracker/usecase"
	articleUC "github.com/fastygo/tracker/usecase/article"
	categoryUC "github.com/fastygo/tracker/usecase/category"
	commentUC "github.com/fastygo/tracker/usecase/comment"
	issueUC "github.com/fastygo/tracker/usecase/issue"
	sampleUC "github.com/fastygo/tracker/usecase/sampledata"
	statusUC "github.com/fastygo/tracker/usecase/status"
	userUC "github.com/fastygo/tracker/usecase/user"
)

const (
	secret = "router-secret"
	issuer = "tracker"
)

type staticHealth struct{ status monitor.Status }

func (s staticHealth) GetStatus() monitor.Status { return s.status }

type envelope struct {
	Status string          `json:"status"`
	Code   string          `json:"code"`
	Data   json.RawMessage `json:"data"`
	Meta   json.RawMessage `json:"meta"`
}

type api struct {
	t       *testing.T
	handler fasthttp.RequestHandler
}

func newAPI(t *testing.T) *api {
	t.Helper()
	db := memstore.New()
	categories := document.NewCategoryRepository(db)
	statuses := document.NewStatusRepository(db)
	issues := document.NewIssueRepository(db)
	comments := document.NewCommentRepository(db)
	articles := document.NewArticleRepository(db)
	users := document.NewUserRepository(db)

	c := cache.NewMemory(time.Minute)
	policy := usecase.CachePolicy{Short: time.Minute, Long: time.Hour}
	adapter := httpcontext.NewAdapter(time.Second)

	categoryService := categoryUC.New(categories, c, policy, nil)
	handlers := Handlers{
		Health:   apiHandler.NewHealthHandler(staticHealth{monitor.Status{Store: true, StoreDriver: "memory"}}, adapter, nil),
		Category: apiHandler.NewCategoryHandler(categoryService, adapter, nil),
		Article:  apiHandler.NewArticleHandler(articleUC.New(articles, categories, c, policy, nil), adapter, nil),
		Issue:    apiHandler.NewIssueHandler(issueUC.New(issues, categories, statuses, nil, c, policy, nil), categoryService, adapter, nil),
		Comment:  apiHandler.NewCommentHandler(commentUC.New(comments, issues, nil, c, policy, nil), adapter, nil),
		Status:   apiHandler.NewStatusHandler(statusUC.New(statuses, c, policy, nil), adapter, nil),
		User:     apiHandler.NewUserHandler(userUC.New(users, nil), adapter, nil),
		Admin: apiHandler.NewAdminHandler(sampleUC.New(sampleUC.Repositories{
			Users: users, Categories: categories, Statuses: statuses, Issues: issues, Comments: comments,
		}, c, nil), adapter, nil),
	}
	auth, err := middleware.JWTAuth(secret, issuer, nil)
	require.NoError(t, err)
	return &api{t: t, handler: New(handlers, auth).Handler}
}

func token(t *testing.T, userID, role string) string {
	t.Helper()
	signed, err := middleware.SignToken(secret, middleware.Claims{
		UserID:           userID,
		Role:             role,
		Name:             userID,
		RegisteredClaims: jwt.RegisteredClaims{Issuer: issuer},
	})
	require.NoError(t, err)
	return signed
}

func (a *api) do(method, path, bearer string, body any) (int, envelope) {
	a.t.Helper()
	var rc fasthttp.RequestCtx
	rc.Request.Header.SetMethod(method)
	rc.Request.SetRequestURI(path)
	if bearer != "" {
		rc.Request.Header.Set("Authorization", "Bearer "+bearer)
	}
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(a.t, err)
		rc.Request.SetBody(payload)
	}
	a.handler(&rc)

	var env envelope
	require.NoError(a.t, json.Unmarshal(rc.Response.Body(), &env), string(rc.Response.Body()))
	return rc.Response.StatusCode(), env
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

type docView struct {
	ID         string   `json:"id"`
	Slug       string   `json:"slug"`
	Version    int      `json:"version"`
	Title      string   `json:"title"`
	UserVotes  []string `json:"userVotes"`
	IsApproved bool     `json:"approvedForRelease"`
}

func TestIssueLifecycleOverHTTP(t *testing.T) {
	a := newAPI(t)
	admin := token(t, "admin-1", "admin")
	author := token(t, "author-1", "author")

	status, _ := a.do(fasthttp.MethodPost, "/api/v1/categories", author, map[string]string{"categoryName": "Design"})
	assert.Equal(t, fasthttp.StatusForbidden, status)

	status, env := a.do(fasthttp.MethodPost, "/api/v1/categories", admin, map[string]string{"categoryName": "Design"})
	require.Equal(t, fasthttp.StatusCreated, status)
	category := decodeData[docView](t, env)

	status, env = a.do(fasthttp.MethodGet, "/api/v1/categories/"+category.Slug+"?by=slug", "", nil)
	require.Equal(t, fasthttp.StatusOK, status)
	assert.Equal(t, category.ID, decodeData[docView](t, env).ID)

	status, env = a.do(fasthttp.MethodPost, "/api/v1/issues", author, map[string]string{"title": "Broken"})
	assert.Equal(t, fasthttp.StatusBadRequest, status)
	assert.Equal(t, "INVALID", env.Code)

	status, env = a.do(fasthttp.MethodPost, "/api/v1/issues", author, map[string]string{"title": "Broken", "categoryId": category.ID})
	require.Equal(t, fasthttp.StatusCreated, status)
	issue := decodeData[docView](t, env)
	assert.Equal(t, 0, issue.Version)

	update := map[string]any{"title": "Broken build", "categoryId": category.ID, "version": 0}
	status, env = a.do(fasthttp.MethodPut, "/api/v1/issues/"+issue.ID, author, update)
	require.Equal(t, fasthttp.StatusOK, status)
	assert.Equal(t, 1, decodeData[docView](t, env).Version)

	stale := map[string]any{"title": "Broken tests", "categoryId": category.ID, "version": 0}
	status, env = a.do(fasthttp.MethodPut, "/api/v1/issues/"+issue.ID, author, stale)
	require.Equal(t, fasthttp.StatusConflict, status)
	assert.Equal(t, "CONCURRENCY", env.Code)
	var info struct {
		ActualVersion int      `json:"actualVersion"`
		ChangedFields []string `json:"changedFields"`
	}
	require.NoError(t, json.Unmarshal(env.Meta, &info))
	assert.Equal(t, 1, info.ActualVersion)
	assert.Contains(t, info.ChangedFields, "Title")

	status, _ = a.do(fasthttp.MethodPut, "/api/v1/issues/"+issue.ID, author, map[string]any{"title": "x", "categoryId": category.ID})
	assert.Equal(t, fasthttp.StatusBadRequest, status, "updates must carry a version")

	status, _ = a.do(fasthttp.MethodPost, "/api/v1/issues/"+issue.ID+"/approve", author, nil)
	assert.Equal(t, fasthttp.StatusForbidden, status)

	status, env = a.do(fasthttp.MethodGet, "/api/v1/issues?view=waiting", admin, nil)
	require.Equal(t, fasthttp.StatusOK, status)
	assert.Len(t, decodeData[[]docView](t, env), 1)

	status, env = a.do(fasthttp.MethodPost, "/api/v1/issues/"+issue.ID+"/approve", admin, nil)
	require.Equal(t, fasthttp.StatusOK, status)
	approved := decodeData[docView](t, env)
	assert.True(t, approved.IsApproved)
	assert.Equal(t, 2, approved.Version)

	status, env = a.do(fasthttp.MethodGet, "/api/v1/issues?view=approved", author, nil)
	require.Equal(t, fasthttp.StatusOK, status)
	assert.Len(t, decodeData[[]docView](t, env), 1)

	status, env = a.do(fasthttp.MethodGet, "/api/v1/issues?view=mine", author, nil)
	require.Equal(t, fasthttp.StatusOK, status)
	assert.Len(t, decodeData[[]docView](t, env), 1)

	status, _ = a.do(fasthttp.MethodGet, "/api/v1/issues?view=waiting", author, nil)
	assert.Equal(t, fasthttp.StatusForbidden, status)

	status, env = a.do(fasthttp.MethodPost, "/api/v1/comments", admin, map[string]string{"issueId": issue.ID, "title": "Looking into it"})
	require.Equal(t, fasthttp.StatusCreated, status)
	comment := decodeData[docView](t, env)

	status, env = a.do(fasthttp.MethodPost, "/api/v1/comments/"+comment.ID+"/vote", author, nil)
	require.Equal(t, fasthttp.StatusOK, status)
	assert.Equal(t, []string{"author-1"}, decodeData[docView](t, env).UserVotes)

	status, _ = a.do(fasthttp.MethodPost, "/api/v1/comments/"+comment.ID+"/vote", admin, nil)
	assert.Equal(t, fasthttp.StatusForbidden, status)

	status, env = a.do(fasthttp.MethodGet, "/api/v1/issues/"+issue.ID+"/comments", "", nil)
	require.Equal(t, fasthttp.StatusOK, status)
	assert.Len(t, decodeData[[]docView](t, env), 1)

	status, _ = a.do(fasthttp.MethodGet, "/api/v1/issues/missing", "", nil)
	assert.Equal(t, fasthttp.StatusNotFound, status)
}

func TestIdentityHeadersAreNotTrusted(t *testing.T) {
	a := newAPI(t)

	var rc fasthttp.RequestCtx
	rc.Request.Header.SetMethod(fasthttp.MethodGet)
	rc.Request.SetRequestURI("/api/v1/issues?view=waiting")
	rc.Request.Header.Set(httpcontext.HeaderUserID, "intruder")
	rc.Request.Header.Set(httpcontext.HeaderUserRole, "admin")
	a.handler(&rc)
	assert.Equal(t, fasthttp.StatusUnauthorized, rc.Response.StatusCode())
}

func TestArticlesAndUsers(t *testing.T) {
	a := newAPI(t)
	admin := token(t, "admin-1", "admin")
	author := token(t, "author-1", "author")
	other := token(t, "author-2", "author")

	status, env := a.do(fasthttp.MethodPost, "/api/v1/articles", author, map[string]any{"title": "Hello World", "isPublished": true})
	require.Equal(t, fasthttp.StatusCreated, status)
	article := decodeData[docView](t, env)
	assert.Equal(t, "hello_world", article.Slug)

	status, _ = a.do(fasthttp.MethodPut, "/api/v1/articles/"+article.ID, other, map[string]any{"title": "Mine now", "version": 0})
	assert.Equal(t, fasthttp.StatusForbidden, status)

	status, env = a.do(fasthttp.MethodGet, "/api/v1/articles?published=true", "", nil)
	require.Equal(t, fasthttp.StatusOK, status)
	assert.Len(t, decodeData[[]docView](t, env), 1)

	status, _ = a.do(fasthttp.MethodPost, "/api/v1/articles/hello_world/archive", author, nil)
	require.Equal(t, fasthttp.StatusOK, status)

	status, env = a.do(fasthttp.MethodGet, "/api/v1/articles", "", nil)
	require.Equal(t, fasthttp.StatusOK, status)
	assert.Empty(t, decodeData[[]docView](t, env))

	status, env = a.do(fasthttp.MethodPost, "/api/v1/articles", other, map[string]any{"title": "Hello, World"})
	require.Equal(t, fasthttp.StatusCreated, status)
	second := decodeData[docView](t, env)
	assert.NotEqual(t, "hello_world", second.Slug, "archived slugs are not reused")

	status, _ = a.do(fasthttp.MethodPost, "/api/v1/articles/"+second.Slug+"/archive", other, nil)
	require.Equal(t, fasthttp.StatusOK, status)

	status, _ = a.do(fasthttp.MethodGet, "/api/v1/me", author, nil)
	assert.Equal(t, fasthttp.StatusNotFound, status)

	status, env = a.do(fasthttp.MethodPost, "/api/v1/users", author, map[string]string{
		"displayName": "bob", "emailAddress": "bob@example.com", "role": "admin",
	})
	require.Equal(t, fasthttp.StatusCreated, status)
	var created struct {
		ID   string `json:"id"`
		Role string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "author", created.Role, "self registration cannot grant admin")

	status, _ = a.do(fasthttp.MethodGet, "/api/v1/me", author, nil)
	assert.Equal(t, fasthttp.StatusOK, status)

	status, _ = a.do(fasthttp.MethodGet, "/api/v1/users/"+created.ID, other, nil)
	assert.Equal(t, fasthttp.StatusForbidden, status)

	status, _ = a.do(fasthttp.MethodGet, "/api/v1/users", author, nil)
	assert.Equal(t, fasthttp.StatusForbidden, status)

	status, env = a.do(fasthttp.MethodGet, "/api/v1/users", admin, nil)
	require.Equal(t, fasthttp.StatusOK, status)
	assert.Len(t, decodeData[[]docView](t, env), 1)

	status, _ = a.do(fasthttp.MethodGet, "/api/v1/users/"+created.ID, admin, nil)
	assert.Equal(t, fasthttp.StatusOK, status)

	status, env = a.do(fasthttp.MethodPost, "/api/v1/users", author, map[string]string{"displayName": "bob", "emailAddress": "nope"})
	assert.Equal(t, fasthttp.StatusBadRequest, status)
	assert.Contains(t, string(env.Meta), "validation_email")
}

func TestSampleDataAndHealth(t *testing.T) {
	a := newAPI(t)

	status, env := a.do(fasthttp.MethodPost, "/api/v1/admin/sample-data", token(t, "admin-1", "admin"), nil)
	require.Equal(t, fasthttp.StatusOK, status)
	var report struct {
		Categories int `json:"categories"`
		Statuses   int `json:"statuses"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.Equal(t, 5, report.Categories)
	assert.Equal(t, 4, report.Statuses)

	status, env = a.do(fasthttp.MethodGet, "/api/v1/statuses", "", nil)
	require.Equal(t, fasthttp.StatusOK, status)
	assert.Len(t, decodeData[[]docView](t, env), 4)

	status, env = a.do(fasthttp.MethodGet, "/health", "", nil)
	assert.Equal(t, fasthttp.StatusOK, status)
	assert.Equal(t, "success", env.Status)
}
