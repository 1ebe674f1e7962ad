package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/tracker/api/transport"
	"github.com/fastygo/tracker/domain"
	"github.com/fastygo/tracker/pkg/httpcontext"
	"github.com/fastygo/tracker/repository"
	articleUC "github.com/fastygo/tracker/usecase/article"
)

type ArticleHandler struct {
	baseHandler
	uc *articleUC.UseCase
}

func NewArticleHandler(uc *articleUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *ArticleHandler {
	return &ArticleHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List articles
// @Tags articles
// @Param published query bool false "published only"
// @Param author query string false "author id"
// @Param archived query bool false "include archived"
// @Router /api/v1/articles [get]
func (h *ArticleHandler) List(ctx *fasthttp.RequestCtx) {
	args := ctx.QueryArgs()
	filter := repository.ArticleFilter{
		PublishedOnly:   args.GetBool("published"),
		IncludeArchived: args.GetBool("archived"),
		AuthorID:        string(args.Peek("author")),
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	articles, err := h.uc.GetArticles(stdCtx, filter)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, articles)
}

// @Summary Get article by id, or by slug with ?by=slug
// @Tags articles
// @Router /api/v1/articles/{key} [get]
func (h *ArticleHandler) Get(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	key := pathValue(ctx, "key")
	var (
		article *domain.Article
		err     error
	)
	if string(ctx.QueryArgs().Peek("by")) == "slug" {
		article, err = h.uc.GetArticleBySlug(stdCtx, key)
	} else {
		article, err = h.uc.GetArticle(stdCtx, key)
	}
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, article)
}

// @Summary Create article
// @Tags articles
// @Router /api/v1/articles [post]
func (h *ArticleHandler) Create(ctx *fasthttp.RequestCtx) {
	actor, ok := h.actor(ctx)
	if !ok {
		return
	}
	var req transport.ArticleRequest
	if !h.decode(ctx, &req) {
		return
	}

	article := &domain.Article{Author: actor}
	applyArticle(article, req)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.CreateArticle(stdCtx, article)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Update article
// @Tags articles
// @Router /api/v1/articles/{key} [put]
func (h *ArticleHandler) Update(ctx *fasthttp.RequestCtx) {
	actor, ok := h.actor(ctx)
	if !ok {
		return
	}
	var req transport.ArticleRequest
	if !h.decode(ctx, &req) || !h.requireVersion(ctx, req.Version) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	article, err := h.uc.GetArticle(stdCtx, pathValue(ctx, "key"))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	if article.Author.ID != actor.ID && !isAdmin(ctx) {
		h.respondError(ctx, stdCtx, domain.ErrForbidden)
		return
	}
	applyArticle(article, req)
	article.Version = *req.Version

	updated, err := h.uc.UpdateArticle(stdCtx, article)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Archive article by slug
// @Tags articles
// @Router /api/v1/articles/{key}/archive [post]
func (h *ArticleHandler) Archive(ctx *fasthttp.RequestCtx) {
	actor, ok := h.actor(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	slug := pathValue(ctx, "key")
	article, err := h.uc.GetArticleBySlug(stdCtx, slug)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	if article.Author.ID != actor.ID && !isAdmin(ctx) {
		h.respondError(ctx, stdCtx, domain.ErrForbidden)
		return
	}
	if err := h.uc.ArchiveArticle(stdCtx, slug, actor); err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]bool{"archived": true})
}

func applyArticle(article *domain.Article, req transport.ArticleRequest) {
	article.Title = req.Title
	article.Introduction = req.Introduction
	article.Content = req.Content
	article.CoverImageURL = req.CoverImageURL
	article.IsPublished = req.IsPublished
	if req.CategoryID != "" {
		article.Category = &domain.CategoryRef{ID: req.CategoryID}
	} else {
		article.Category = nil
	}
}
