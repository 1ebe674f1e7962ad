package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/tracker/api/transport"
	"github.com/fastygo/tracker/domain"
	"github.com/fastygo/tracker/pkg/httpcontext"
	categoryUC "github.com/fastygo/tracker/usecase/category"
)

type CategoryHandler struct {
	baseHandler
	uc *categoryUC.UseCase
}

func NewCategoryHandler(uc *categoryUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List categories
// @Tags categories
// @Router /api/v1/categories [get]
func (h *CategoryHandler) List(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	categories, err := h.uc.GetCategories(stdCtx)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, categories)
}

// @Summary Get category by id, or by slug with ?by=slug
// @Tags categories
// @Router /api/v1/categories/{key} [get]
func (h *CategoryHandler) Get(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	key := pathValue(ctx, "key")
	var (
		category *domain.Category
		err      error
	)
	if string(ctx.QueryArgs().Peek("by")) == "slug" {
		category, err = h.uc.GetCategoryBySlug(stdCtx, key)
	} else {
		category, err = h.uc.GetCategory(stdCtx, key)
	}
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, category)
}

// @Summary Create category
// @Tags categories
// @Router /api/v1/categories [post]
func (h *CategoryHandler) Create(ctx *fasthttp.RequestCtx) {
	var req transport.CategoryRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.CreateCategory(stdCtx, &domain.Category{
		CategoryName:        req.CategoryName,
		CategoryDescription: req.CategoryDescription,
	})
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Update category
// @Tags categories
// @Router /api/v1/categories/{key} [put]
func (h *CategoryHandler) Update(ctx *fasthttp.RequestCtx) {
	var req transport.CategoryRequest
	if !h.decode(ctx, &req) || !h.requireVersion(ctx, req.Version) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	category, err := h.uc.GetCategory(stdCtx, pathValue(ctx, "key"))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	category.CategoryName = req.CategoryName
	category.CategoryDescription = req.CategoryDescription
	category.Version = *req.Version

	updated, err := h.uc.UpdateCategory(stdCtx, category)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Archive category by slug
// @Tags categories
// @Router /api/v1/categories/{key}/archive [post]
func (h *CategoryHandler) Archive(ctx *fasthttp.RequestCtx) {
	actor, ok := h.actor(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.ArchiveCategory(stdCtx, pathValue(ctx, "key"), actor); err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]bool{"archived": true})
}
