package handler

import (
	"context"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/tracker/api/transport"
	"github.com/fastygo/tracker/domain"
	"github.com/fastygo/tracker/pkg/httpcontext"
	categoryUC "github.com/fastygo/tracker/usecase/category"
	issueUC "github.com/fastygo/tracker/usecase/issue"
)

const (
	viewWaiting  = "waiting"
	viewApproved = "approved"
	viewMine     = "mine"
)

type IssueHandler struct {
	baseHandler
	uc         *issueUC.UseCase
	categories *categoryUC.UseCase
}

func NewIssueHandler(uc *issueUC.UseCase, categories *categoryUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *IssueHandler {
	return &IssueHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		categories:  categories,
	}
}

// @Summary List issues
// @Tags issues
// @Param view query string false "waiting | approved | mine"
// @Router /api/v1/issues [get]
func (h *IssueHandler) List(ctx *fasthttp.RequestCtx) {
	view := string(ctx.QueryArgs().Peek("view"))

	var load func(context.Context) ([]domain.Issue, error)
	switch view {
	case "":
		load = h.uc.GetIssues
	case viewApproved:
		load = h.uc.GetApprovedIssues
	case viewWaiting:
		if !isAdmin(ctx) {
			h.respondJSON(ctx, http.StatusForbidden, transport.NewError(string(domain.ErrCodeForbidden), "admin role required", nil))
			return
		}
		load = h.uc.GetIssuesWaitingForApproval
	case viewMine:
		actor, ok := h.actor(ctx)
		if !ok {
			return
		}
		load = func(ctx context.Context) ([]domain.Issue, error) {
			return h.uc.GetIssuesByUser(ctx, actor.ID)
		}
	default:
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "unknown view "+view, nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	issues, err := load(stdCtx)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, issues)
}

// @Summary Get issue
// @Tags issues
// @Router /api/v1/issues/{id} [get]
func (h *IssueHandler) Get(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	issue, err := h.uc.GetIssue(stdCtx, pathValue(ctx, "id"))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, issue)
}

// @Summary Create issue
// @Tags issues
// @Router /api/v1/issues [post]
func (h *IssueHandler) Create(ctx *fasthttp.RequestCtx) {
	actor, ok := h.actor(ctx)
	if !ok {
		return
	}
	var req transport.IssueRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.CreateIssue(stdCtx, &domain.Issue{
		Title:       req.Title,
		Description: req.Description,
		Category:    domain.CategoryRef{ID: req.CategoryID},
		Author:      actor,
	})
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Update issue
// @Tags issues
// @Router /api/v1/issues/{id} [put]
func (h *IssueHandler) Update(ctx *fasthttp.RequestCtx) {
	actor, ok := h.actor(ctx)
	if !ok {
		return
	}
	var req transport.IssueRequest
	if !h.decode(ctx, &req) || !h.requireVersion(ctx, req.Version) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	issue, err := h.uc.GetIssue(stdCtx, pathValue(ctx, "id"))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	if issue.Author.ID != actor.ID && !isAdmin(ctx) {
		h.respondError(ctx, stdCtx, domain.ErrForbidden)
		return
	}
	if req.CategoryID != issue.Category.ID {
		category, err := h.categories.GetCategory(stdCtx, req.CategoryID)
		if err != nil {
			h.respondError(ctx, stdCtx, err)
			return
		}
		issue.Category = category.Ref()
	}
	issue.Title = req.Title
	issue.Description = req.Description
	issue.Version = *req.Version

	updated, err := h.uc.UpdateIssue(stdCtx, issue)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Set issue status
// @Tags issues
// @Router /api/v1/issues/{id}/status [put]
func (h *IssueHandler) SetStatus(ctx *fasthttp.RequestCtx) {
	var req transport.IssueStatusRequest
	if !h.decode(ctx, &req) {
		return
	}
	h.transition(ctx, func(stdCtx context.Context, id string) (*domain.Issue, error) {
		return h.uc.SetStatus(stdCtx, id, req.StatusID)
	})
}

// @Summary Approve issue for release
// @Tags issues
// @Router /api/v1/issues/{id}/approve [post]
func (h *IssueHandler) Approve(ctx *fasthttp.RequestCtx) {
	h.transition(ctx, h.uc.Approve)
}

// @Summary Reject issue
// @Tags issues
// @Router /api/v1/issues/{id}/reject [post]
func (h *IssueHandler) Reject(ctx *fasthttp.RequestCtx) {
	h.transition(ctx, h.uc.Reject)
}

// @Summary Archive issue
// @Tags issues
// @Router /api/v1/issues/{id}/archive [post]
func (h *IssueHandler) Archive(ctx *fasthttp.RequestCtx) {
	actor, ok := h.actor(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	id := pathValue(ctx, "id")
	issue, err := h.uc.GetIssue(stdCtx, id)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	if issue.Author.ID != actor.ID && !isAdmin(ctx) {
		h.respondError(ctx, stdCtx, domain.ErrForbidden)
		return
	}
	if err := h.uc.ArchiveIssue(stdCtx, id, actor); err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]bool{"archived": true})
}

func (h *IssueHandler) transition(ctx *fasthttp.RequestCtx, apply func(context.Context, string) (*domain.Issue, error)) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := apply(stdCtx, pathValue(ctx, "id"))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}
