package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/tracker/api/transport"
	"github.com/fastygo/tracker/domain"
	"github.com/fastygo/tracker/pkg/httpcontext"
	commentUC "github.com/fastygo/tracker/usecase/comment"
)

type CommentHandler struct {
	baseHandler
	uc *commentUC.UseCase
}

func NewCommentHandler(uc *commentUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *CommentHandler {
	return &CommentHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List comments
// @Tags comments
// @Param author query string false "author id"
// @Router /api/v1/comments [get]
func (h *CommentHandler) List(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	var (
		comments []domain.Comment
		err      error
	)
	if author := string(ctx.QueryArgs().Peek("author")); author != "" {
		comments, err = h.uc.GetCommentsByUser(stdCtx, author)
	} else {
		comments, err = h.uc.GetComments(stdCtx)
	}
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, comments)
}

// @Summary List comments on an issue
// @Tags comments
// @Router /api/v1/issues/{id}/comments [get]
func (h *CommentHandler) ListByIssue(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	comments, err := h.uc.GetCommentsByIssue(stdCtx, pathValue(ctx, "id"))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, comments)
}

// @Summary Get comment
// @Tags comments
// @Router /api/v1/comments/{id} [get]
func (h *CommentHandler) Get(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	comment, err := h.uc.GetComment(stdCtx, pathValue(ctx, "id"))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, comment)
}

// @Summary Create comment
// @Tags comments
// @Router /api/v1/comments [post]
func (h *CommentHandler) Create(ctx *fasthttp.RequestCtx) {
	actor, ok := h.actor(ctx)
	if !ok {
		return
	}
	var req transport.CommentRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.CreateComment(stdCtx, &domain.Comment{
		Title:       req.Title,
		Description: req.Description,
		Issue:       domain.IssueRef{ID: req.IssueID},
		Author:      actor,
	})
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Update comment
// @Tags comments
// @Router /api/v1/comments/{id} [put]
func (h *CommentHandler) Update(ctx *fasthttp.RequestCtx) {
	actor, ok := h.actor(ctx)
	if !ok {
		return
	}
	var req transport.CommentRequest
	if !h.decode(ctx, &req) || !h.requireVersion(ctx, req.Version) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	comment, err := h.uc.GetComment(stdCtx, pathValue(ctx, "id"))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	if comment.Author.ID != actor.ID && !isAdmin(ctx) {
		h.respondError(ctx, stdCtx, domain.ErrForbidden)
		return
	}
	comment.Title = req.Title
	comment.Description = req.Description
	if req.IsAnswer && !comment.IsAnswer {
		comment.AnswerSelectedBy = &actor
	} else if !req.IsAnswer {
		comment.AnswerSelectedBy = nil
	}
	comment.IsAnswer = req.IsAnswer
	comment.Version = *req.Version

	updated, err := h.uc.UpdateComment(stdCtx, comment)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Toggle the caller's up-vote
// @Tags comments
// @Router /api/v1/comments/{id}/vote [post]
func (h *CommentHandler) Vote(ctx *fasthttp.RequestCtx) {
	actor, ok := h.actor(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.UpVoteComment(stdCtx, pathValue(ctx, "id"), actor.ID)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Archive comment
// @Tags comments
// @Router /api/v1/comments/{id}/archive [post]
func (h *CommentHandler) Archive(ctx *fasthttp.RequestCtx) {
	actor, ok := h.actor(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	id := pathValue(ctx, "id")
	comment, err := h.uc.GetComment(stdCtx, id)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	if comment.Author.ID != actor.ID && !isAdmin(ctx) {
		h.respondError(ctx, stdCtx, domain.ErrForbidden)
		return
	}
	if err := h.uc.ArchiveComment(stdCtx, id, actor); err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]bool{"archived": true})
}
