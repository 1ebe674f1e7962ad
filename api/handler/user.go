package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/tracker/api/transport"
	"github.com/fastygo/tracker/domain"
	"github.com/fastygo/tracker/pkg/httpcontext"
	userUC "github.com/fastygo/tracker/usecase/user"
)

type UserHandler struct {
	baseHandler
	uc *userUC.UseCase
}

func NewUserHandler(uc *userUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List users
// @Tags users
// @Router /api/v1/users [get]
func (h *UserHandler) List(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	users, err := h.uc.GetUsers(stdCtx)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, users)
}

// @Summary Current user
// @Tags users
// @Router /api/v1/me [get]
func (h *UserHandler) Me(ctx *fasthttp.RequestCtx) {
	actor, ok := h.actor(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, err := h.uc.GetUserFromAuthentication(stdCtx, actor.ID)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, user)
}

// @Summary Get user
// @Tags users
// @Router /api/v1/users/{id} [get]
func (h *UserHandler) Get(ctx *fasthttp.RequestCtx) {
	actor, ok := h.actor(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, err := h.uc.GetUser(stdCtx, pathValue(ctx, "id"))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	if !ownsAccount(user, actor) && !isAdmin(ctx) {
		h.respondError(ctx, stdCtx, domain.ErrForbidden)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, user)
}

// @Summary Register user
// @Description Non-admins can only register themselves, as authors.
// @Tags users
// @Router /api/v1/users [post]
func (h *UserHandler) Create(ctx *fasthttp.RequestCtx) {
	actor, ok := h.actor(ctx)
	if !ok {
		return
	}
	var req transport.UserRequest
	if !h.decode(ctx, &req) {
		return
	}

	user := &domain.User{}
	applyUser(user, req)
	user.ObjectIdentifier = req.ObjectIdentifier
	user.Role = req.Role
	if !isAdmin(ctx) {
		user.ObjectIdentifier = actor.ID
		user.Role = domain.RoleAuthor
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.CreateUser(stdCtx, user)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Update user
// @Tags users
// @Router /api/v1/users/{id} [put]
func (h *UserHandler) Update(ctx *fasthttp.RequestCtx) {
	actor, ok := h.actor(ctx)
	if !ok {
		return
	}
	var req transport.UserRequest
	if !h.decode(ctx, &req) || !h.requireVersion(ctx, req.Version) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, err := h.uc.GetUser(stdCtx, pathValue(ctx, "id"))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	admin := isAdmin(ctx)
	if !ownsAccount(user, actor) && !admin {
		h.respondError(ctx, stdCtx, domain.ErrForbidden)
		return
	}
	applyUser(user, req)
	if admin && req.Role != "" {
		user.Role = req.Role
	}
	user.Version = *req.Version

	updated, err := h.uc.UpdateUser(stdCtx, user)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Archive user
// @Tags users
// @Router /api/v1/users/{id}/archive [post]
func (h *UserHandler) Archive(ctx *fasthttp.RequestCtx) {
	actor, ok := h.actor(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.ArchiveUser(stdCtx, pathValue(ctx, "id"), actor); err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]bool{"archived": true})
}

func ownsAccount(user *domain.User, actor domain.UserRef) bool {
	return user.ID == actor.ID || (user.ObjectIdentifier != "" && user.ObjectIdentifier == actor.ID)
}

func applyUser(user *domain.User, req transport.UserRequest) {
	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.DisplayName = req.DisplayName
	user.EmailAddress = req.EmailAddress
}
