package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/tracker/api/transport"
	"github.com/fastygo/tracker/domain"
	"github.com/fastygo/tracker/pkg/httpcontext"
	statusUC "github.com/fastygo/tracker/usecase/status"
)

type StatusHandler struct {
	baseHandler
	uc *statusUC.UseCase
}

func NewStatusHandler(uc *statusUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *StatusHandler {
	return &StatusHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List statuses
// @Tags statuses
// @Router /api/v1/statuses [get]
func (h *StatusHandler) List(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	statuses, err := h.uc.GetStatuses(stdCtx)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, statuses)
}

// @Summary Get status
// @Tags statuses
// @Router /api/v1/statuses/{id} [get]
func (h *StatusHandler) Get(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	status, err := h.uc.GetStatus(stdCtx, pathValue(ctx, "id"))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, status)
}

// @Summary Create status
// @Tags statuses
// @Router /api/v1/statuses [post]
func (h *StatusHandler) Create(ctx *fasthttp.RequestCtx) {
	var req transport.StatusRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.CreateStatus(stdCtx, &domain.Status{
		StatusName:        req.StatusName,
		StatusDescription: req.StatusDescription,
	})
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Update status
// @Tags statuses
// @Router /api/v1/statuses/{id} [put]
func (h *StatusHandler) Update(ctx *fasthttp.RequestCtx) {
	var req transport.StatusRequest
	if !h.decode(ctx, &req) || !h.requireVersion(ctx, req.Version) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	status, err := h.uc.GetStatus(stdCtx, pathValue(ctx, "id"))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	status.StatusName = req.StatusName
	status.StatusDescription = req.StatusDescription
	status.Version = *req.Version

	updated, err := h.uc.UpdateStatus(stdCtx, status)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Archive status
// @Tags statuses
// @Router /api/v1/statuses/{id}/archive [post]
func (h *StatusHandler) Archive(ctx *fasthttp.RequestCtx) {
	actor, ok := h.actor(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.ArchiveStatus(stdCtx, pathValue(ctx, "id"), actor); err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]bool{"archived": true})
}
