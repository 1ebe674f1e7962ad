package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/tracker/pkg/httpcontext"
	sampleUC "github.com/fastygo/tracker/usecase/sampledata"
)

type AdminHandler struct {
	baseHandler
	sample *sampleUC.UseCase
}

func NewAdminHandler(sample *sampleUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		baseHandler: newBaseHandler(adapter, logger),
		sample:      sample,
	}
}

// @Summary Seed sample data into empty collections
// @Tags admin
// @Router /api/v1/admin/sample-data [post]
func (h *AdminHandler) SeedSampleData(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	report, err := h.sample.Seed(stdCtx)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, report)
}
