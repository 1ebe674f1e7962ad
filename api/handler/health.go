package handler

import (
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/tracker/api/transport"
	"github.com/fastygo/tracker/internal/infrastructure/monitor"
	"github.com/fastygo/tracker/pkg/httpcontext"
)

// HealthSource reports the last observed dependency status.
type HealthSource interface {
	GetStatus() monitor.Status
}

type HealthHandler struct {
	baseHandler
	monitor HealthSource
}

func NewHealthHandler(mon HealthSource, adapter *httpcontext.Adapter, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		monitor:     mon,
	}
}

// @Summary Health check
// @Tags health
// @Router /health [get]
func (h *HealthHandler) Check(ctx *fasthttp.RequestCtx) {
	status := h.monitor.GetStatus()
	services := map[string]interface{}{
		"store": map[string]interface{}{
			"driver": status.StoreDriver,
			"online": status.Store,
		},
		"buffer": map[string]interface{}{
			"online": status.Buffer,
			"size":   status.BufferSize,
		},
	}
	if status.Redis != nil {
		services["redis"] = *status.Redis
	}
	payload := map[string]interface{}{
		"timestamp":  time.Now().UTC(),
		"last_check": status.LastCheck,
		"services":   services,
	}

	if status.Store {
		h.respondSuccess(ctx, http.StatusOK, payload)
		return
	}
	h.respondJSON(ctx, http.StatusServiceUnavailable, transport.NewError("DEGRADED", "document store unreachable", payload))
}
