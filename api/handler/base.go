package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/tracker/api/transport"
	"github.com/fastygo/tracker/domain"
	"github.com/fastygo/tracker/pkg/httpcontext"
	appLogger "github.com/fastygo/tracker/pkg/logger"
)

var validate = validator.New()

type baseHandler struct {
	adapter *httpcontext.Adapter
	logger  *zap.Logger
}

func newBaseHandler(adapter *httpcontext.Adapter, logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return baseHandler{adapter: adapter, logger: logger}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	if h.adapter != nil {
		return h.adapter.Attach(ctx)
	}
	return context.WithCancel(context.Background())
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload transport.Envelope) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(payload)
	ctx.SetBody(body)
}

func (h baseHandler) respondSuccess(ctx *fasthttp.RequestCtx, status int, data interface{}) {
	h.respondJSON(ctx, status, transport.NewSuccess(data, nil))
}

func (h baseHandler) respondError(ctx *fasthttp.RequestCtx, stdCtx context.Context, err error) {
	status, code := mapError(err)
	var meta interface{}
	var conflict *domain.ConflictError
	if errors.As(err, &conflict) {
		meta = conflict.Info
	}
	log := appLogger.WithContext(stdCtx, h.logger)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", zap.String("path", string(ctx.Path())), zap.Int("status", status), zap.Error(err))
	} else {
		log.Debug("request rejected", zap.String("path", string(ctx.Path())), zap.Int("status", status), zap.Error(err))
	}
	h.respondJSON(ctx, status, transport.NewError(code, err.Error(), meta))
}

// decode unmarshals and validates the body, answering 400 itself on failure.
func (h baseHandler) decode(ctx *fasthttp.RequestCtx, dst interface{}) bool {
	if err := json.Unmarshal(ctx.PostBody(), dst); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return false
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "validation failed", validationDetails(verrs)))
			return false
		}
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), err.Error(), nil))
		return false
	}
	return true
}

// requireVersion rejects updates that do not say which version they were based on.
func (h baseHandler) requireVersion(ctx *fasthttp.RequestCtx, version *int) bool {
	if version == nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "version is required", nil))
		return false
	}
	return true
}

// actor returns the authenticated user, answering 401 when there is none.
func (h baseHandler) actor(ctx *fasthttp.RequestCtx) (domain.UserRef, bool) {
	id := string(ctx.Request.Header.Peek(httpcontext.HeaderUserID))
	if id == "" {
		h.respondJSON(ctx, http.StatusUnauthorized, transport.NewError(string(domain.ErrCodeUnauthorized), "missing user id", nil))
		return domain.UserRef{}, false
	}
	name := string(ctx.Request.Header.Peek(httpcontext.HeaderUserName))
	if name == "" {
		name = id
	}
	return domain.UserRef{ID: id, DisplayName: name}, true
}

func isAdmin(ctx *fasthttp.RequestCtx) bool {
	return string(ctx.Request.Header.Peek(httpcontext.HeaderUserRole)) == domain.RoleAdmin
}

func pathValue(ctx *fasthttp.RequestCtx, name string) string {
	value, _ := ctx.UserValue(name).(string)
	return value
}

func mapError(err error) (int, string) {
	switch {
	case domain.IsDomainError(err, domain.ErrCodeUnauthorized):
		return http.StatusUnauthorized, string(domain.ErrCodeUnauthorized)
	case domain.IsDomainError(err, domain.ErrCodeForbidden):
		return http.StatusForbidden, string(domain.ErrCodeForbidden)
	case domain.IsDomainError(err, domain.ErrCodeInvalid):
		return http.StatusBadRequest, string(domain.ErrCodeInvalid)
	case domain.IsDomainError(err, domain.ErrCodeNotFound):
		return http.StatusNotFound, string(domain.ErrCodeNotFound)
	case domain.IsDomainError(err, domain.ErrCodeConcurrency):
		return http.StatusConflict, string(domain.ErrCodeConcurrency)
	case domain.IsDomainError(err, domain.ErrCodeConflict):
		return http.StatusConflict, string(domain.ErrCodeConflict)
	case domain.IsDomainError(err, domain.ErrCodeUnavailable):
		return http.StatusServiceUnavailable, string(domain.ErrCodeUnavailable)
	default:
		return http.StatusInternalServerError, string(domain.ErrCodeInternal)
	}
}

func validationDetails(errs validator.ValidationErrors) []transport.ValidationErrorDetail {
	details := make([]transport.ValidationErrorDetail, 0, len(errs))
	for _, err := range errs {
		var message string
		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("Field '%s' is required", err.Field())
		case "email":
			message = fmt.Sprintf("Field '%s' must be a valid email address", err.Field())
		case "max":
			message = fmt.Sprintf("Field '%s' must not exceed %s in length", err.Field(), err.Param())
		case "oneof":
			message = fmt.Sprintf("Field '%s' must be one of [%s]", err.Field(), err.Param())
		default:
			message = fmt.Sprintf("Field validation for '%s' failed on the '%s' tag", err.Field(), err.Tag())
		}
		details = append(details, transport.ValidationErrorDetail{
			Field:   err.Field(),
			Message: message,
			Code:    "validation_" + err.Tag(),
		})
	}
	return details
}
