package httpcontext

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	appLogger "github.com/fastygo/tracker/pkg/logger"
)

// Key represents a context value key exported for reuse.
type Key string

const (
	KeyRemoteAddr Key = "remote_addr"
	KeyUserAgent  Key = "user_agent"
	KeyUserRole   Key = "user_role"

	// Identity headers are written by the auth middleware after token validation.
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
	HeaderUserName = "X-User-Name"
	HeaderRequest  = "X-Request-ID"
)

// Adapter converts fasthttp.RequestCtx into a stdlib context with deadlines and metadata.
type Adapter struct {
	timeout time.Duration
}

// NewAdapter constructs a new Adapter using the provided timeout.
func NewAdapter(timeout time.Duration) *Adapter {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Adapter{
		timeout: timeout,
	}
}

// Attach creates a context with timeout derived from the adapter and enriches it with request metadata.
func (a *Adapter) Attach(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	stdCtx, cancel := context.WithTimeout(context.Background(), a.timeout)

	reqID := getRequestID(ctx)
	stdCtx = appLogger.ContextWithRequestID(stdCtx, reqID)
	ctx.Response.Header.Set(HeaderRequest, reqID)

	if userID := string(ctx.Request.Header.Peek(HeaderUserID)); userID != "" {
		stdCtx = appLogger.ContextWithUserID(stdCtx, userID)
	}
	if role := string(ctx.Request.Header.Peek(HeaderUserRole)); role != "" {
		stdCtx = context.WithValue(stdCtx, KeyUserRole, role)
	}
	if remoteAddr := ctx.RemoteAddr(); remoteAddr != nil {
		stdCtx = context.WithValue(stdCtx, KeyRemoteAddr, remoteAddr.String())
	}
	if ua := string(ctx.Request.Header.UserAgent()); ua != "" {
		stdCtx = context.WithValue(stdCtx, KeyUserAgent, ua)
	}

	return stdCtx, cancel
}

// UserRole returns the role attached by Attach.
func UserRole(ctx context.Context) string {
	role, _ := ctx.Value(KeyUserRole).(string)
	return role
}

func getRequestID(ctx *fasthttp.RequestCtx) string {
	if ctx == nil {
		return uuid.NewString()
	}
	if header := string(ctx.Request.Header.Peek(HeaderRequest)); strings.TrimSpace(header) != "" {
		return header
	}
	return uuid.NewString()
}
