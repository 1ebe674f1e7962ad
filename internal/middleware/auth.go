package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/tracker/api/transport"
	"github.com/fastygo/tracker/domain"
	"github.com/fastygo/tracker/pkg/httpcontext"
)

// Claims are the token claims the tracker understands.
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role,omitempty"`
	Name   string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// ErrEmptySecret is returned by JWTAuth when no signing key is configured.
var ErrEmptySecret = errors.New("middleware: jwt secret is required")

// JWTAuth validates HS256 bearer tokens and copies the identity into request headers.
// Identity headers supplied by the client are always discarded first. A non-empty
// issuer must match the token's iss claim.
func JWTAuth(secret, issuer string, logger *zap.Logger) (func(fasthttp.RequestHandler) fasthttp.RequestHandler, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	key := []byte(secret)
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			stripIdentity(ctx)

			tokenString := extractToken(ctx)
			if tokenString == "" {
				reject(ctx, http.StatusUnauthorized, domain.ErrCodeUnauthorized, "missing bearer token")
				return
			}

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
				return key, nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !token.Valid || claims.UserID == "" {
				logger.Warn("invalid jwt token", zap.Error(err))
				reject(ctx, http.StatusUnauthorized, domain.ErrCodeUnauthorized, "invalid token")
				return
			}
			if issuer != "" && !claims.VerifyIssuer(issuer, true) {
				logger.Warn("jwt issuer mismatch", zap.String("issuer", claims.Issuer))
				reject(ctx, http.StatusUnauthorized, domain.ErrCodeUnauthorized, "invalid token")
				return
			}

			ctx.Request.Header.Set(httpcontext.HeaderUserID, claims.UserID)
			if claims.Role != "" {
				ctx.Request.Header.Set(httpcontext.HeaderUserRole, claims.Role)
			}
			if claims.Name != "" {
				ctx.Request.Header.Set(httpcontext.HeaderUserName, claims.Name)
			}

			next(ctx)
		}
	}, nil
}

// Anonymous strips client supplied identity headers on routes that need no token.
func Anonymous(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		stripIdentity(ctx)
		next(ctx)
	}
}

// RequireRole admits requests whose authenticated role matches. It must run after JWTAuth.
func RequireRole(role string) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			if string(ctx.Request.Header.Peek(httpcontext.HeaderUserRole)) != role {
				reject(ctx, http.StatusForbidden, domain.ErrCodeForbidden, "insufficient role")
				return
			}
			next(ctx)
		}
	}
}

// Chain applies middlewares so the first one listed runs first.
func Chain(h fasthttp.RequestHandler, mws ...func(fasthttp.RequestHandler) fasthttp.RequestHandler) fasthttp.RequestHandler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// SignToken issues an HS256 token for the given identity.
func SignToken(secret string, claims Claims) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func stripIdentity(ctx *fasthttp.RequestCtx) {
	ctx.Request.Header.Del(httpcontext.HeaderUserID)
	ctx.Request.Header.Del(httpcontext.HeaderUserRole)
	ctx.Request.Header.Del(httpcontext.HeaderUserName)
}

func reject(ctx *fasthttp.RequestCtx, status int, code domain.ErrorCode, message string) {
	body, _ := json.Marshal(transport.NewError(string(code), message, nil))
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}

func extractToken(ctx *fasthttp.RequestCtx) string {
	header := string(ctx.Request.Header.Peek("Authorization"))
	if header == "" {
		return ""
	}
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return header
}
