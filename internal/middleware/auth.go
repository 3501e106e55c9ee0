package middleware

import (
	"context"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/eventhub/backend/domain"
)

// IdentitySyncer mirrors the verified token subject into local storage so
// foreign keys and notification lookups resolve.
type IdentitySyncer interface {
	Sync(ctx context.Context, user *domain.User) error
}

// JWTAuth validates the bearer token, mirrors the subject through the syncer
// and propagates id and role to downstream handlers via trusted headers.
// Client-supplied values for those headers are always discarded first.
func JWTAuth(secret string, sync IdentitySyncer, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			ctx.Request.Header.Del("X-User-ID")
			ctx.Request.Header.Del("X-User-Role")

			tokenString := extractToken(ctx)
			if tokenString == "" {
				ctx.SetStatusCode(fasthttp.StatusUnauthorized)
				return
			}

			token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				logger.Warn("invalid jwt token", zap.Error(err))
				ctx.SetStatusCode(fasthttp.StatusUnauthorized)
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				ctx.SetStatusCode(fasthttp.StatusUnauthorized)
				return
			}

			user := userFromClaims(claims)
			if user.ID == "" {
				ctx.SetStatusCode(fasthttp.StatusUnauthorized)
				return
			}

			if sync != nil {
				// Best effort: a storage hiccup must not lock everyone out.
				if err := sync.Sync(ctx, user); err != nil {
					logger.Warn("identity sync failed",
						zap.String("user_id", user.ID), zap.Error(err))
				}
			}

			ctx.Request.Header.Set("X-User-ID", user.ID)
			ctx.Request.Header.Set("X-User-Role", user.Role)

			next(ctx)
		}
	}
}

// RequireRole gates a handler behind a role claim. Runs inside JWTAuth, so
// the role header is trusted here.
func RequireRole(role string) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			if string(ctx.Request.Header.Peek("X-User-Role")) != role {
				ctx.SetStatusCode(fasthttp.StatusForbidden)
				return
			}
			next(ctx)
		}
	}
}

// RequireAdmin is shorthand for the moderation surface.
func RequireAdmin(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return RequireRole(domain.RoleAdmin)(next)
}

func userFromClaims(claims jwt.MapClaims) *domain.User {
	user := &domain.User{Role: domain.RoleUser}
	if v, ok := claims["user_id"].(string); ok {
		user.ID = v
	}
	if v, ok := claims["email"].(string); ok {
		user.Email = v
	}
	if v, ok := claims["full_name"].(string); ok {
		user.FullName = v
	}
	if v, ok := claims["role"].(string); ok && v != "" {
		user.Role = v
	}
	return user
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
