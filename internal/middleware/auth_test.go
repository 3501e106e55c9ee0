package middleware

import (
	"context"
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/eventhub/backend/domain"
)

const testSecret = "test-secret"

type recordingSyncer struct {
	synced []domain.User
	err    error
}

func (s *recordingSyncer) Sync(_ context.Context, user *domain.User) error {
	s.synced = append(s.synced, *user)
	return s.err
}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func TestJWTAuthPropagatesClaims(t *testing.T) {
	var gotUser, gotRole string
	next := func(ctx *fasthttp.RequestCtx) {
		gotUser = string(ctx.Request.Header.Peek("X-User-ID"))
		gotRole = string(ctx.Request.Header.Peek("X-User-Role"))
	}

	handler := JWTAuth(testSecret, nil, nil)(next)

	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.Set("Authorization", "Bearer "+signToken(t, jwt.MapClaims{
		"user_id": "user-1",
		"role":    domain.RoleAdmin,
	}))
	handler(ctx)

	assert.Equal(t, "user-1", gotUser)
	assert.Equal(t, domain.RoleAdmin, gotRole)
}

func TestJWTAuthStripsSpoofedHeaders(t *testing.T) {
	var gotRole string
	next := func(ctx *fasthttp.RequestCtx) {
		gotRole = string(ctx.Request.Header.Peek("X-User-Role"))
	}

	handler := JWTAuth(testSecret, nil, nil)(next)

	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.Set("X-User-Role", domain.RoleAdmin)
	ctx.Request.Header.Set("Authorization", "Bearer "+signToken(t, jwt.MapClaims{
		"user_id": "user-1",
		"role":    domain.RoleUser,
	}))
	handler(ctx)

	assert.Equal(t, domain.RoleUser, gotRole)
}

func TestJWTAuthRejectsMissingToken(t *testing.T) {
	called := false
	handler := JWTAuth(testSecret, nil, nil)(func(ctx *fasthttp.RequestCtx) { called = true })

	ctx := &fasthttp.RequestCtx{}
	handler(ctx)

	assert.False(t, called)
	assert.Equal(t, fasthttp.StatusUnauthorized, ctx.Response.StatusCode())
}

func TestJWTAuthRejectsBadSignature(t *testing.T) {
	called := false
	handler := JWTAuth(testSecret, nil, nil)(func(ctx *fasthttp.RequestCtx) { called = true })

	badToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": "user-1"}).
		SignedString([]byte("other-secret"))
	require.NoError(t, err)

	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.Set("Authorization", "Bearer "+badToken)
	handler(ctx)

	assert.False(t, called)
	assert.Equal(t, fasthttp.StatusUnauthorized, ctx.Response.StatusCode())
}

func TestJWTAuthSyncsIdentity(t *testing.T) {
	syncer := &recordingSyncer{}
	called := false
	handler := JWTAuth(testSecret, syncer, nil)(func(ctx *fasthttp.RequestCtx) { called = true })

	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.Set("Authorization", "Bearer "+signToken(t, jwt.MapClaims{
		"user_id":   "user-1",
		"email":     "pat@example.com",
		"full_name": "Pat Doe",
		"role":      domain.RoleAdmin,
	}))
	handler(ctx)

	assert.True(t, called)
	require.Len(t, syncer.synced, 1)
	got := syncer.synced[0]
	assert.Equal(t, "user-1", got.ID)
	assert.Equal(t, "pat@example.com", got.Email)
	assert.Equal(t, "Pat Doe", got.FullName)
	assert.Equal(t, domain.RoleAdmin, got.Role)
}

func TestJWTAuthSyncDefaultsRole(t *testing.T) {
	syncer := &recordingSyncer{}
	handler := JWTAuth(testSecret, syncer, nil)(func(ctx *fasthttp.RequestCtx) {})

	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.Set("Authorization", "Bearer "+signToken(t, jwt.MapClaims{
		"user_id": "user-1",
	}))
	handler(ctx)

	require.Len(t, syncer.synced, 1)
	assert.Equal(t, domain.RoleUser, syncer.synced[0].Role)
}

func TestJWTAuthSyncFailureDoesNotBlock(t *testing.T) {
	syncer := &recordingSyncer{err: errors.New("storage down")}
	called := false
	handler := JWTAuth(testSecret, syncer, nil)(func(ctx *fasthttp.RequestCtx) { called = true })

	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.Set("Authorization", "Bearer "+signToken(t, jwt.MapClaims{
		"user_id": "user-1",
	}))
	handler(ctx)

	assert.True(t, called)
}

func TestRequireRole(t *testing.T) {
	called := false
	handler := RequireRole(domain.RoleAdmin)(func(ctx *fasthttp.RequestCtx) { called = true })

	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.Set("X-User-Role", domain.RoleUser)
	handler(ctx)
	assert.False(t, called)
	assert.Equal(t, fasthttp.StatusForbidden, ctx.Response.StatusCode())

	ctx = &fasthttp.RequestCtx{}
	ctx.Request.Header.Set("X-User-Role", domain.RoleAdmin)
	handler(ctx)
	assert.True(t, called)
}
