package middleware

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"

	"github.com/planora/backend/domain"
)

type stubValidator struct {
	session  *domain.Session
	gotToken string
}

func (s *stubValidator) Validate(ctx context.Context, token string) (*domain.Session, error) {
	s.gotToken = token
	if s.session == nil {
		return nil, domain.ErrUnauthorized
	}
	return s.session, nil
}

func runRequest(t *testing.T, validator SessionValidator, configure func(*fasthttp.RequestCtx)) (*fasthttp.RequestCtx, bool) {
	t.Helper()

	called := false
	handler := SessionAuth(validator, nil)(func(ctx *fasthttp.RequestCtx) {
		called = true
	})

	var ctx fasthttp.RequestCtx
	configure(&ctx)
	handler(&ctx)
	return &ctx, called
}

func TestSessionAuthAcceptsBearerToken(t *testing.T) {
	validator := &stubValidator{session: &domain.Session{ID: "s1", UserEmail: "ada@example.com"}}

	ctx, called := runRequest(t, validator, func(ctx *fasthttp.RequestCtx) {
		ctx.Request.Header.Set("Authorization", "Bearer tok123")
	})

	assert.True(t, called)
	assert.Equal(t, "tok123", validator.gotToken)

	session := SessionFromCtx(ctx)
	assert.NotNil(t, session)
	assert.Equal(t, "ada@example.com", session.UserEmail)
}

func TestSessionAuthAcceptsQueryToken(t *testing.T) {
	validator := &stubValidator{session: &domain.Session{ID: "s1", UserEmail: "ada@example.com"}}

	_, called := runRequest(t, validator, func(ctx *fasthttp.RequestCtx) {
		ctx.Request.SetRequestURI("/api/v1/reminders/stream?token=tok456")
	})

	assert.True(t, called)
	assert.Equal(t, "tok456", validator.gotToken)
}

func TestSessionAuthRejectsMissingToken(t *testing.T) {
	validator := &stubValidator{session: &domain.Session{ID: "s1"}}

	ctx, called := runRequest(t, validator, func(ctx *fasthttp.RequestCtx) {})

	assert.False(t, called)
	assert.Equal(t, fasthttp.StatusUnauthorized, ctx.Response.StatusCode())
}

func TestSessionAuthRejectsInvalidToken(t *testing.T) {
	validator := &stubValidator{}

	ctx, called := runRequest(t, validator, func(ctx *fasthttp.RequestCtx) {
		ctx.Request.Header.Set("Authorization", "Bearer forged")
	})

	assert.False(t, called)
	assert.Equal(t, fasthttp.StatusUnauthorized, ctx.Response.StatusCode())
}
