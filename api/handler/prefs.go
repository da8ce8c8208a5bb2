package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/planora/backend/api/transport"
	"github.com/planora/backend/domain"
	"github.com/planora/backend/pkg/httpcontext"
	prefsUC "github.com/planora/backend/usecase/prefs"
)

type PrefsHandler struct {
	baseHandler
	uc *prefsUC.UseCase
}

func NewPrefsHandler(uc *prefsUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *PrefsHandler {
	return &PrefsHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Read theme and notification permission
// @Tags prefs
// @Router /api/v1/prefs [get]
func (h *PrefsHandler) Get(ctx *fasthttp.RequestCtx) {
	session := h.session(ctx)
	if session == nil {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	prefs, err := h.uc.Get(stdCtx, session.UserEmail)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, prefs)
}

// @Summary Switch the color theme
// @Tags prefs
// @Router /api/v1/prefs/theme [put]
func (h *PrefsHandler) SetTheme(ctx *fasthttp.RequestCtx) {
	session := h.session(ctx)
	if session == nil {
		return
	}

	var req transport.ThemeRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.SetTheme(stdCtx, domain.Theme(req.Theme)); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, nil)
}

// @Summary Change the notification permission state
// @Tags prefs
// @Router /api/v1/prefs/notifications [put]
func (h *PrefsHandler) SetPermission(ctx *fasthttp.RequestCtx) {
	session := h.session(ctx)
	if session == nil {
		return
	}

	var req transport.PermissionRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.SetPermission(stdCtx, session.UserEmail, domain.Permission(req.Permission)); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, nil)
}
