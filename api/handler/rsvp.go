package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/eventhub/backend/api/transport"
	"github.com/eventhub/backend/domain"
	"github.com/eventhub/backend/pkg/httpcontext"
	rsvpUC "github.com/eventhub/backend/usecase/rsvp"
)

type RsvpHandler struct {
	baseHandler
	uc *rsvpUC.UseCase
}

func NewRsvpHandler(uc *rsvpUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *RsvpHandler {
	return &RsvpHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Toggle attendance
// @Tags rsvps
// @Router /api/v1/events/{id}/rsvp [post]
func (h *RsvpHandler) Toggle(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	eventID, ok := h.eventID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	result, err := h.uc.Toggle(stdCtx, eventID, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, result)
}

// @Summary Attendance status
// @Tags rsvps
// @Router /api/v1/events/{id}/rsvp [get]
func (h *RsvpHandler) Status(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	eventID, ok := h.eventID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	status, err := h.uc.GetStatus(stdCtx, eventID, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, status)
}

// @Summary List attended events
// @Tags rsvps
// @Router /api/v1/rsvps/my [get]
func (h *RsvpHandler) MyEvents(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	events, err := h.uc.MyEvents(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, events)
}

// @Summary Rate event
// @Tags rsvps
// @Router /api/v1/events/{id}/rating [post]
func (h *RsvpHandler) Rate(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	eventID, ok := h.eventID(ctx)
	if !ok {
		return
	}

	var req transport.RatingRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Rate(stdCtx, eventID, userID, req.Rating); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{"event_id": eventID, "rating": req.Rating})
}

func (h *RsvpHandler) eventID(ctx *fasthttp.RequestCtx) (string, bool) {
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "missing event id", nil))
		return "", false
	}
	return id, true
}
