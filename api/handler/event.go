package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/eventhub/backend/api/transport"
	"github.com/eventhub/backend/domain"
	"github.com/eventhub/backend/pkg/httpcontext"
	"github.com/eventhub/backend/repository"
	eventUC "github.com/eventhub/backend/usecase/event"
)

type EventHandler struct {
	baseHandler
	uc *eventUC.UseCase
}

func NewEventHandler(uc *eventUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *EventHandler {
	return &EventHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List events
// @Tags events
// @Router /api/v1/events [get]
func (h *EventHandler) List(ctx *fasthttp.RequestCtx) {
	filter := repository.EventFilter{
		Category: string(ctx.QueryArgs().Peek("category")),
		Format:   string(ctx.QueryArgs().Peek("format")),
		City:     string(ctx.QueryArgs().Peek("city")),
		Level:    string(ctx.QueryArgs().Peek("level")),
		Query:    string(ctx.QueryArgs().Peek("q")),
		Sort:     string(ctx.QueryArgs().Peek("sort")),
		Limit:    parseInt(string(ctx.QueryArgs().Peek("limit")), 50),
		Offset:   parseInt(string(ctx.QueryArgs().Peek("offset")), 0),
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	events, err := h.uc.List(stdCtx, filter)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewSuccess(events, transport.ListMeta{
		Limit:  filter.Limit,
		Offset: filter.Offset,
		Count:  len(events),
	}))
}

// @Summary Get event
// @Tags events
// @Router /api/v1/events/{id} [get]
func (h *EventHandler) Get(ctx *fasthttp.RequestCtx) {
	id, ok := h.eventID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	details, err := h.uc.Get(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, details)
}

// @Summary List own events
// @Tags events
// @Router /api/v1/events/my [get]
func (h *EventHandler) Mine(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	events, err := h.uc.Mine(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, events)
}

// @Summary Delete event
// @Tags events
// @Router /api/v1/events/{id} [delete]
func (h *EventHandler) Delete(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	id, ok := h.eventID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Delete(stdCtx, id, userID); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}

// @Summary Upload event images
// @Tags events
// @Router /api/v1/events/{id}/images [post]
func (h *EventHandler) UploadImages(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	id, ok := h.eventID(ctx)
	if !ok {
		return
	}

	uploads, closeAll, ok := openUploads(h.baseHandler, ctx)
	if !ok {
		return
	}
	defer closeAll()

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	urls, err := h.uc.UploadImages(stdCtx, id, userID, uploads)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, map[string][]string{"image_urls": urls})
}

// @Summary Serve event image
// @Tags events
// @Router /api/v1/events/{id}/images/{filename} [get]
func (h *EventHandler) ServeImage(ctx *fasthttp.RequestCtx) {
	id, ok := h.eventID(ctx)
	if !ok {
		return
	}
	filename, _ := ctx.UserValue("filename").(string)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	path, err := h.uc.ImagePath(stdCtx, id, filename)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	fasthttp.ServeFile(ctx, path)
}

// @Summary Delete event image
// @Tags events
// @Router /api/v1/events/{id}/images/{filename} [delete]
func (h *EventHandler) DeleteImage(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	id, ok := h.eventID(ctx)
	if !ok {
		return
	}
	filename, _ := ctx.UserValue("filename").(string)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.DeleteImage(stdCtx, id, filename, userID); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}

func (h *EventHandler) eventID(ctx *fasthttp.RequestCtx) (string, bool) {
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "missing event id", nil))
		return "", false
	}
	return id, true
}
