package handler

import (
	"encoding/json"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/eventhub/backend/api/transport"
	"github.com/eventhub/backend/domain"
	"github.com/eventhub/backend/pkg/httpcontext"
	"github.com/eventhub/backend/usecase"
	moderationUC "github.com/eventhub/backend/usecase/moderation"
)

type RequestHandler struct {
	baseHandler
	uc *moderationUC.UseCase
}

func NewRequestHandler(uc *moderationUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *RequestHandler {
	return &RequestHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Submit change request
// @Tags requests
// @Router /api/v1/requests [post]
func (h *RequestHandler) Submit(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	req, ok := h.parseRequest(ctx, userID)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.Submit(stdCtx, req)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary List pending requests
// @Tags requests
// @Router /api/v1/requests/pending [get]
func (h *RequestHandler) Pending(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	pending, err := h.uc.ListPending(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, pending)
}

// @Summary List own requests
// @Tags requests
// @Router /api/v1/requests/my [get]
func (h *RequestHandler) Mine(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	mine, err := h.uc.ListMine(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, mine)
}

// @Summary Approve request
// @Tags requests
// @Router /api/v1/requests/{id}/approve [post]
func (h *RequestHandler) Approve(ctx *fasthttp.RequestCtx) {
	id, ok := h.requestID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Approve(stdCtx, id); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]string{"id": id, "status": string(domain.RequestStatusApproved)})
}

// @Summary Reject request
// @Tags requests
// @Router /api/v1/requests/{id}/reject [post]
func (h *RequestHandler) Reject(ctx *fasthttp.RequestCtx) {
	id, ok := h.requestID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Reject(stdCtx, id); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]string{"id": id, "status": string(domain.RequestStatusRejected)})
}

// @Summary Upload request images
// @Tags requests
// @Router /api/v1/requests/{id}/images [post]
func (h *RequestHandler) UploadImages(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	id, ok := h.requestID(ctx)
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

// @Summary Serve request image
// @Tags requests
// @Router /api/v1/requests/{id}/images/{filename} [get]
func (h *RequestHandler) ServeImage(ctx *fasthttp.RequestCtx) {
	id, ok := h.requestID(ctx)
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

// @Summary Delete request image
// @Tags requests
// @Router /api/v1/requests/{id}/images/{filename} [delete]
func (h *RequestHandler) DeleteImage(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	id, ok := h.requestID(ctx)
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

func (h *RequestHandler) requestID(ctx *fasthttp.RequestCtx) (string, bool) {
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "missing request id", nil))
		return "", false
	}
	return id, true
}

func (h *RequestHandler) parseRequest(ctx *fasthttp.RequestCtx, userID string) (*domain.ChangeRequest, bool) {
	var req transport.SubmitRequestRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return nil, false
	}

	var date time.Time
	if req.Date != "" {
		parsed, err := time.Parse(time.RFC3339, req.Date)
		if err != nil {
			h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "date must be RFC3339", nil))
			return nil, false
		}
		date = parsed
	}

	return &domain.ChangeRequest{
		Type:           domain.RequestType(req.Type),
		Title:          req.Title,
		Description:    req.Description,
		Date:           date,
		Category:       req.Category,
		Format:         req.Format,
		City:           req.City,
		Address:        req.Address,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		ConferenceLink: req.ConferenceLink,
		Capacity:       req.Capacity,
		Level:          req.Level,
		AuthorID:       userID,
		TargetEventID:  req.TargetEventID,
	}, true
}

// openUploads collects the "images" parts of a multipart form. The returned
// closer must be called after the use case has consumed the readers.
func openUploads(h baseHandler, ctx *fasthttp.RequestCtx) ([]usecase.ImageUpload, func(), bool) {
	form, err := ctx.MultipartForm()
	if err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "expected multipart form", nil))
		return nil, nil, false
	}

	headers := form.File["images"]
	if len(headers) == 0 {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "no images attached", nil))
		return nil, nil, false
	}

	uploads := make([]usecase.ImageUpload, 0, len(headers))
	opened := make([]multipart.File, 0, len(headers))
	closeAll := func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}

	for _, fh := range headers {
		file, err := fh.Open()
		if err != nil {
			closeAll()
			h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "unreadable image part", nil))
			return nil, nil, false
		}
		opened = append(opened, file)
		uploads = append(uploads, usecase.ImageUpload{Filename: fh.Filename, Content: file})
	}

	return uploads, closeAll, true
}
