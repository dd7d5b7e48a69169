package attachmentsHandler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/parleychat/parley/internal/auth"
	resp "github.com/parleychat/parley/internal/lib/api/response"
	"github.com/parleychat/parley/internal/lib/logger/sl"
	"github.com/parleychat/parley/internal/transport/httpapi"
	"github.com/parleychat/parley/internal/uploads"
)

type AttachmentsService interface {
	PresignDownload(ctx context.Context, userID, attachmentID int64) (string, error)
}

type AttachmentsHandler struct {
	Service AttachmentsService
	Log     *slog.Logger
}

func New(service AttachmentsService, log *slog.Logger) *AttachmentsHandler {
	return &AttachmentsHandler{Service: service, Log: log}
}

// DownloadURL returns a short-lived presigned URL for one attachment's
// object. Clients fetch the bytes straight from object storage.
func (h *AttachmentsHandler) DownloadURL() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.attachments.DownloadURL"

		log := h.Log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		attachmentID, err := strconv.ParseInt(chi.URLParam(r, "attachmentId"), 10, 64)
		if err != nil || attachmentID <= 0 {
			resp.WriteError(w, r, http.StatusBadRequest, "invalid_request", "invalid attachment id")
			return
		}

		url, err := h.Service.PresignDownload(r.Context(), auth.UserID(r), attachmentID)
		if err != nil {
			log.Error("failed to presign download", sl.Err(err))
			httpapi.WriteError(w, r, err)
			return
		}

		render.JSON(w, r, uploads.PresignDownloadResponse{
			Response: resp.OK(),
			URL:      url,
		})
	}
}
