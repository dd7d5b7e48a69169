package messagesHandler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/parleychat/parley/internal/auth"
	resp "github.com/parleychat/parley/internal/lib/api/response"
	"github.com/parleychat/parley/internal/lib/logger/sl"
	"github.com/parleychat/parley/internal/messages"
	"github.com/parleychat/parley/internal/transport/httpapi"
	"github.com/parleychat/parley/internal/uploads"
	"github.com/parleychat/parley/internal/ws"
	"github.com/parleychat/parley/internal/ws/hub"
)

// multipart parts beyond this spill to temp files; the real size limits live
// in the composer.
const multipartMemory = 8 << 20

type MessagesService interface {
	Compose(ctx context.Context, in messages.ComposeInput) (messages.Message, error)
	List(ctx context.Context, channelID, userID int64) ([]messages.Message, error)
}

type MessagesHandler struct {
	Service        MessagesService
	Hub            *hub.Hub
	MaxRequestSize int64
	Log            *slog.Logger
}

func New(service MessagesService, h *hub.Hub, maxRequestSize int64, log *slog.Logger) *MessagesHandler {
	return &MessagesHandler{Service: service, Hub: h, MaxRequestSize: maxRequestSize, Log: log}
}

func (h *MessagesHandler) GetMessages() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.messages.GetMessages"

		log := h.Log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		channelID, err := strconv.ParseInt(chi.URLParam(r, "channelId"), 10, 64)
		if err != nil || channelID <= 0 {
			resp.WriteError(w, r, http.StatusBadRequest, "invalid_request", "invalid channel id")
			return
		}

		list, err := h.Service.List(r.Context(), channelID, auth.UserID(r))
		if err != nil {
			log.Error("failed to get messages", sl.Err(err))
			httpapi.WriteError(w, r, err)
			return
		}

		render.JSON(w, r, messages.GetMessagesResponse{
			Response: resp.OK(),
			Messages: list,
		})
	}
}

// SendMessage accepts multipart/form-data: a "text" field plus zero or more
// "files" parts. Text and files are composed into one message; the new
// message is broadcast to channel subscribers after the response is written.
func (h *MessagesHandler) SendMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.messages.SendMessage"

		log := h.Log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		channelID, err := strconv.ParseInt(chi.URLParam(r, "channelId"), 10, 64)
		if err != nil || channelID <= 0 {
			resp.WriteError(w, r, http.StatusBadRequest, "invalid_request", "invalid channel id")
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, h.MaxRequestSize)

		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			resp.WriteError(w, r, http.StatusBadRequest, "invalid_body", "invalid multipart body")
			return
		}
		defer func() {
			_ = r.MultipartForm.RemoveAll()
		}()

		files, err := readFiles(r)
		if err != nil {
			log.Error("failed to read uploaded files", sl.Err(err))
			resp.WriteError(w, r, http.StatusBadRequest, "invalid_body", "unreadable file part")
			return
		}

		userID := auth.UserID(r)

		msg, err := h.Service.Compose(r.Context(), messages.ComposeInput{
			ChannelID: channelID,
			UserID:    userID,
			Text:      r.FormValue("text"),
			Files:     files,
		})
		if err != nil {
			log.Error("failed to send message", sl.Err(err))
			httpapi.WriteError(w, r, err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, messages.CreateMessageResponse{
			Response: resp.OK(),
			Message:  msg,
		})

		evt, err := ws.NewEvent(channelID, ws.MessageNew, ws.MessageNewPayload{Message: msg})
		if err != nil {
			log.Error("failed to build ws event", sl.Err(err))
			return
		}

		payload, err := json.Marshal(evt)
		if err != nil {
			log.Error("failed to marshal ws event", sl.Err(err))
			return
		}

		// the sender already holds the message from the response
		h.Hub.BroadcastExceptUser(channelID, payload, userID)
	}
}

func readFiles(r *http.Request) ([]uploads.File, error) {
	parts := r.MultipartForm.File["files"]
	if len(parts) == 0 {
		return nil, nil
	}

	files := make([]uploads.File, 0, len(parts))
	for _, fh := range parts {
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}

		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			return nil, err
		}

		files = append(files, uploads.File{
			Name:      fh.Filename,
			MediaType: fh.Header.Get("Content-Type"),
			Data:      data,
		})
	}

	return files, nil
}
