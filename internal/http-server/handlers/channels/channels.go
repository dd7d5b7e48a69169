package channelsHandler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/parleychat/parley/internal/auth"
	"github.com/parleychat/parley/internal/channels"
	resp "github.com/parleychat/parley/internal/lib/api/response"
	"github.com/parleychat/parley/internal/lib/logger/sl"
	"github.com/parleychat/parley/internal/transport/httpapi"
)

type ChannelsService interface {
	CreateChannel(ctx context.Context, serverID, userID int64, req channels.CreateChannelRequest) (channels.Channel, error)
	ListChannels(ctx context.Context, serverID, userID int64) ([]channels.Channel, error)
}

type ChannelsHandler struct {
	Service ChannelsService
	Log     *slog.Logger
}

func New(service ChannelsService, log *slog.Logger) *ChannelsHandler {
	return &ChannelsHandler{Service: service, Log: log}
}

func (h *ChannelsHandler) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.channels.Create"

		log := h.Log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		serverID, err := strconv.ParseInt(chi.URLParam(r, "serverId"), 10, 64)
		if err != nil || serverID <= 0 {
			resp.WriteError(w, r, http.StatusBadRequest, "invalid_request", "invalid server id")
			return
		}

		var req channels.CreateChannelRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			resp.WriteError(w, r, http.StatusBadRequest, "invalid_body", "invalid body")
			return
		}

		ch, err := h.Service.CreateChannel(r.Context(), serverID, auth.UserID(r), req)
		if err != nil {
			log.Error("failed to create channel", sl.Err(err))
			httpapi.WriteError(w, r, err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, channels.CreateChannelResponse{
			Response: resp.OK(),
			Channel:  ch,
		})
	}
}

func (h *ChannelsHandler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.channels.List"

		log := h.Log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		serverID, err := strconv.ParseInt(chi.URLParam(r, "serverId"), 10, 64)
		if err != nil || serverID <= 0 {
			resp.WriteError(w, r, http.StatusBadRequest, "invalid_request", "invalid server id")
			return
		}

		list, err := h.Service.ListChannels(r.Context(), serverID, auth.UserID(r))
		if err != nil {
			log.Error("failed to list channels", sl.Err(err))
			httpapi.WriteError(w, r, err)
			return
		}

		render.JSON(w, r, channels.GetChannelsResponse{
			Response: resp.OK(),
			Channels: list,
		})
	}
}
