package serversHandler

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
	"github.com/parleychat/parley/internal/servers"
	"github.com/parleychat/parley/internal/transport/httpapi"
)

type ServersService interface {
	CreateServer(ctx context.Context, userID int64, req servers.CreateServerRequest) (servers.Server, channels.Channel, error)
	ListServers(ctx context.Context, userID int64) ([]servers.Server, error)
	GetServer(ctx context.Context, serverID, userID int64) (servers.Server, []servers.Member, error)
}

type ServersHandler struct {
	Service ServersService
	Log     *slog.Logger
}

func New(service ServersService, log *slog.Logger) *ServersHandler {
	return &ServersHandler{Service: service, Log: log}
}

func (h *ServersHandler) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.servers.Create"

		log := h.Log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req servers.CreateServerRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			resp.WriteError(w, r, http.StatusBadRequest, "invalid_body", "invalid body")
			return
		}

		srv, defaultChannel, err := h.Service.CreateServer(r.Context(), auth.UserID(r), req)
		if err != nil {
			log.Error("failed to create server", sl.Err(err))
			httpapi.WriteError(w, r, err)
			return
		}

		log.Info("server created", slog.Int64("server_id", srv.ID))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, servers.CreateServerResponse{
			Response:       resp.OK(),
			Server:         srv,
			DefaultChannel: defaultChannel,
		})
	}
}

func (h *ServersHandler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.servers.List"

		log := h.Log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		list, err := h.Service.ListServers(r.Context(), auth.UserID(r))
		if err != nil {
			log.Error("failed to list servers", sl.Err(err))
			httpapi.WriteError(w, r, err)
			return
		}

		render.JSON(w, r, servers.GetServersResponse{
			Response: resp.OK(),
			Servers:  list,
		})
	}
}

func (h *ServersHandler) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.servers.Get"

		log := h.Log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		serverID, err := strconv.ParseInt(chi.URLParam(r, "serverId"), 10, 64)
		if err != nil || serverID <= 0 {
			resp.WriteError(w, r, http.StatusBadRequest, "invalid_request", "invalid server id")
			return
		}

		srv, members, err := h.Service.GetServer(r.Context(), serverID, auth.UserID(r))
		if err != nil {
			log.Error("failed to get server", sl.Err(err))
			httpapi.WriteError(w, r, err)
			return
		}

		render.JSON(w, r, servers.GetServerResponse{
			Response: resp.OK(),
			Server:   srv,
			Members:  members,
		})
	}
}
