package invitesHandler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/parleychat/parley/internal/auth"
	"github.com/parleychat/parley/internal/invites"
	resp "github.com/parleychat/parley/internal/lib/api/response"
	"github.com/parleychat/parley/internal/lib/logger/sl"
	"github.com/parleychat/parley/internal/transport/httpapi"
	"github.com/parleychat/parley/internal/users"
)

type InvitesService interface {
	CreateInvite(ctx context.Context, serverID, userID int64, maxUses int) (invites.Invite, error)
	Redeem(ctx context.Context, code string, userID int64) (int64, error)
	SendDirectInvite(ctx context.Context, serverID, actingUserID, invitedUserID int64) error
	PendingInvites(ctx context.Context, userID int64) ([]invites.DirectInvite, error)
	AcceptDirectInvite(ctx context.Context, inviteID, userID int64) error
	DeclineDirectInvite(ctx context.Context, inviteID, userID int64) error
}

type UserDirectory interface {
	FindByUsername(ctx context.Context, username string) (users.User, error)
}

type InvitesHandler struct {
	Service InvitesService
	Users   UserDirectory
	Log     *slog.Logger
}

func New(service InvitesService, userDir UserDirectory, log *slog.Logger) *InvitesHandler {
	return &InvitesHandler{Service: service, Users: userDir, Log: log}
}

func (h *InvitesHandler) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.invites.Create"

		log := h.Log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		serverID, err := strconv.ParseInt(chi.URLParam(r, "serverId"), 10, 64)
		if err != nil || serverID <= 0 {
			resp.WriteError(w, r, http.StatusBadRequest, "invalid_request", "invalid server id")
			return
		}

		var req invites.CreateInviteRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			resp.WriteError(w, r, http.StatusBadRequest, "invalid_body", "invalid body")
			return
		}

		inv, err := h.Service.CreateInvite(r.Context(), serverID, auth.UserID(r), req.MaxUses)
		if err != nil {
			log.Error("failed to create invite", sl.Err(err))
			httpapi.WriteError(w, r, err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, invites.CreateInviteResponse{
			Response: resp.OK(),
			Code:     inv.Code,
			MaxUses:  inv.MaxUses,
		})
	}
}

func (h *InvitesHandler) Join() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.invites.Join"

		log := h.Log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		code := strings.TrimSpace(chi.URLParam(r, "code"))
		if code == "" {
			resp.WriteError(w, r, http.StatusBadRequest, "invalid_request", "invalid invite code")
			return
		}

		serverID, err := h.Service.Redeem(r.Context(), code, auth.UserID(r))
		if err != nil {
			log.Info("invite redeem rejected", sl.Err(err))
			httpapi.WriteError(w, r, err)
			return
		}

		render.JSON(w, r, invites.JoinResponse{
			Response: resp.OK(),
			ServerID: serverID,
		})
	}
}

func (h *InvitesHandler) SendDirect() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.invites.SendDirect"

		log := h.Log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		serverID, err := strconv.ParseInt(chi.URLParam(r, "serverId"), 10, 64)
		if err != nil || serverID <= 0 {
			resp.WriteError(w, r, http.StatusBadRequest, "invalid_request", "invalid server id")
			return
		}

		var req invites.SendDirectInviteRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			resp.WriteError(w, r, http.StatusBadRequest, "invalid_body", "invalid body")
			return
		}

		invited, err := h.Users.FindByUsername(r.Context(), req.Username)
		if err != nil {
			log.Info("direct invite target not found", sl.Err(err))
			httpapi.WriteError(w, r, err)
			return
		}

		if err := h.Service.SendDirectInvite(r.Context(), serverID, auth.UserID(r), invited.ID); err != nil {
			log.Error("failed to send direct invite", sl.Err(err))
			httpapi.WriteError(w, r, err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, resp.OK())
	}
}

func (h *InvitesHandler) Pending() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.invites.Pending"

		log := h.Log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		list, err := h.Service.PendingInvites(r.Context(), auth.UserID(r))
		if err != nil {
			log.Error("failed to list pending invites", sl.Err(err))
			httpapi.WriteError(w, r, err)
			return
		}

		render.JSON(w, r, invites.PendingInvitesResponse{
			Response: resp.OK(),
			Invites:  list,
		})
	}
}

func (h *InvitesHandler) Accept() http.HandlerFunc {
	return h.resolve("handlers.invites.Accept", func(ctx context.Context, inviteID, userID int64) error {
		return h.Service.AcceptDirectInvite(ctx, inviteID, userID)
	})
}

func (h *InvitesHandler) Decline() http.HandlerFunc {
	return h.resolve("handlers.invites.Decline", func(ctx context.Context, inviteID, userID int64) error {
		return h.Service.DeclineDirectInvite(ctx, inviteID, userID)
	})
}

func (h *InvitesHandler) resolve(op string, fn func(ctx context.Context, inviteID, userID int64) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := h.Log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		inviteID, err := strconv.ParseInt(chi.URLParam(r, "inviteId"), 10, 64)
		if err != nil || inviteID <= 0 {
			resp.WriteError(w, r, http.StatusBadRequest, "invalid_request", "invalid invite id")
			return
		}

		if err := fn(r.Context(), inviteID, auth.UserID(r)); err != nil {
			log.Info("direct invite resolution rejected", sl.Err(err))
			httpapi.WriteError(w, r, err)
			return
		}

		render.JSON(w, r, resp.OK())
	}
}
