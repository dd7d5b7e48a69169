package profileHandler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/parleychat/parley/internal/auth"
	resp "github.com/parleychat/parley/internal/lib/api/response"
	"github.com/parleychat/parley/internal/lib/logger/sl"
	"github.com/parleychat/parley/internal/transport/httpapi"
	"github.com/parleychat/parley/internal/users"
)

type ProfileService interface {
	Profile(ctx context.Context, userID int64) (users.User, error)
	UpdateProfile(ctx context.Context, userID int64, req users.UpdateProfileRequest) (users.User, error)
	ChangePassword(ctx context.Context, userID int64, req users.ChangePasswordRequest) error
}

type ProfileHandler struct {
	Service ProfileService
	Log     *slog.Logger
}

func New(service ProfileService, log *slog.Logger) *ProfileHandler {
	return &ProfileHandler{Service: service, Log: log}
}

func (h *ProfileHandler) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.profile.Get"

		log := h.Log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		u, err := h.Service.Profile(r.Context(), auth.UserID(r))
		if err != nil {
			log.Error("failed to load profile", sl.Err(err))
			httpapi.WriteError(w, r, err)
			return
		}

		render.JSON(w, r, users.UserResponse{
			Response: resp.OK(),
			User:     u,
		})
	}
}

func (h *ProfileHandler) Update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.profile.Update"

		log := h.Log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req users.UpdateProfileRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			resp.WriteError(w, r, http.StatusBadRequest, "invalid_body", "invalid body")
			return
		}

		u, err := h.Service.UpdateProfile(r.Context(), auth.UserID(r), req)
		if err != nil {
			log.Error("failed to update profile", sl.Err(err))
			httpapi.WriteError(w, r, err)
			return
		}

		render.JSON(w, r, users.UserResponse{
			Response: resp.OK(),
			User:     u,
		})
	}
}

func (h *ProfileHandler) ChangePassword() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.profile.ChangePassword"

		log := h.Log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req users.ChangePasswordRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			resp.WriteError(w, r, http.StatusBadRequest, "invalid_body", "invalid body")
			return
		}

		if err := h.Service.ChangePassword(r.Context(), auth.UserID(r), req); err != nil {
			log.Error("failed to change password", sl.Err(err))
			httpapi.WriteError(w, r, err)
			return
		}

		render.JSON(w, r, resp.OK())
	}
}
