package authHandler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/parleychat/parley/internal/auth"
	resp "github.com/parleychat/parley/internal/lib/api/response"
	"github.com/parleychat/parley/internal/lib/logger/sl"
	"github.com/parleychat/parley/internal/transport/httpapi"
	"github.com/parleychat/parley/internal/users"
)

type AuthService interface {
	Register(ctx context.Context, req users.RegisterRequest) (users.User, string, error)
	Login(ctx context.Context, req users.LoginRequest) (users.User, string, error)
}

type AuthHandler struct {
	Service  AuthService
	TokenTTL time.Duration
	Log      *slog.Logger
}

func New(service AuthService, tokenTTL time.Duration, log *slog.Logger) *AuthHandler {
	return &AuthHandler{Service: service, TokenTTL: tokenTTL, Log: log}
}

func (h *AuthHandler) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.auth.Register"

		log := h.Log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req users.RegisterRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			resp.WriteError(w, r, http.StatusBadRequest, "invalid_body", "invalid body")
			return
		}

		u, token, err := h.Service.Register(r.Context(), req)
		if err != nil {
			log.Error("failed to register user", sl.Err(err))
			httpapi.WriteError(w, r, err)
			return
		}

		h.setSession(w, token)

		log.Info("user registered", slog.Int64("user_id", u.ID))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, users.UserResponse{
			Response: resp.OK(),
			User:     u,
		})
	}
}

func (h *AuthHandler) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.auth.Login"

		log := h.Log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req users.LoginRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			resp.WriteError(w, r, http.StatusBadRequest, "invalid_body", "invalid body")
			return
		}

		u, token, err := h.Service.Login(r.Context(), req)
		if err != nil {
			log.Info("login rejected", sl.Err(err))
			httpapi.WriteError(w, r, err)
			return
		}

		h.setSession(w, token)

		render.JSON(w, r, users.UserResponse{
			Response: resp.OK(),
			User:     u,
		})
	}
}

func (h *AuthHandler) Logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{
			Name:     auth.SessionCookie,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})

		render.JSON(w, r, resp.OK())
	}
}

func (h *AuthHandler) setSession(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.TokenTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
