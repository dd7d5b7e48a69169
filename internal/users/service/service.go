package usersservice

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/parleychat/parley/internal/auth"
	"github.com/parleychat/parley/internal/users"
)

var validate = validator.New()

type Repo interface {
	CreateUser(ctx context.Context, email, username, passwordHash string) (users.User, error)
	GetByID(ctx context.Context, id int64) (users.User, error)
	GetByEmail(ctx context.Context, email string) (users.User, string, error)
	GetByUsername(ctx context.Context, username string) (users.User, error)
	GetPasswordHash(ctx context.Context, id int64) (string, error)
	UpdateProfile(ctx context.Context, id int64, username, theme, notification *string) (users.User, error)
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
}

type Service struct {
	repo   Repo
	tokens *auth.TokenManager
}

func New(repo Repo, tokens *auth.TokenManager) *Service {
	return &Service{repo: repo, tokens: tokens}
}

func (s *Service) Register(ctx context.Context, req users.RegisterRequest) (users.User, string, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Username = strings.TrimSpace(req.Username)

	if err := validate.Struct(req); err != nil {
		return users.User{}, "", users.ErrInvalidInput
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return users.User{}, "", err
	}

	u, err := s.repo.CreateUser(ctx, req.Email, req.Username, hash)
	if err != nil {
		return users.User{}, "", err
	}

	token, err := s.tokens.Generate(u.ID)
	if err != nil {
		return users.User{}, "", err
	}

	return u, token, nil
}

func (s *Service) Login(ctx context.Context, req users.LoginRequest) (users.User, string, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if err := validate.Struct(req); err != nil {
		return users.User{}, "", users.ErrInvalidCredentials
	}

	u, hash, err := s.repo.GetByEmail(ctx, req.Email)
	if errors.Is(err, users.ErrUserNotFound) {
		return users.User{}, "", users.ErrInvalidCredentials
	}
	if err != nil {
		return users.User{}, "", err
	}

	ok, err := auth.ComparePassword(req.Password, hash)
	if err != nil || !ok {
		return users.User{}, "", users.ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(u.ID)
	if err != nil {
		return users.User{}, "", err
	}

	return u, token, nil
}

func (s *Service) Profile(ctx context.Context, userID int64) (users.User, error) {
	return s.repo.GetByID(ctx, userID)
}

func (s *Service) FindByUsername(ctx context.Context, username string) (users.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return users.User{}, users.ErrUserNotFound
	}
	return s.repo.GetByUsername(ctx, username)
}

func (s *Service) UpdateProfile(ctx context.Context, userID int64, req users.UpdateProfileRequest) (users.User, error) {
	if req.Username != nil {
		trimmed := strings.TrimSpace(*req.Username)
		if len(trimmed) < 3 || len(trimmed) > 32 {
			return users.User{}, users.ErrInvalidInput
		}
		req.Username = &trimmed
	}

	if req.ThemePreference != nil {
		switch *req.ThemePreference {
		case users.ThemeDark, users.ThemeRetro:
		default:
			return users.User{}, users.ErrInvalidPreference
		}
	}

	if req.NotificationPreference != nil {
		switch *req.NotificationPreference {
		case users.NotifyPopup, users.NotifyBadgeOnly, users.NotifyNone:
		default:
			return users.User{}, users.ErrInvalidPreference
		}
	}

	return s.repo.UpdateProfile(ctx, userID, req.Username, req.ThemePreference, req.NotificationPreference)
}

func (s *Service) ChangePassword(ctx context.Context, userID int64, req users.ChangePasswordRequest) error {
	if err := validate.Struct(req); err != nil {
		return users.ErrInvalidInput
	}

	hash, err := s.repo.GetPasswordHash(ctx, userID)
	if err != nil {
		return err
	}

	ok, err := auth.ComparePassword(req.CurrentPassword, hash)
	if err != nil || !ok {
		return users.ErrInvalidCredentials
	}

	newHash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	return s.repo.UpdatePasswordHash(ctx, userID, newHash)
}
