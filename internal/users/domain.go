package users

import (
	"time"

	response "github.com/parleychat/parley/internal/lib/api/response"
)

const (
	ThemeDark  = "dark"
	ThemeRetro = "retro"
)

const (
	NotifyPopup     = "popup"
	NotifyBadgeOnly = "badge_only"
	NotifyNone      = "none"
)

type User struct {
	ID                     int64     `json:"id" db:"id"`
	Email                  string    `json:"email" db:"email"`
	Username               string    `json:"username" db:"username"`
	ThemePreference        string    `json:"theme_preference" db:"theme_preference"`
	NotificationPreference string    `json:"notification_preference" db:"notification_preference"`
	CreatedAt              time.Time `json:"created_at" db:"created_at"`
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=32"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	Username               *string `json:"username"`
	ThemePreference        *string `json:"theme_preference"`
	NotificationPreference *string `json:"notification_preference"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
}

type UserResponse struct {
	response.Response
	User User `json:"user"`
}
