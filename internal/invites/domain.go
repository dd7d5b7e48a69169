package invites

import (
	"time"

	response "github.com/parleychat/parley/internal/lib/api/response"
)

const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusDeclined = "declined"
)

const DefaultMaxUses = 10

type Invite struct {
	ID              int64      `json:"id" db:"id"`
	Code            string     `json:"code" db:"code"`
	ServerID        int64      `json:"server_id" db:"server_id"`
	CreatedByUserID int64      `json:"created_by_user_id" db:"created_by_user_id"`
	MaxUses         int        `json:"max_uses" db:"max_uses"`
	Uses            int        `json:"uses" db:"uses"`
	ExpiresAt       *time.Time `json:"expires_at" db:"expires_at"`
	UsedByUserID    *int64     `json:"used_by_user_id" db:"used_by_user_id"`
	UsedAt          *time.Time `json:"used_at" db:"used_at"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
}

type DirectInvite struct {
	ID                int64     `json:"id" db:"id"`
	ServerID          int64     `json:"server_id" db:"server_id"`
	ServerName        string    `json:"server_name" db:"server_name"`
	InvitedUserID     int64     `json:"invited_user_id" db:"invited_user_id"`
	InvitedByUserID   int64     `json:"invited_by_user_id" db:"invited_by_user_id"`
	InvitedByUsername string    `json:"invited_by_username" db:"invited_by_username"`
	Status            string    `json:"status" db:"status"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
}

type CreateInviteRequest struct {
	MaxUses int `json:"max_uses"`
}

type CreateInviteResponse struct {
	response.Response
	Code    string `json:"code"`
	MaxUses int    `json:"max_uses"`
}

type SendDirectInviteRequest struct {
	Username string `json:"username"`
}

type JoinResponse struct {
	response.Response
	ServerID int64 `json:"server_id"`
}

type PendingInvitesResponse struct {
	response.Response
	Invites []DirectInvite `json:"invites"`
}
