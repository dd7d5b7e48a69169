package servers

import (
	"time"

	channels "github.com/parleychat/parley/internal/channels"
	response "github.com/parleychat/parley/internal/lib/api/response"
)

const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleMember = "member"
)

type Server struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	IconEmoji *string   `json:"icon_emoji" db:"icon_emoji"`
	IconColor *string   `json:"icon_color" db:"icon_color"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type Member struct {
	ID       int64  `json:"id" db:"id"`
	ServerID int64  `json:"server_id" db:"server_id"`
	UserID   int64  `json:"user_id" db:"user_id"`
	Username string `json:"username" db:"username"`
	Role     string `json:"role" db:"role"`
}

type CreateServerRequest struct {
	Name      string  `json:"name"`
	IconEmoji *string `json:"icon_emoji"`
	IconColor *string `json:"icon_color"`
}

type CreateServerResponse struct {
	response.Response
	Server         Server           `json:"server"`
	DefaultChannel channels.Channel `json:"default_channel"`
}

type GetServersResponse struct {
	response.Response
	Servers []Server `json:"servers"`
}

type GetServerResponse struct {
	response.Response
	Server  Server   `json:"server"`
	Members []Member `json:"members"`
}
