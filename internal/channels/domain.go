package channels

import (
	"time"

	response "github.com/parleychat/parley/internal/lib/api/response"
)

const (
	TypeText = "text"
)

type Channel struct {
	ID        int64     `json:"id" db:"id"`
	ServerID  int64     `json:"server_id" db:"server_id"`
	Name      string    `json:"name" db:"name"`
	Type      string    `json:"type" db:"type"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type CreateChannelRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type CreateChannelResponse struct {
	response.Response
	Channel Channel `json:"channel"`
}

type GetChannelsResponse struct {
	response.Response
	Channels []Channel `json:"channels"`
}
