package ws

import "github.com/parleychat/parley/internal/messages"

type MessageNewPayload struct {
	Message messages.Message `json:"message"`
}
