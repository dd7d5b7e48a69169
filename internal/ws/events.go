package ws

import (
	"encoding/json"

	"github.com/google/uuid"
)

const (
	MessageNew = "message.new"
)

// ServerEvent is one realtime notification. EventID lets clients drop
// duplicates after a reconnect replay.
type ServerEvent struct {
	EventID   string          `json:"event_id"`
	Type      string          `json:"type"`
	ChannelID int64           `json:"channel_id"`
	Payload   json.RawMessage `json:"payload"`
}

func NewEvent(channelID int64, eventType string, payload any) (ServerEvent, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return ServerEvent{}, err
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return ServerEvent{}, err
	}

	return ServerEvent{
		EventID:   id.String(),
		Type:      eventType,
		ChannelID: channelID,
		Payload:   raw,
	}, nil
}
