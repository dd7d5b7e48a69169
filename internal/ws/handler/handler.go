package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/parleychat/parley/internal/auth"
	"github.com/parleychat/parley/internal/lib/logger/sl"
	"github.com/parleychat/parley/internal/ws/hub"
)

type ClientMsg struct {
	Type       string  `json:"type"`
	ChannelIDs []int64 `json:"channel_ids"`
}

// ChannelAccess answers whether a user may subscribe to a channel.
type ChannelAccess interface {
	ChannelServer(ctx context.Context, channelID int64) (int64, error)
	IsMember(ctx context.Context, serverID, userID int64) (bool, error)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func WSHandler(h *hub.Hub, access ChannelAccess, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		const op = "handlers.ws.WSHandler"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error("ws upgrade error", sl.Err(err))
			return
		}
		defer conn.Close()

		userID := auth.UserID(r)

		hc := hub.NewConnection(conn, userID)
		go hc.WritePump()

		h.Register(hc)
		defer h.Unregister(hc)

		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		conn.SetPongHandler(func(string) error {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			return nil
		})

		hello, _ := json.Marshal(map[string]any{"type": "hello", "ok": true})
		hc.Send(hello)

		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				log.Error("ws read error", sl.Err(err))
				return
			}

			var msg ClientMsg
			if err := json.Unmarshal(data, &msg); err != nil {
				log.Error("ws bad json", sl.Err(err))
				continue
			}

			switch msg.Type {
			case "subscribe":
				allowed := allowedChannels(r.Context(), access, userID, msg.ChannelIDs, log)
				if len(allowed) > 0 {
					h.Subscribe(hc, allowed)
				}
			default:
				log.Info("ws unknown message type", slog.String("message type", msg.Type))
			}
		}
	}
}

func allowedChannels(ctx context.Context, access ChannelAccess, userID int64, channelIDs []int64, log *slog.Logger) []int64 {
	allowed := make([]int64, 0, len(channelIDs))

	for _, channelID := range channelIDs {
		serverID, err := access.ChannelServer(ctx, channelID)
		if err != nil {
			log.Info("ws subscribe skipped", slog.Int64("channel_id", channelID), sl.Err(err))
			continue
		}

		member, err := access.IsMember(ctx, serverID, userID)
		if err != nil {
			log.Error("ws membership check failed", sl.Err(err))
			continue
		}
		if !member {
			continue
		}

		allowed = append(allowed, channelID)
	}

	return allowed
}
