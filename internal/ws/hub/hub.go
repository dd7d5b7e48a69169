package hub

import (
	"sync"

	"github.com/gorilla/websocket"
)

type Connection struct {
	conn       *websocket.Conn
	send       chan []byte
	channelIDs map[int64]struct{}
	userID     int64
	closeOnce  sync.Once
}

func (c *Connection) UserID() int64 { return c.userID }

type SubscribeCmd struct {
	c          *Connection
	channelIDs []int64
}

type BroadcastCmd struct {
	ChannelID   int64
	Payload     []byte
	ExcludeUser int64
}

type Hub struct {
	register   chan *Connection
	unregister chan *Connection
	subscribe  chan SubscribeCmd
	broadcast  chan BroadcastCmd
	channels   map[int64]map[*Connection]struct{}
}

func NewConnection(conn *websocket.Conn, userID int64) *Connection {
	return &Connection{
		conn:       conn,
		send:       make(chan []byte, 128),
		channelIDs: make(map[int64]struct{}),
		userID:     userID,
	}
}

func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Connection, 64),
		unregister: make(chan *Connection, 64),
		subscribe:  make(chan SubscribeCmd, 64),
		broadcast:  make(chan BroadcastCmd, 256),
		channels:   make(map[int64]map[*Connection]struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			_ = c

		case c := <-h.unregister:
			for channelID := range c.channelIDs {
				room := h.channels[channelID]
				if room == nil {
					continue
				}
				delete(room, c)
				if len(room) == 0 {
					delete(h.channels, channelID)
				}
			}
			c.CloseSend()

		case cmd := <-h.subscribe:
			for _, channelID := range cmd.channelIDs {
				room := h.channels[channelID]
				if room == nil {
					room = make(map[*Connection]struct{})
					h.channels[channelID] = room
				}
				room[cmd.c] = struct{}{}
				cmd.c.channelIDs[channelID] = struct{}{}
			}

		case b := <-h.broadcast:
			h.deliver(b)
		}
	}
}

func (h *Hub) deliver(b BroadcastCmd) {
	room := h.channels[b.ChannelID]
	if room == nil {
		return
	}

	for c := range room {
		if b.ExcludeUser != 0 && c.userID == b.ExcludeUser {
			continue
		}
		c.Send(b.Payload)
	}
}

func (h *Hub) Register(c *Connection) {
	h.register <- c
}

func (h *Hub) Unregister(c *Connection) {
	h.unregister <- c
}

func (h *Hub) Subscribe(c *Connection, channelIDs []int64) {
	h.subscribe <- SubscribeCmd{
		c:          c,
		channelIDs: channelIDs,
	}
}

func (h *Hub) Broadcast(channelID int64, payload []byte) {
	h.broadcast <- BroadcastCmd{
		ChannelID: channelID,
		Payload:   payload,
	}
}

func (h *Hub) BroadcastExceptUser(channelID int64, payload []byte, excludeUserID int64) {
	h.broadcast <- BroadcastCmd{
		ChannelID:   channelID,
		Payload:     payload,
		ExcludeUser: excludeUserID,
	}
}

func (c *Connection) Send(b []byte) {
	select {
	case c.send <- b:
	default:
	}
}

func (c *Connection) CloseSend() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}
