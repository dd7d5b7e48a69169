package messages

import (
	"time"

	response "github.com/parleychat/parley/internal/lib/api/response"
	"github.com/parleychat/parley/internal/uploads"
)

type Message struct {
	ID           int64                `json:"id" db:"id"`
	ChannelID    int64                `json:"channel_id" db:"channel_id"`
	SenderUserID int64                `json:"user_id" db:"sender_user_id"`
	Text         string               `json:"text" db:"text"`
	CreatedAt    time.Time            `json:"created_at" db:"created_at"`
	Attachments  []uploads.Attachment `json:"attachments"`
}

// MessageRow is one row of the list query: message columns plus one
// LEFT JOINed attachment.
type MessageRow struct {
	ID           int64     `db:"id"`
	ChannelID    int64     `db:"channel_id"`
	SenderUserID int64     `db:"sender_user_id"`
	Text         string    `db:"text"`
	CreatedAt    time.Time `db:"created_at"`

	Attachment uploads.AttachmentRow `db:"attachment"`
}

// ComposeInput is the full send-message request: text plus the files that
// should become attachments of the new message.
type ComposeInput struct {
	ChannelID int64
	UserID    int64
	Text      string
	Files     []uploads.File
}

type CreateMessageResponse struct {
	response.Response
	Message Message `json:"message"`
}

type GetMessagesResponse struct {
	response.Response
	Messages []Message `json:"messages"`
}
