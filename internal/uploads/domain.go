package uploads

import (
	"database/sql"
	"time"

	response "github.com/parleychat/parley/internal/lib/api/response"
)

// KindImage is the only attachment kind currently stored.
const KindImage = "image"

type Attachment struct {
	ID        int64     `json:"id" db:"id"`
	MessageID int64     `json:"message_id" db:"message_id"`
	FilePath  string    `json:"file_path" db:"file_path"`
	FileType  string    `json:"file_type" db:"file_type"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// File is one incoming upload as submitted by the client. Size limits are
// enforced against len(Data), never against anything the client declares.
type File struct {
	Name      string
	MediaType string
	Data      []byte
}

type IngestInput struct {
	ChannelID int64
	MessageID int64
	UserID    int64
	File      File
}

// AttachmentRow is the nullable shape produced by LEFT JOINs on attachments.
type AttachmentRow struct {
	ID        sql.NullInt64  `db:"id"`
	MessageID sql.NullInt64  `db:"message_id"`
	FilePath  sql.NullString `db:"file_path"`
	FileType  sql.NullString `db:"file_type"`
	CreatedAt sql.NullTime   `db:"created_at"`
}

func NewAttachmentFromRow(row AttachmentRow) Attachment {
	return Attachment{
		ID:        row.ID.Int64,
		MessageID: row.MessageID.Int64,
		FilePath:  row.FilePath.String,
		FileType:  row.FileType.String,
		CreatedAt: row.CreatedAt.Time,
	}
}

type PresignDownloadRequest struct {
	AttachmentID int64 `json:"attachment_id"`
}

type PresignDownloadResponse struct {
	response.Response
	URL string `json:"url"`
}
