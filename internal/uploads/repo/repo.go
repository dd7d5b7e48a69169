package uploadsrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/parleychat/parley/internal/uploads"
)

type Repo struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) MessageInChannel(ctx context.Context, messageID, channelID int64) (bool, error) {
	const op = "uploads.repo.MessageInChannel"

	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM messages WHERE id = $1 AND channel_id = $2)`,
		messageID, channelID)
	if err != nil {
		return false, fmt.Errorf("%s: select: %w", op, err)
	}

	return exists, nil
}

func (r *Repo) CountForMessage(ctx context.Context, messageID int64) (int, error) {
	const op = "uploads.repo.CountForMessage"

	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM attachments WHERE message_id = $1`, messageID)
	if err != nil {
		return 0, fmt.Errorf("%s: select: %w", op, err)
	}

	return count, nil
}

func (r *Repo) Insert(ctx context.Context, messageID int64, filePath, fileType string) (uploads.Attachment, error) {
	const op = "uploads.repo.Insert"

	var att uploads.Attachment
	err := r.db.QueryRowxContext(
		ctx,
		`INSERT INTO attachments (message_id, file_path, file_type)
		VALUES ($1, $2, $3)
		RETURNING id, message_id, file_path, file_type, created_at`,
		messageID, filePath, fileType,
	).StructScan(&att)
	if err != nil {
		return uploads.Attachment{}, fmt.Errorf("%s: insert: %w", op, err)
	}

	return att, nil
}

// GetAttachmentServer loads an attachment together with the server owning it,
// for membership checks on download.
func (r *Repo) GetAttachmentServer(ctx context.Context, attachmentID int64) (uploads.Attachment, int64, error) {
	const op = "uploads.repo.GetAttachmentServer"

	var row struct {
		uploads.Attachment
		ServerID int64 `db:"server_id"`
	}
	err := r.db.GetContext(ctx, &row,
		`SELECT a.id, a.message_id, a.file_path, a.file_type, a.created_at, c.server_id
		FROM attachments a
		JOIN messages m ON m.id = a.message_id
		JOIN channels c ON c.id = m.channel_id
		WHERE a.id = $1`, attachmentID)

	if errors.Is(err, sql.ErrNoRows) {
		return uploads.Attachment{}, 0, uploads.ErrAttachmentNotFound
	}
	if err != nil {
		return uploads.Attachment{}, 0, fmt.Errorf("%s: select: %w", op, err)
	}

	return row.Attachment, row.ServerID, nil
}
