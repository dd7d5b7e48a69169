package messagesrepo

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/parleychat/parley/internal/messages"
	"github.com/parleychat/parley/internal/uploads"
)

type Repo struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Repo {
	return &Repo{db: db}
}

// InsertMessage persists one message row. Attachments are linked afterwards,
// one insert per ingested file; the message is the durable event the realtime
// layer observes.
func (r *Repo) InsertMessage(ctx context.Context, channelID, userID int64, text string) (messages.Message, error) {
	const op = "messages.repo.InsertMessage"

	var msg messages.Message
	err := r.db.QueryRowxContext(
		ctx,
		`INSERT INTO messages (channel_id, sender_user_id, text)
		VALUES ($1, $2, $3)
		RETURNING id, channel_id, sender_user_id, text, created_at`,
		channelID, userID, text,
	).StructScan(&msg)

	if err != nil {
		return messages.Message{}, fmt.Errorf("%s: insert message: %w", op, err)
	}

	msg.Attachments = []uploads.Attachment{}

	return msg, nil
}

func (r *Repo) ListForChannel(ctx context.Context, channelID int64) ([]messages.Message, error) {
	const op = "messages.repo.ListForChannel"

	rows, err := r.db.QueryxContext(ctx, `
		SELECT
			m.id, m.channel_id, m.sender_user_id, m.text, m.created_at,

			a.id AS "attachment.id",
			a.message_id AS "attachment.message_id",
			a.file_path AS "attachment.file_path",
			a.file_type AS "attachment.file_type",
			a.created_at AS "attachment.created_at"
		FROM messages m
		LEFT JOIN attachments a ON a.message_id = m.id
		WHERE m.channel_id = $1
		ORDER BY m.created_at ASC, m.id ASC
	`, channelID)
	if err != nil {
		return nil, fmt.Errorf("%s: query: %w", op, err)
	}
	defer rows.Close()

	messagesByID := map[int64]*messages.Message{}
	order := make([]int64, 0)

	seenAtt := map[int64]map[int64]struct{}{}

	for rows.Next() {
		var r messages.MessageRow
		if err := rows.StructScan(&r); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}

		m := messagesByID[r.ID]
		if m == nil {
			m = &messages.Message{
				ID:           r.ID,
				ChannelID:    r.ChannelID,
				SenderUserID: r.SenderUserID,
				Text:         r.Text,
				CreatedAt:    r.CreatedAt,
				Attachments:  []uploads.Attachment{},
			}
			messagesByID[r.ID] = m
			order = append(order, r.ID)
		}

		if r.Attachment.ID.Valid {
			if seenAtt[r.ID] == nil {
				seenAtt[r.ID] = map[int64]struct{}{}
			}
			aid := r.Attachment.ID.Int64
			if _, ok := seenAtt[r.ID][aid]; !ok {
				seenAtt[r.ID][aid] = struct{}{}
				m.Attachments = append(m.Attachments, uploads.NewAttachmentFromRow(r.Attachment))
			}
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}

	out := make([]messages.Message, 0, len(order))
	for _, id := range order {
		out = append(out, *messagesByID[id])
	}
	return out, nil
}
