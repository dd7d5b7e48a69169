package channelsrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/parleychat/parley/internal/channels"
)

type Repo struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) CreateChannel(ctx context.Context, serverID int64, name, chType string) (channels.Channel, error) {
	const op = "channels.repo.CreateChannel"

	var ch channels.Channel
	err := r.db.QueryRowxContext(
		ctx,
		`INSERT INTO channels (server_id, name, type)
		VALUES ($1, $2, $3)
		RETURNING id, server_id, name, type, created_at`,
		serverID, name, chType,
	).StructScan(&ch)
	if err != nil {
		return channels.Channel{}, fmt.Errorf("%s: insert: %w", op, err)
	}

	return ch, nil
}

func (r *Repo) GetChannel(ctx context.Context, channelID int64) (channels.Channel, error) {
	const op = "channels.repo.GetChannel"

	var ch channels.Channel
	err := r.db.GetContext(ctx, &ch,
		`SELECT id, server_id, name, type, created_at FROM channels WHERE id = $1`, channelID)

	if errors.Is(err, sql.ErrNoRows) {
		return channels.Channel{}, channels.ErrChannelNotFound
	}
	if err != nil {
		return channels.Channel{}, fmt.Errorf("%s: select: %w", op, err)
	}

	return ch, nil
}

// ChannelServer resolves a channel to its owning server.
func (r *Repo) ChannelServer(ctx context.Context, channelID int64) (int64, error) {
	const op = "channels.repo.ChannelServer"

	var serverID int64
	err := r.db.GetContext(ctx, &serverID,
		`SELECT server_id FROM channels WHERE id = $1`, channelID)

	if errors.Is(err, sql.ErrNoRows) {
		return 0, channels.ErrChannelNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("%s: select: %w", op, err)
	}

	return serverID, nil
}

func (r *Repo) ListForServer(ctx context.Context, serverID int64) ([]channels.Channel, error) {
	const op = "channels.repo.ListForServer"

	list := []channels.Channel{}
	err := r.db.SelectContext(ctx, &list,
		`SELECT id, server_id, name, type, created_at
		FROM channels
		WHERE server_id = $1
		ORDER BY created_at ASC`, serverID)
	if err != nil {
		return nil, fmt.Errorf("%s: select: %w", op, err)
	}

	return list, nil
}
