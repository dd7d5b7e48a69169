package serversrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/parleychat/parley/internal/channels"
	"github.com/parleychat/parley/internal/servers"
)

type Repo struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Repo {
	return &Repo{db: db}
}

// CreateServer inserts the server, makes userID its owner and creates the
// default "general" channel, all in one transaction.
func (r *Repo) CreateServer(ctx context.Context, name string, iconEmoji, iconColor *string, userID int64) (servers.Server, channels.Channel, error) {
	const op = "servers.repo.CreateServer"

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return servers.Server{}, channels.Channel{}, fmt.Errorf("%s: begin tx: %w", op, err)
	}
	defer tx.Rollback()

	var srv servers.Server
	err = tx.QueryRowxContext(
		ctx,
		`INSERT INTO servers (name, icon_emoji, icon_color)
		VALUES ($1, $2, $3)
		RETURNING id, name, icon_emoji, icon_color, created_at`,
		name, iconEmoji, iconColor,
	).StructScan(&srv)
	if err != nil {
		return servers.Server{}, channels.Channel{}, fmt.Errorf("%s: insert server: %w", op, err)
	}

	_, err = tx.ExecContext(
		ctx,
		`INSERT INTO server_members (server_id, user_id, role) VALUES ($1, $2, $3)`,
		srv.ID, userID, servers.RoleOwner,
	)
	if err != nil {
		return servers.Server{}, channels.Channel{}, fmt.Errorf("%s: insert owner: %w", op, err)
	}

	var ch channels.Channel
	err = tx.QueryRowxContext(
		ctx,
		`INSERT INTO channels (server_id, name, type)
		VALUES ($1, 'general', 'text')
		RETURNING id, server_id, name, type, created_at`,
		srv.ID,
	).StructScan(&ch)
	if err != nil {
		return servers.Server{}, channels.Channel{}, fmt.Errorf("%s: insert default channel: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return servers.Server{}, channels.Channel{}, fmt.Errorf("%s: commit tx: %w", op, err)
	}

	return srv, ch, nil
}

func (r *Repo) GetServer(ctx context.Context, serverID int64) (servers.Server, error) {
	const op = "servers.repo.GetServer"

	var srv servers.Server
	err := r.db.GetContext(ctx, &srv,
		`SELECT id, name, icon_emoji, icon_color, created_at FROM servers WHERE id = $1`, serverID)

	if errors.Is(err, sql.ErrNoRows) {
		return servers.Server{}, servers.ErrServerNotFound
	}
	if err != nil {
		return servers.Server{}, fmt.Errorf("%s: select: %w", op, err)
	}

	return srv, nil
}

func (r *Repo) ListForUser(ctx context.Context, userID int64) ([]servers.Server, error) {
	const op = "servers.repo.ListForUser"

	list := []servers.Server{}
	err := r.db.SelectContext(ctx, &list,
		`SELECT s.id, s.name, s.icon_emoji, s.icon_color, s.created_at
		FROM servers s
		JOIN server_members m ON m.server_id = s.id
		WHERE m.user_id = $1
		ORDER BY s.created_at ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: select: %w", op, err)
	}

	return list, nil
}

func (r *Repo) ListMembers(ctx context.Context, serverID int64) ([]servers.Member, error) {
	const op = "servers.repo.ListMembers"

	list := []servers.Member{}
	err := r.db.SelectContext(ctx, &list,
		`SELECT m.id, m.server_id, m.user_id, u.username, m.role
		FROM server_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.server_id = $1
		ORDER BY m.created_at ASC`, serverID)
	if err != nil {
		return nil, fmt.Errorf("%s: select: %w", op, err)
	}

	return list, nil
}

func (r *Repo) IsMember(ctx context.Context, serverID, userID int64) (bool, error) {
	const op = "servers.repo.IsMember"

	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM server_members WHERE server_id = $1 AND user_id = $2)`,
		serverID, userID)
	if err != nil {
		return false, fmt.Errorf("%s: select: %w", op, err)
	}

	return exists, nil
}

func (r *Repo) MemberRole(ctx context.Context, serverID, userID int64) (string, error) {
	const op = "servers.repo.MemberRole"

	var role string
	err := r.db.GetContext(ctx, &role,
		`SELECT role FROM server_members WHERE server_id = $1 AND user_id = $2`,
		serverID, userID)

	if errors.Is(err, sql.ErrNoRows) {
		return "", servers.ErrNotMember
	}
	if err != nil {
		return "", fmt.Errorf("%s: select: %w", op, err)
	}

	return role, nil
}

func (r *Repo) AddMember(ctx context.Context, serverID, userID int64, role string) error {
	const op = "servers.repo.AddMember"

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO server_members (server_id, user_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (server_id, user_id) DO NOTHING`,
		serverID, userID, role)
	if err != nil {
		return fmt.Errorf("%s: insert: %w", op, err)
	}

	return nil
}
