package invitesrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/parleychat/parley/internal/invites"
	"github.com/parleychat/parley/internal/servers"
)

const uniqueViolation = "23505"

type Repo struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) CreateInvite(ctx context.Context, code string, serverID, createdBy int64, maxUses int) (invites.Invite, error) {
	const op = "invites.repo.CreateInvite"

	var inv invites.Invite
	err := r.db.QueryRowxContext(
		ctx,
		`INSERT INTO invites (code, server_id, created_by_user_id, max_uses)
		VALUES ($1, $2, $3, $4)
		RETURNING id, code, server_id, created_by_user_id, max_uses, uses, expires_at, used_by_user_id, used_at, created_at`,
		code, serverID, createdBy, maxUses,
	).StructScan(&inv)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return invites.Invite{}, invites.ErrCodeTaken
		}
		return invites.Invite{}, fmt.Errorf("%s: insert: %w", op, err)
	}

	return inv, nil
}

func (r *Repo) GetByCode(ctx context.Context, code string) (invites.Invite, error) {
	const op = "invites.repo.GetByCode"

	var inv invites.Invite
	err := r.db.GetContext(ctx, &inv,
		`SELECT id, code, server_id, created_by_user_id, max_uses, uses, expires_at, used_by_user_id, used_at, created_at
		FROM invites WHERE code = $1`, code)

	if errors.Is(err, sql.ErrNoRows) {
		return invites.Invite{}, invites.ErrInviteNotFound
	}
	if err != nil {
		return invites.Invite{}, fmt.Errorf("%s: select: %w", op, err)
	}

	return inv, nil
}

// Redeem adds the user to the invite's server and consumes one use.
func (r *Repo) Redeem(ctx context.Context, inviteID, serverID, userID int64) error {
	const op = "invites.repo.Redeem"

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin tx: %w", op, err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO server_members (server_id, user_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (server_id, user_id) DO NOTHING`,
		serverID, userID, servers.RoleMember)
	if err != nil {
		return fmt.Errorf("%s: insert member: %w", op, err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE invites
		SET uses = uses + 1, used_by_user_id = $2, used_at = now()
		WHERE id = $1`,
		inviteID, userID)
	if err != nil {
		return fmt.Errorf("%s: update invite: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit tx: %w", op, err)
	}

	return nil
}

func (r *Repo) CreateDirectInvite(ctx context.Context, serverID, invitedUserID, invitedBy int64) error {
	const op = "invites.repo.CreateDirectInvite"

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO direct_invites (server_id, invited_user_id, invited_by_user_id, status)
		VALUES ($1, $2, $3, 'pending')`,
		serverID, invitedUserID, invitedBy)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return invites.ErrAlreadyInvited
		}
		return fmt.Errorf("%s: insert: %w", op, err)
	}

	return nil
}

func (r *Repo) GetDirectInvite(ctx context.Context, id int64) (invites.DirectInvite, error) {
	const op = "invites.repo.GetDirectInvite"

	var inv invites.DirectInvite
	err := r.db.GetContext(ctx, &inv,
		`SELECT d.id, d.server_id, s.name AS server_name, d.invited_user_id,
			d.invited_by_user_id, u.username AS invited_by_username, d.status, d.created_at
		FROM direct_invites d
		JOIN servers s ON s.id = d.server_id
		JOIN users u ON u.id = d.invited_by_user_id
		WHERE d.id = $1`, id)

	if errors.Is(err, sql.ErrNoRows) {
		return invites.DirectInvite{}, invites.ErrInviteNotFound
	}
	if err != nil {
		return invites.DirectInvite{}, fmt.Errorf("%s: select: %w", op, err)
	}

	return inv, nil
}

func (r *Repo) ListPendingForUser(ctx context.Context, userID int64) ([]invites.DirectInvite, error) {
	const op = "invites.repo.ListPendingForUser"

	list := []invites.DirectInvite{}
	err := r.db.SelectContext(ctx, &list,
		`SELECT d.id, d.server_id, s.name AS server_name, d.invited_user_id,
			d.invited_by_user_id, u.username AS invited_by_username, d.status, d.created_at
		FROM direct_invites d
		JOIN servers s ON s.id = d.server_id
		JOIN users u ON u.id = d.invited_by_user_id
		WHERE d.invited_user_id = $1 AND d.status = 'pending'
		ORDER BY d.created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: select: %w", op, err)
	}

	return list, nil
}

// Resolve marks a pending direct invite accepted or declined; acceptance also
// joins the server.
func (r *Repo) Resolve(ctx context.Context, inviteID, serverID, userID int64, status string) error {
	const op = "invites.repo.Resolve"

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin tx: %w", op, err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE direct_invites SET status = $2 WHERE id = $1 AND status = 'pending'`,
		inviteID, status)
	if err != nil {
		return fmt.Errorf("%s: update: %w", op, err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return invites.ErrInviteNotFound
	}

	if status == invites.StatusAccepted {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO server_members (server_id, user_id, role)
			VALUES ($1, $2, $3)
			ON CONFLICT (server_id, user_id) DO NOTHING`,
			serverID, userID, servers.RoleMember)
		if err != nil {
			return fmt.Errorf("%s: insert member: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit tx: %w", op, err)
	}

	return nil
}
