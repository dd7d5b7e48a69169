package usersrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/parleychat/parley/internal/users"
)

const uniqueViolation = "23505"

type Repo struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) CreateUser(ctx context.Context, email, username, passwordHash string) (users.User, error) {
	const op = "users.repo.CreateUser"

	var u users.User
	err := r.db.QueryRowxContext(
		ctx,
		`INSERT INTO users (email, username, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, email, username, theme_preference, notification_preference, created_at`,
		email, username, passwordHash,
	).StructScan(&u)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return users.User{}, users.ErrUserAlreadyExists
		}
		return users.User{}, fmt.Errorf("%s: insert user: %w", op, err)
	}

	return u, nil
}

func (r *Repo) GetByID(ctx context.Context, id int64) (users.User, error) {
	const op = "users.repo.GetByID"

	var u users.User
	err := r.db.GetContext(ctx, &u,
		`SELECT id, email, username, theme_preference, notification_preference, created_at
		FROM users WHERE id = $1`, id)

	if errors.Is(err, sql.ErrNoRows) {
		return users.User{}, users.ErrUserNotFound
	}
	if err != nil {
		return users.User{}, fmt.Errorf("%s: select: %w", op, err)
	}

	return u, nil
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (users.User, string, error) {
	const op = "users.repo.GetByEmail"

	var row struct {
		users.User
		PasswordHash string `db:"password_hash"`
	}
	err := r.db.GetContext(ctx, &row,
		`SELECT id, email, username, theme_preference, notification_preference, created_at, password_hash
		FROM users WHERE email = $1`, email)

	if errors.Is(err, sql.ErrNoRows) {
		return users.User{}, "", users.ErrUserNotFound
	}
	if err != nil {
		return users.User{}, "", fmt.Errorf("%s: select: %w", op, err)
	}

	return row.User, row.PasswordHash, nil
}

func (r *Repo) GetPasswordHash(ctx context.Context, id int64) (string, error) {
	const op = "users.repo.GetPasswordHash"

	var hash string
	err := r.db.GetContext(ctx, &hash, `SELECT password_hash FROM users WHERE id = $1`, id)

	if errors.Is(err, sql.ErrNoRows) {
		return "", users.ErrUserNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%s: select: %w", op, err)
	}

	return hash, nil
}

func (r *Repo) UpdateProfile(ctx context.Context, id int64, username, theme, notification *string) (users.User, error) {
	const op = "users.repo.UpdateProfile"

	var u users.User
	err := r.db.QueryRowxContext(
		ctx,
		`UPDATE users SET
			username = COALESCE($2, username),
			theme_preference = COALESCE($3, theme_preference),
			notification_preference = COALESCE($4, notification_preference),
			updated_at = now()
		WHERE id = $1
		RETURNING id, email, username, theme_preference, notification_preference, created_at`,
		id, username, theme, notification,
	).StructScan(&u)

	if errors.Is(err, sql.ErrNoRows) {
		return users.User{}, users.ErrUserNotFound
	}
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return users.User{}, users.ErrUsernameTaken
		}
		return users.User{}, fmt.Errorf("%s: update: %w", op, err)
	}

	return u, nil
}

func (r *Repo) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	const op = "users.repo.UpdatePasswordHash"

	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`, id, hash)
	if err != nil {
		return fmt.Errorf("%s: update: %w", op, err)
	}

	if rows, _ := res.RowsAffected(); rows == 0 {
		return users.ErrUserNotFound
	}

	return nil
}

func (r *Repo) GetByUsername(ctx context.Context, username string) (users.User, error) {
	const op = "users.repo.GetByUsername"

	var u users.User
	err := r.db.GetContext(ctx, &u,
		`SELECT id, email, username, theme_preference, notification_preference, created_at
		FROM users WHERE username = $1`, username)

	if errors.Is(err, sql.ErrNoRows) {
		return users.User{}, users.ErrUserNotFound
	}
	if err != nil {
		return users.User{}, fmt.Errorf("%s: select: %w", op, err)
	}

	return u, nil
}
