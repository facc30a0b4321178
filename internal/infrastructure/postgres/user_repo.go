package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/whisperbox/whisperbox/internal/domain"
)

const userColumns = `id, username, email, password_hash, verify_code,
	verify_code_expiry, is_verified, is_accepting_messages, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (
			username, email, password_hash, verify_code, verify_code_expiry,
			is_verified, is_accepting_messages
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + userColumns

	row := r.pool.QueryRow(ctx, query,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.VerifyCode,
		user.VerifyCodeExpiry,
		user.IsVerified,
		user.IsAcceptingMessages,
	)

	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if pgErr.ConstraintName == "users_username_key" {
				return nil, domain.ErrUsernameTaken
			}
			return nil, domain.ErrEmailTaken
		}
		return nil, err
	}
	return created, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	return scanUser(row)
}

func (r *UserRepository) VerifiedUsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE username = $1 AND is_verified)`,
		username,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("verified username exists: %w", err)
	}
	return exists, nil
}

func (r *UserRepository) ResetPending(ctx context.Context, id, passwordHash, verifyCode string, expiry time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users
		SET    password_hash      = $2,
		       verify_code        = $3,
		       verify_code_expiry = $4,
		       updated_at         = NOW()
		WHERE id = $1 AND NOT is_verified`,
		id, passwordHash, verifyCode, expiry)
	if err != nil {
		return fmt.Errorf("reset pending user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) MarkVerified(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET is_verified = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) SetAcceptingMessages(ctx context.Context, id string, accepting bool) (bool, error) {
	var current bool
	err := r.pool.QueryRow(ctx, `
		UPDATE users
		SET    is_accepting_messages = $2, updated_at = NOW()
		WHERE  id = $1
		RETURNING is_accepting_messages`,
		id, accepting,
	).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, domain.ErrUserNotFound
		}
		return false, fmt.Errorf("set accepting messages: %w", err)
	}
	return current, nil
}

func (r *UserRepository) DeleteStaleUnverified(ctx context.Context, cutoff time.Time) (int, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM users WHERE NOT is_verified AND verify_code_expiry < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete stale unverified: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.VerifyCode,
		&u.VerifyCodeExpiry, &u.IsVerified, &u.IsAcceptingMessages,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}
