package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/usecase-portal/internal/domain"
)

// UserRepository is the credential store. The rest of the portal only ever
// touches accounts through these operations.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	SetResetToken(ctx context.Context, email string, token *string) error
	UpdatePassword(ctx context.Context, email string, passwordHash string) error
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (email, password_hash, role, license)
        VALUES ($1, $2, $3, $4)
        RETURNING id`

	return r.pool.QueryRow(ctx, query,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.License,
	).Scan(&user.ID)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `
        SELECT id, email, password_hash, role, license, reset_token
        FROM users WHERE email=$1`

	var user domain.User
	if err := r.pool.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.License,
		&user.ResetToken,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) SetResetToken(ctx context.Context, email string, token *string) error {
	const query = `UPDATE users SET reset_token=$1 WHERE email=$2`

	cmd, err := r.pool.Exec(ctx, query, token, email)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// UpdatePassword replaces the hash and clears any outstanding reset token in
// one statement.
func (r *userRepository) UpdatePassword(ctx context.Context, email string, passwordHash string) error {
	const query = `UPDATE users SET password_hash=$1, reset_token=NULL WHERE email=$2`

	cmd, err := r.pool.Exec(ctx, query, passwordHash, email)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
