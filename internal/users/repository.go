package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/venuelink/backend/internal/models"
)

const userColumns = `id, email, email_verified, role, created_at, updated_at`

// Repository handles user persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a users repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	var role string
	if err := row.Scan(&u.ID, &u.Email, &u.EmailVerified, &role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.Role = models.Role(role)
	return &u, nil
}

// GetByID returns a user by ID, or nil if none exists.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return u, nil
}

// GetByEmail returns a user by email, or nil if none exists.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// CreateIfAbsent inserts a verified user. When another request already
// created the email, nothing is written and (nil, nil) is returned.
func (r *Repository) CreateIfAbsent(ctx context.Context, email string, role models.Role) (*models.User, error) {
	const q = `INSERT INTO users (email, role, email_verified)
		VALUES ($1, $2, true)
		ON CONFLICT (email) DO NOTHING
		RETURNING ` + userColumns
	u, err := scanUser(r.pool.QueryRow(ctx, q, email, string(role)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}
