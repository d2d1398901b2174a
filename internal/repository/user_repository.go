package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/luizhmmachado/school-diary/internal/model"
)

// ErrNotFound is returned when a keyed lookup matches nothing.
var ErrNotFound = errors.New("not found")

// UserRepository handles user account data access.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `user_id, email, name, picture, COALESCE(google_id, ''), auth_provider, COALESCE(password_hash, ''), created_at, updated_at`

func scanUser(row pgx.Row) (*model.User, error) {
	u := &model.User{}
	err := row.Scan(&u.UserID, &u.Email, &u.Name, &u.Picture, &u.GoogleID,
		&u.AuthProvider, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

// GetByID retrieves a user by its ID.
func (r *UserRepository) GetByID(ctx context.Context, userID string) (*model.User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE user_id = $1`, userID))
}

// GetByEmail retrieves a user by email (secondary index lookup).
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

// GetByGoogleID retrieves a user by Google subject ID (secondary index lookup).
func (r *UserRepository) GetByGoogleID(ctx context.Context, googleID string) (*model.User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE google_id = $1`, googleID))
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO users (user_id, email, name, picture, google_id, auth_provider, password_hash)
		 VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, NULLIF($7, ''))
		 RETURNING created_at, updated_at`,
		u.UserID, u.Email, u.Name, u.Picture, u.GoogleID, u.AuthProvider, u.PasswordHash,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
}

// UpdateProfile refreshes the display name and picture (Google re-login).
func (r *UserRepository) UpdateProfile(ctx context.Context, u *model.User) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE users SET name = $1, picture = $2, updated_at = CURRENT_TIMESTAMP
		 WHERE user_id = $3`,
		u.Name, u.Picture, u.UserID,
	)
	return err
}
