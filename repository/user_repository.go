package repository

import (
	"context"
	"fmt"
	"time"

	"oversight/database"
	"oversight/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const userColumns = `user_id, username, email, password_hash, full_name, phone, role, region, entity_id,
	is_active, last_login, created_at, updated_at`

// UserRepository implements the UserRepository interface
type UserRepository struct {
	q queryable
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{q: db.Pool}
}

// newUserRepositoryWithTx creates a new user repository with a transaction
func newUserRepositoryWithTx(tx queryable) *UserRepository {
	return &UserRepository{q: tx}
}

func scanUser(row scanner) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.FullName,
		&u.Phone,
		&u.Role,
		&u.Region,
		&u.EntityID,
		&u.IsActive,
		&u.LastLogin,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByID retrieves a user by their ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`

	user, err := scanUser(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", id, err)
	}
	return user, nil
}

// GetByEmail looks an account up case-insensitively
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`

	user, err := scanUser(r.q.QueryRow(ctx, query, email))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

// ExistsByEmailOrUsername reports whether either identifier is taken
func (r *UserRepository) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM users
			WHERE LOWER(email) = LOWER($1) OR (username IS NOT NULL AND username = $2)
		)
	`

	var exists bool
	if err := r.q.QueryRow(ctx, query, email, username).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check existing user: %w", err)
	}
	return exists, nil
}

// Create inserts a new account
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, email, password_hash, full_name, phone, role, region, entity_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + userColumns

	created, err := scanUser(r.q.QueryRow(ctx, query,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.FullName,
		user.Phone,
		user.Role,
		user.Region,
		user.EntityID,
	))
	if err != nil {
		return fmt.Errorf("failed to create user %s: %w", user.Email, err)
	}

	*user = *created
	return nil
}

// UpdateLastLogin stamps a successful login
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	result, err := r.q.Exec(ctx, `UPDATE users SET last_login = $1 WHERE user_id = $2`, at, id)
	if err != nil {
		return fmt.Errorf("failed to update last login for user %s: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s not found", id)
	}
	return nil
}

// List returns one page of accounts, newest first
func (r *UserRepository) List(ctx context.Context, page models.PageRequest) ([]*models.User, int, error) {
	total, err := queryCount(ctx, r.q, psql.Select("COUNT(*)").From("users"))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	users, err := queryList(ctx, r.q, psql.Select(userColumns).
		From("users").
		OrderBy("created_at DESC").
		Limit(uint64(page.Limit)).
		Offset(uint64(page.Offset())), scanUser)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

// FilterExisting returns the subset of ids that belong to accounts
func (r *UserRepository) FilterExisting(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	existing := []uuid.UUID{}
	if len(ids) == 0 {
		return existing, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = id.String()
	}

	rows, err := r.q.Query(ctx, `SELECT user_id FROM users WHERE user_id = ANY($1::uuid[])`, keys)
	if err != nil {
		return nil, fmt.Errorf("failed to filter existing users: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		existing = append(existing, id)
	}
	return existing, rows.Err()
}
