package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inkwell-press/inkwell/internal/platform/db"
	"github.com/inkwell-press/inkwell/internal/platform/httpx"
)

const uniqueViolation = "23505"

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListUsers returns all users with their role assignments.
func (r *Repository) ListUsers(ctx context.Context) ([]User, error) {
	const query = `
		SELECT u.id, u.email, u.name, u.is_active, u.email_verified, u.created_at, u.updated_at,
		       COALESCE(array_agg(ur.role_id) FILTER (WHERE ur.role_id IS NOT NULL), '{}')
		FROM users u
		LEFT JOIN user_roles ur ON ur.user_id = u.id
		GROUP BY u.id
		ORDER BY u.id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var user User
		if err := rows.Scan(&user.ID, &user.Email, &user.Name, &user.Active, &user.EmailVerified,
			&user.CreatedAt, &user.UpdatedAt, &user.RoleIDs); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// GetUser fetches one user.
func (r *Repository) GetUser(ctx context.Context, id int64) (User, error) {
	const query = `
		SELECT u.id, u.email, u.name, u.is_active, u.email_verified, u.created_at, u.updated_at,
		       COALESCE(array_agg(ur.role_id) FILTER (WHERE ur.role_id IS NOT NULL), '{}')
		FROM users u
		LEFT JOIN user_roles ur ON ur.user_id = u.id
		WHERE u.id = $1
		GROUP BY u.id`
	var user User
	err := r.pool.QueryRow(ctx, query, id).Scan(&user.ID, &user.Email, &user.Name, &user.Active,
		&user.EmailVerified, &user.CreatedAt, &user.UpdatedAt, &user.RoleIDs)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, httpx.ErrNotFound
		}
		return User{}, err
	}
	return user, nil
}

// CreateUser inserts a new, unverified account.
func (r *Repository) CreateUser(ctx context.Context, email, name, passwordHash string) (User, error) {
	const query = `
		INSERT INTO users (email, name, password_hash, is_active, email_verified, created_at, updated_at)
		VALUES ($1, $2, $3, true, false, now(), now())
		RETURNING id, email, name, is_active, email_verified, created_at, updated_at`
	var user User
	err := r.pool.QueryRow(ctx, query, email, name, passwordHash).Scan(&user.ID, &user.Email,
		&user.Name, &user.Active, &user.EmailVerified, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return User{}, fmt.Errorf("%w: email already registered", httpx.ErrDuplicate)
		}
		return User{}, err
	}
	user.RoleIDs = []int64{}
	return user, nil
}

// SetActive flips the account-active flag.
func (r *Repository) SetActive(ctx context.Context, id int64, active bool) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET is_active = $2, updated_at = now() WHERE id = $1`, id, active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// AssignRole links a role to a user. Re-assignment is a no-op. The
// existence check and the insert share a transaction so a concurrent
// role delete cannot leave a dangling link.
func (r *Repository) AssignRole(ctx context.Context, userID, roleID int64) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM roles WHERE id = $1)`, roleID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%w: role %d", httpx.ErrNotFound, roleID)
		}
		const query = `
			INSERT INTO user_roles (user_id, role_id, created_at)
			VALUES ($1, $2, now())
			ON CONFLICT (user_id, role_id) DO NOTHING`
		_, err := tx.Exec(ctx, query, userID, roleID)
		return err
	})
}

// RemoveRole unlinks a role from a user.
func (r *Repository) RemoveRole(ctx context.Context, userID, roleID int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM user_roles WHERE user_id = $1 AND role_id = $2`, userID, roleID)
	return err
}
