package auth

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inkwell-press/inkwell/internal/platform/httpx"
	"github.com/inkwell-press/inkwell/internal/rbac"
)

// Account pairs the engine-facing user with its stored credential.
type Account struct {
	User         rbac.User
	PasswordHash string
}

// Repository defines persistence operations for the auth module.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*Account, error)
	UserWithRoles(ctx context.Context, id int64) (*rbac.User, error)
	CreateSession(ctx context.Context, sess Session) error
	DeleteSession(ctx context.Context, id string) error
	DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// FindByEmail fetches a user with credentials and roles by email.
func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*Account, error) {
	const query = `SELECT id, email, name, password_hash, is_active, email_verified FROM users WHERE email = $1`
	var acc Account
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&acc.User.ID,
		&acc.User.Email,
		&acc.User.Name,
		&acc.PasswordHash,
		&acc.User.Active,
		&acc.User.EmailVerified,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, err
	}
	roles, err := r.userRoles(ctx, acc.User.ID)
	if err != nil {
		return nil, err
	}
	acc.User.Roles = roles
	return &acc, nil
}

// UserWithRoles loads the full user the guard attaches to requests.
func (r *PGRepository) UserWithRoles(ctx context.Context, id int64) (*rbac.User, error) {
	const query = `SELECT id, email, name, is_active, email_verified FROM users WHERE id = $1`
	var user rbac.User
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.Active,
		&user.EmailVerified,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, err
	}
	roles, err := r.userRoles(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Roles = roles
	return &user, nil
}

func (r *PGRepository) userRoles(ctx context.Context, userID int64) ([]rbac.Role, error) {
	const query = `
		SELECT r.id, r.name, r.is_active, r.permission, r.created_at, r.updated_at
		FROM roles r
		JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = $1
		ORDER BY r.id`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []rbac.Role
	for rows.Next() {
		var role rbac.Role
		var matrix []byte
		if err := rows.Scan(&role.ID, &role.Name, &role.Active, &matrix, &role.CreatedAt, &role.UpdatedAt); err != nil {
			return nil, err
		}
		if len(matrix) > 0 {
			if err := json.Unmarshal(matrix, &role.Matrix); err != nil {
				return nil, err
			}
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return roles, nil
}

// CreateSession mirrors a login session into PostgreSQL for auditing.
func (r *PGRepository) CreateSession(ctx context.Context, sess Session) error {
	const query = `
		INSERT INTO sessions (id, user_id, ip, user_agent, created_at, expires_at)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6)`
	_, err := r.pool.Exec(ctx, query, sess.ID, sess.UserID, sess.IP, sess.UserAgent, sess.CreatedAt, sess.ExpiresAt)
	return err
}

// DeleteSession removes a session audit row.
func (r *PGRepository) DeleteSession(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	return err
}

// DeleteExpiredSessions purges audit rows past their deadline. Called by
// the background sweep job.
func (r *PGRepository) DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at < $1`, before)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

var _ Repository = (*PGRepository)(nil)
