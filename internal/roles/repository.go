package roles

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inkwell-press/inkwell/internal/platform/httpx"
	"github.com/inkwell-press/inkwell/internal/rbac"
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

// ListRoles returns all roles ordered by name.
func (r *Repository) ListRoles(ctx context.Context) ([]Role, error) {
	const query = `SELECT id, name, is_active, permission, created_at, updated_at FROM roles ORDER BY name`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return roles, nil
}

// GetRole fetches a role by ID.
func (r *Repository) GetRole(ctx context.Context, id int64) (Role, error) {
	const query = `SELECT id, name, is_active, permission, created_at, updated_at FROM roles WHERE id = $1`
	role, err := scanRole(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Role{}, httpx.ErrNotFound
		}
		return Role{}, err
	}
	return role, nil
}

// CreateRole inserts a new role with its permission matrix.
func (r *Repository) CreateRole(ctx context.Context, name string, active bool, matrix rbac.Matrix) (Role, error) {
	payload, err := json.Marshal(matrix)
	if err != nil {
		return Role{}, err
	}
	const query = `
		INSERT INTO roles (name, is_active, permission, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())
		RETURNING id, name, is_active, permission, created_at, updated_at`
	role, err := scanRole(r.pool.QueryRow(ctx, query, name, active, payload))
	if err != nil {
		return Role{}, mapPGError(err)
	}
	return role, nil
}

// UpdateRole replaces name, flag and matrix of an existing role.
func (r *Repository) UpdateRole(ctx context.Context, id int64, name string, active bool, matrix rbac.Matrix) (Role, error) {
	payload, err := json.Marshal(matrix)
	if err != nil {
		return Role{}, err
	}
	const query = `
		UPDATE roles SET name = $2, is_active = $3, permission = $4, updated_at = now()
		WHERE id = $1
		RETURNING id, name, is_active, permission, created_at, updated_at`
	role, err := scanRole(r.pool.QueryRow(ctx, query, id, name, active, payload))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Role{}, httpx.ErrNotFound
		}
		return Role{}, mapPGError(err)
	}
	return role, nil
}

// DeleteRole removes a role and its user assignments.
func (r *Repository) DeleteRole(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRole(row rowScanner) (Role, error) {
	var role Role
	var matrix []byte
	if err := row.Scan(&role.ID, &role.Name, &role.Active, &matrix, &role.CreatedAt, &role.UpdatedAt); err != nil {
		return Role{}, err
	}
	if len(matrix) > 0 {
		if err := json.Unmarshal(matrix, &role.Matrix); err != nil {
			return Role{}, err
		}
	}
	return role, nil
}

func mapPGError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: role name already taken", httpx.ErrDuplicate)
	}
	return err
}
