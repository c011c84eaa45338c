package roles

import (
	"context"
	"fmt"
	"strings"

	"github.com/inkwell-press/inkwell/internal/platform/httpx"
	"github.com/inkwell-press/inkwell/internal/rbac"
)

// RepositoryPort defines data access methods for roles.
type RepositoryPort interface {
	ListRoles(ctx context.Context) ([]Role, error)
	GetRole(ctx context.Context, id int64) (Role, error)
	CreateRole(ctx context.Context, name string, active bool, matrix rbac.Matrix) (Role, error)
	UpdateRole(ctx context.Context, id int64, name string, active bool, matrix rbac.Matrix) (Role, error)
	DeleteRole(ctx context.Context, id int64) error
}

// Service handles role business logic. Every write path validates the
// matrix against the schema so stored roles are always well formed; the
// engine's missing-key deny stays a backstop, not the contract.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// ListRoles returns all roles.
func (s *Service) ListRoles(ctx context.Context) ([]Role, error) {
	return s.repo.ListRoles(ctx)
}

// GetRole fetches a role by ID.
func (s *Service) GetRole(ctx context.Context, id int64) (Role, error) {
	return s.repo.GetRole(ctx, id)
}

// CreateRole validates and inserts a new role. Resources absent from the
// submitted matrix are filled in fully denied.
func (s *Service) CreateRole(ctx context.Context, name string, active bool, matrix rbac.Matrix) (Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Role{}, fmt.Errorf("%w: role name required", httpx.ErrValidation)
	}
	matrix, err := normalizeMatrix(matrix)
	if err != nil {
		return Role{}, err
	}
	return s.repo.CreateRole(ctx, name, active, matrix)
}

// UpdateRole validates and updates an existing role.
func (s *Service) UpdateRole(ctx context.Context, id int64, name string, active bool, matrix rbac.Matrix) (Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Role{}, fmt.Errorf("%w: role name required", httpx.ErrValidation)
	}
	matrix, err := normalizeMatrix(matrix)
	if err != nil {
		return Role{}, err
	}
	return s.repo.UpdateRole(ctx, id, name, active, matrix)
}

// DeleteRole removes a role by ID.
func (s *Service) DeleteRole(ctx context.Context, id int64) error {
	return s.repo.DeleteRole(ctx, id)
}

// normalizeMatrix completes the submitted matrix to the full schema and
// rejects unknown or partial keys.
func normalizeMatrix(matrix rbac.Matrix) (rbac.Matrix, error) {
	if err := matrix.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", httpx.ErrValidation, err)
	}
	full := rbac.EmptyMatrix()
	for res, set := range matrix {
		for act, granted := range set {
			full[res][act] = granted
		}
	}
	return full, nil
}
