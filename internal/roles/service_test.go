package roles_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-press/inkwell/internal/platform/httpx"
	"github.com/inkwell-press/inkwell/internal/rbac"
	"github.com/inkwell-press/inkwell/internal/roles"
)

type stubRepo struct {
	created []roles.Role
	nextID  int64
}

func (s *stubRepo) ListRoles(ctx context.Context) ([]roles.Role, error) {
	return s.created, nil
}

func (s *stubRepo) GetRole(ctx context.Context, id int64) (roles.Role, error) {
	for _, role := range s.created {
		if role.ID == id {
			return role, nil
		}
	}
	return roles.Role{}, httpx.ErrNotFound
}

func (s *stubRepo) CreateRole(ctx context.Context, name string, active bool, matrix rbac.Matrix) (roles.Role, error) {
	s.nextID++
	role := roles.Role{ID: s.nextID, Name: name, Active: active, Matrix: matrix}
	s.created = append(s.created, role)
	return role, nil
}

func (s *stubRepo) UpdateRole(ctx context.Context, id int64, name string, active bool, matrix rbac.Matrix) (roles.Role, error) {
	for i, role := range s.created {
		if role.ID == id {
			s.created[i] = roles.Role{ID: id, Name: name, Active: active, Matrix: matrix}
			return s.created[i], nil
		}
	}
	return roles.Role{}, httpx.ErrNotFound
}

func (s *stubRepo) DeleteRole(ctx context.Context, id int64) error {
	for i, role := range s.created {
		if role.ID == id {
			s.created = append(s.created[:i], s.created[i+1:]...)
			return nil
		}
	}
	return httpx.ErrNotFound
}

func TestCreateRoleFillsMatrix(t *testing.T) {
	svc := roles.NewService(&stubRepo{})

	submitted := rbac.Matrix{
		rbac.ResourceBook: {
			rbac.ActionCreate:   true,
			rbac.ActionUpdate:   true,
			rbac.ActionViewOne:  true,
			rbac.ActionViewMany: true,
			rbac.ActionDelete:   false,
			rbac.ActionActive:   false,
			rbac.ActionFeatured: false,
		},
	}
	role, err := svc.CreateRole(context.Background(), "editor", true, submitted)
	require.NoError(t, err)

	// The stored matrix covers every resource, not just the submitted one.
	require.NoError(t, role.Matrix.Validate())
	for _, res := range rbac.Resources() {
		_, ok := role.Matrix[res]
		assert.True(t, ok, "resource %s should be present", res)
	}
	assert.True(t, role.Matrix.Allows(rbac.ResourceBook, rbac.ActionCreate))
	assert.False(t, role.Matrix.Allows(rbac.ResourceOrder, rbac.ActionViewMany))
}

func TestCreateRoleRejectsPartialMatrix(t *testing.T) {
	svc := roles.NewService(&stubRepo{})

	_, err := svc.CreateRole(context.Background(), "broken", true, rbac.Matrix{
		rbac.ResourceBook: {rbac.ActionCreate: true},
	})
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestCreateRoleRejectsUnknownResource(t *testing.T) {
	svc := roles.NewService(&stubRepo{})

	_, err := svc.CreateRole(context.Background(), "broken", true, rbac.Matrix{
		rbac.Resource("warehouse"): {rbac.ActionCreate: true},
	})
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestCreateRoleRequiresName(t *testing.T) {
	svc := roles.NewService(&stubRepo{})
	_, err := svc.CreateRole(context.Background(), "   ", true, rbac.EmptyMatrix())
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestUpdateRoleNormalizes(t *testing.T) {
	repo := &stubRepo{}
	svc := roles.NewService(repo)

	role, err := svc.CreateRole(context.Background(), "editor", true, rbac.EmptyMatrix())
	require.NoError(t, err)

	updated, err := svc.UpdateRole(context.Background(), role.ID, "senior editor", true, rbac.EmptyMatrix())
	require.NoError(t, err)
	assert.Equal(t, "senior editor", updated.Name)
	require.NoError(t, updated.Matrix.Validate())
}
