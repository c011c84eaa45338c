package rbac_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inkwell-press/inkwell/internal/rbac"
)

func TestRenderGranted(t *testing.T) {
	checker := rbac.NewEngine().For(editorUser())
	out, ok := rbac.Render(checker, rbac.ResourceBook, rbac.ActionCreate, func() string {
		return "new-book-button"
	})
	assert.True(t, ok)
	assert.Equal(t, "new-book-button", out)
}

func TestRenderDeniedIsSilent(t *testing.T) {
	checker := rbac.NewEngine().For(editorUser())
	called := false
	out, ok := rbac.Render(checker, rbac.ResourceBook, rbac.ActionDelete, func() string {
		called = true
		return "delete-button"
	})
	assert.False(t, ok)
	assert.Empty(t, out)
	assert.False(t, called, "producer must not run on deny")
}

func TestRenderAllAndAny(t *testing.T) {
	checker := rbac.NewEngine().For(editorUser())

	_, ok := rbac.RenderAll(checker, rbac.ResourceBook, []rbac.Action{rbac.ActionCreate, rbac.ActionUpdate}, func() int { return 1 })
	assert.True(t, ok)

	_, ok = rbac.RenderAll(checker, rbac.ResourceBook, []rbac.Action{rbac.ActionCreate, rbac.ActionDelete}, func() int { return 1 })
	assert.False(t, ok)

	_, ok = rbac.RenderAny(checker, rbac.ResourceBook, []rbac.Action{rbac.ActionDelete, rbac.ActionViewOne}, func() int { return 1 })
	assert.True(t, ok)

	_, ok = rbac.RenderAny(checker, rbac.ResourceBook, nil, func() int { return 1 })
	assert.False(t, ok)
}

func TestAllowedSubset(t *testing.T) {
	checker := rbac.NewEngine().For(editorUser())
	allowed := rbac.Allowed(checker, rbac.ResourceBook)
	assert.ElementsMatch(t, []rbac.Action{
		rbac.ActionCreate, rbac.ActionUpdate, rbac.ActionViewOne, rbac.ActionViewMany,
	}, allowed)

	assert.Empty(t, rbac.Allowed(checker, rbac.ResourceOrder))
	assert.Empty(t, rbac.Allowed(rbac.NewEngine().For(nil), rbac.ResourceBook))
}
