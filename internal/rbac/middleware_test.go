package rbac_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inkwell-press/inkwell/internal/rbac"
)

type userCtxKey struct{}

func identityFrom(ctx context.Context) *rbac.User {
	u, _ := ctx.Value(userCtxKey{}).(*rbac.User)
	return u
}

type recordedDecision struct {
	resource, action string
	allowed          bool
}

type stubRecorder struct {
	decisions []recordedDecision
}

func (r *stubRecorder) RecordAuthzDecision(resource, action string, allowed bool) {
	r.decisions = append(r.decisions, recordedDecision{resource, action, allowed})
}

func serveWith(t *testing.T, mw func(http.Handler) http.Handler, user *rbac.User) *httptest.ResponseRecorder {
	t.Helper()
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(http.MethodGet, "/books", nil)
	if user != nil {
		req = req.WithContext(context.WithValue(req.Context(), userCtxKey{}, user))
	}
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	return res
}

func TestRequireAllowsGrantedUser(t *testing.T) {
	m := rbac.Middleware{Identity: identityFrom}
	res := serveWith(t, m.Require(rbac.ResourceBook, rbac.ActionViewMany), editorUser())
	assert.Equal(t, http.StatusOK, res.Code)
}

func TestRequireRejectsAnonymous(t *testing.T) {
	m := rbac.Middleware{Identity: identityFrom}
	res := serveWith(t, m.Require(rbac.ResourceBook, rbac.ActionViewMany), nil)
	assert.Equal(t, http.StatusForbidden, res.Code)
	assert.Contains(t, res.Body.String(), "Forbidden")
}

func TestRequireAllRejectsPartialGrant(t *testing.T) {
	m := rbac.Middleware{Identity: identityFrom}
	res := serveWith(t, m.RequireAll(rbac.ResourceBook, rbac.ActionCreate, rbac.ActionDelete), editorUser())
	assert.Equal(t, http.StatusForbidden, res.Code)
}

func TestRequireAnyAllowsSingleGrant(t *testing.T) {
	m := rbac.Middleware{Identity: identityFrom}
	res := serveWith(t, m.RequireAny(rbac.ResourceBook, rbac.ActionDelete, rbac.ActionUpdate), editorUser())
	assert.Equal(t, http.StatusOK, res.Code)
}

func TestRequireEmptyActionListPasses(t *testing.T) {
	m := rbac.Middleware{Identity: identityFrom}
	res := serveWith(t, m.RequireAll(rbac.ResourceBook), nil)
	assert.Equal(t, http.StatusOK, res.Code)
}

func TestRequireRecordsDecisions(t *testing.T) {
	rec := &stubRecorder{}
	m := rbac.Middleware{Identity: identityFrom, Recorder: rec}

	serveWith(t, m.Require(rbac.ResourceBook, rbac.ActionViewMany), editorUser())
	serveWith(t, m.Require(rbac.ResourceBook, rbac.ActionDelete), editorUser())

	assert.Equal(t, []recordedDecision{
		{"book", "viewMany", true},
		{"book", "delete", false},
	}, rec.decisions)
}
