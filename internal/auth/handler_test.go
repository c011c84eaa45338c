package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/inkwell-press/inkwell/internal/auth"
	"github.com/inkwell-press/inkwell/internal/platform/httpx"
	"github.com/inkwell-press/inkwell/internal/rbac"
)

type stubRepo struct {
	account        *auth.Account
	sessionsMade   int
	sessionsGone   int
	failAuditWrite bool
}

func (s *stubRepo) FindByEmail(ctx context.Context, email string) (*auth.Account, error) {
	if s.account == nil || s.account.User.Email != email {
		return nil, httpx.ErrNotFound
	}
	return s.account, nil
}

func (s *stubRepo) UserWithRoles(ctx context.Context, id int64) (*rbac.User, error) {
	if s.account == nil || s.account.User.ID != id {
		return nil, httpx.ErrNotFound
	}
	user := s.account.User
	return &user, nil
}

func (s *stubRepo) CreateSession(ctx context.Context, sess auth.Session) error {
	if s.failAuditWrite {
		return context.DeadlineExceeded
	}
	s.sessionsMade++
	return nil
}

func (s *stubRepo) DeleteSession(ctx context.Context, id string) error {
	s.sessionsGone++
	return nil
}

func (s *stubRepo) DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

func newAuthFixture(t *testing.T, repo *stubRepo) (*auth.Handler, *auth.Store) {
	t.Helper()
	store, _ := newSessionStore(t, time.Hour)
	service := auth.NewService(repo, store)
	guard := auth.NewGuard(store, repo, nil, "session_id")
	handler := auth.NewHandler(nil, service, guard, auth.NewCSRFManager("csrf-secret"), false)
	return handler, store
}

func editorAccount(t *testing.T) *auth.Account {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return &auth.Account{
		User: rbac.User{
			ID:            1,
			Email:         "editor@inkwell.test",
			Name:          "Editor",
			Active:        true,
			EmailVerified: true,
			Roles: []rbac.Role{{
				ID:     10,
				Name:   "editor",
				Active: true,
				Matrix: rbac.Matrix{rbac.ResourceBook: {
					rbac.ActionCreate:  true,
					rbac.ActionViewOne: true,
				}},
			}},
		},
		PasswordHash: string(hashed),
	}
}

func mountAuth(handler *auth.Handler) http.Handler {
	r := chi.NewRouter()
	r.Route("/auth", handler.MountRoutes)
	return r
}

func TestLoginSuccess(t *testing.T) {
	repo := &stubRepo{account: editorAccount(t)}
	handler, _ := newAuthFixture(t, repo)
	srv := mountAuth(handler)

	body := `{"email":"editor@inkwell.test","password":"correct-horse"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	res := httptest.NewRecorder()
	srv.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	if repo.sessionsMade != 1 {
		t.Fatalf("expected one audit session row, got %d", repo.sessionsMade)
	}

	var sessionCookie *http.Cookie
	for _, c := range res.Result().Cookies() {
		if c.Name == "session_id" {
			sessionCookie = c
		}
	}
	if sessionCookie == nil || sessionCookie.Value == "" {
		t.Fatalf("expected session cookie to be set")
	}
	if !strings.Contains(res.Body.String(), `"permissions"`) {
		t.Fatalf("expected permissions affordances in body: %s", res.Body.String())
	}
	if !strings.Contains(res.Body.String(), `"book"`) {
		t.Fatalf("expected book permissions in body: %s", res.Body.String())
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	repo := &stubRepo{account: editorAccount(t)}
	handler, _ := newAuthFixture(t, repo)
	srv := mountAuth(handler)

	body := `{"email":"editor@inkwell.test","password":"wrong-password"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	res := httptest.NewRecorder()
	srv.ServeHTTP(res, req)

	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.Code)
	}
	if !strings.Contains(res.Body.String(), "INVALID_CREDENTIALS") {
		t.Fatalf("expected cause tag in body: %s", res.Body.String())
	}
	if repo.sessionsMade != 0 {
		t.Fatalf("no session should be created on failed login")
	}
}

func TestLoginValidation(t *testing.T) {
	handler, _ := newAuthFixture(t, &stubRepo{})
	srv := mountAuth(handler)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"nope","password":"x"}`))
	res := httptest.NewRecorder()
	srv.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestMeRequiresSession(t *testing.T) {
	handler, _ := newAuthFixture(t, &stubRepo{account: editorAccount(t)})
	srv := mountAuth(handler)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	res := httptest.NewRecorder()
	srv.ServeHTTP(res, req)

	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.Code)
	}
	if !strings.Contains(res.Body.String(), "NOT_ACCESS_SESSION") {
		t.Fatalf("expected NOT_ACCESS_SESSION cause: %s", res.Body.String())
	}
}

func TestLogoutClearsSession(t *testing.T) {
	repo := &stubRepo{account: editorAccount(t)}
	handler, store := newAuthFixture(t, repo)
	srv := mountAuth(handler)

	sess, err := store.Create(context.Background(), 1, "", "")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: sess.ID})
	res := httptest.NewRecorder()
	srv.ServeHTTP(res, req)

	if res.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", res.Code)
	}
	if repo.sessionsGone != 1 {
		t.Fatalf("expected audit row deletion")
	}
	if _, err := store.Validate(context.Background(), sess.ID); err == nil {
		t.Fatalf("session should be gone after logout")
	}
}
