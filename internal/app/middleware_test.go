package app_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-press/inkwell/internal/app"
	"github.com/inkwell-press/inkwell/internal/auth"
	_ "github.com/inkwell-press/inkwell/internal/testing/guard"
)

func buildStack(t *testing.T, csrf *auth.CSRFManager) http.Handler {
	t.Helper()
	var handler http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	stack := app.MiddlewareStack(app.MiddlewareConfig{
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		Config:      &app.Config{AppEnv: "development"},
		CSRFManager: csrf,
	})
	for i := len(stack) - 1; i >= 0; i-- {
		handler = stack[i](handler)
	}
	return handler
}

func TestCSRFMiddlewareAllowsReads(t *testing.T) {
	handler := buildStack(t, auth.NewCSRFManager("test-secret"))

	req := httptest.NewRequest(http.MethodGet, "/books", nil)
	req.AddCookie(&http.Cookie{Name: auth.DefaultCookieName, Value: "sess-1"})
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	assert.Equal(t, http.StatusNoContent, res.Code)
}

func TestCSRFMiddlewareRejectsBadToken(t *testing.T) {
	handler := buildStack(t, auth.NewCSRFManager("test-secret"))

	req := httptest.NewRequest(http.MethodPost, "/books", nil)
	req.AddCookie(&http.Cookie{Name: auth.DefaultCookieName, Value: "sess-1"})
	req.Header.Set(auth.CSRFHeader, "forged")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	assert.Equal(t, http.StatusForbidden, res.Code)
}

func TestCSRFMiddlewareAcceptsDerivedToken(t *testing.T) {
	csrf := auth.NewCSRFManager("test-secret")
	handler := buildStack(t, csrf)

	req := httptest.NewRequest(http.MethodPost, "/books", nil)
	req.AddCookie(&http.Cookie{Name: auth.DefaultCookieName, Value: "sess-1"})
	req.Header.Set(auth.CSRFHeader, csrf.TokenFor("sess-1"))
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	assert.Equal(t, http.StatusNoContent, res.Code)
}

func TestCSRFMiddlewareIgnoresAnonymousWrites(t *testing.T) {
	handler := buildStack(t, auth.NewCSRFManager("test-secret"))

	// No session cookie: nothing to protect, the guard decides later.
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	assert.Equal(t, http.StatusNoContent, res.Code)
}

func TestInTestMode(t *testing.T) {
	app.RefreshTestMode()
	require.True(t, app.InTestMode())
}
