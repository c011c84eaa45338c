package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/inkwell-press/inkwell/internal/platform/httpx"
	"github.com/inkwell-press/inkwell/internal/rbac"
)

// DefaultCookieName is the session cookie used when none is configured.
const DefaultCookieName = "session_id"

// UserLoader resolves the full user, roles and matrices included, for a
// validated session. Implemented by the PostgreSQL repository.
type UserLoader interface {
	UserWithRoles(ctx context.Context, id int64) (*rbac.User, error)
}

// GuardOptions tune per-route guard behaviour. The zero value is the
// strict default: reject on any failure, require an active account and a
// verified email. Fields are phrased as opt-outs so forgetting to set
// them can only make a route stricter, never more open.
type GuardOptions struct {
	// SafeAuth tolerates every resolution failure and lets the request
	// proceed with an anonymous identity instead of rejecting it.
	SafeAuth bool
	// AllowInactive skips the account-active check.
	AllowInactive bool
	// AllowUnverified skips the email-verified check.
	AllowUnverified bool
}

// Guard resolves the session cookie into a request identity. Each
// request is evaluated once, statelessly: cookie lookup, session
// validation, user load, account-flag checks, then either a typed
// rejection or an Identity attached to the context.
type Guard struct {
	sessions   *Store
	users      UserLoader
	logger     *slog.Logger
	cookieName string
}

// NewGuard constructs a Guard.
func NewGuard(sessions *Store, users UserLoader, logger *slog.Logger, cookieName string) *Guard {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{sessions: sessions, users: users, logger: logger, cookieName: cookieName}
}

// CookieName returns the cookie the guard reads session IDs from.
func (g *Guard) CookieName() string {
	return g.cookieName
}

// Require returns middleware enforcing the strict defaults.
func (g *Guard) Require() func(http.Handler) http.Handler {
	return g.Middleware(GuardOptions{})
}

// Optional returns middleware in safe-auth mode: failures downgrade to
// an anonymous identity and downstream permission checks decide.
func (g *Guard) Optional() func(http.Handler) http.Handler {
	return g.Middleware(GuardOptions{SafeAuth: true})
}

// Middleware builds the guard middleware for the given options.
func (g *Guard) Middleware(opts GuardOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := g.Resolve(r, opts)
			if err != nil {
				g.reject(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), id)))
		})
	}
}

// Resolve runs the per-request state machine. In safe-auth mode every
// failure collapses to an anonymous identity and a nil error.
func (g *Guard) Resolve(r *http.Request, opts GuardOptions) (Identity, error) {
	id, err := g.resolve(r, opts)
	if err != nil && opts.SafeAuth {
		return Identity{}, nil
	}
	return id, err
}

func (g *Guard) resolve(r *http.Request, opts GuardOptions) (Identity, error) {
	ctx := r.Context()

	var sessionID string
	if cookie, err := r.Cookie(g.cookieName); err == nil {
		sessionID = cookie.Value
	}
	if sessionID == "" {
		return Identity{}, ErrNoAccessSession
	}

	sess, err := g.sessions.Validate(ctx, sessionID)
	if err != nil {
		var authErr *Error
		if errors.As(err, &authErr) {
			return Identity{}, authErr
		}
		g.logger.Error("session validation failed", slog.Any("error", err))
		return Identity{}, ErrInvalidSession
	}

	user, err := g.users.UserWithRoles(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return Identity{}, ErrInvalidSession
		}
		g.logger.Error("load session user", slog.Any("error", err), slog.Int64("user_id", sess.UserID))
		return Identity{}, ErrInvalidSession
	}

	if !opts.AllowInactive && !user.Active {
		return Identity{}, ErrUserDeactivated
	}
	if !opts.AllowUnverified && !user.EmailVerified {
		return Identity{}, ErrEmailNotVerified
	}

	return Identity{User: user, Session: &sess}, nil
}

func (g *Guard) reject(w http.ResponseWriter, err error) {
	var authErr *Error
	if errors.As(err, &authErr) {
		title := http.StatusText(authErr.Status)
		httpx.ProblemWithCause(w, authErr.Status, title, authErr.Message, string(authErr.Cause))
		return
	}
	httpx.RespondError(w, err)
}
