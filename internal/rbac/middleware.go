package rbac

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/inkwell-press/inkwell/internal/platform/httpx"
)

// DecisionRecorder receives the outcome of every middleware-level
// authorization decision. Implemented by observability.Metrics.
type DecisionRecorder interface {
	RecordAuthzDecision(resource, action string, allowed bool)
}

// Middleware wires permission enforcement into chi route groups. The
// identity function is supplied by the auth guard so this package stays
// free of session concerns.
type Middleware struct {
	Engine   Engine
	Identity func(ctx context.Context) *User
	Logger   *slog.Logger
	Recorder DecisionRecorder
}

// Require ensures the current user holds act on res.
func (m Middleware) Require(res Resource, act Action) func(http.Handler) http.Handler {
	return m.guard(res, []Action{act}, func(c Checker, acts []Action) bool {
		return c.Can(res, acts[0])
	})
}

// RequireAll ensures the current user holds every listed action on res.
// With no actions the group is open: requiring nothing passes everyone.
func (m Middleware) RequireAll(res Resource, acts ...Action) func(http.Handler) http.Handler {
	if len(acts) == 0 {
		return passthrough
	}
	return m.guard(res, acts, func(c Checker, acts []Action) bool {
		return c.CanAll(res, acts...)
	})
}

// RequireAny ensures the current user holds at least one listed action.
func (m Middleware) RequireAny(res Resource, acts ...Action) func(http.Handler) http.Handler {
	if len(acts) == 0 {
		return passthrough
	}
	return m.guard(res, acts, func(c Checker, acts []Action) bool {
		return c.CanAny(res, acts...)
	})
}

func (m Middleware) guard(res Resource, acts []Action, allow func(Checker, []Action) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var user *User
			if m.Identity != nil {
				user = m.Identity(r.Context())
			}
			allowed := allow(m.Engine.For(user), acts)
			if m.Recorder != nil {
				for _, act := range acts {
					m.Recorder.RecordAuthzDecision(string(res), string(act), allowed)
				}
			}
			if !allowed {
				if m.Logger != nil {
					m.Logger.Debug("authorization denied",
						slog.String("resource", string(res)),
						slog.Any("actions", acts),
						slog.Bool("anonymous", user == nil),
					)
				}
				httpx.RespondError(w, httpx.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func passthrough(next http.Handler) http.Handler {
	return next
}
