package rbac

import "sync/atomic"

// UserSource resolves the current user at check time. The guard supplies
// a fixed user on the server path; interactive clients read from a
// session-synced store instead. Both feed the same checker.
type UserSource interface {
	CurrentUser() *User
}

// staticSource pins a checker to one already-resolved user.
type staticSource struct {
	user *User
}

func (s staticSource) CurrentUser() *User { return s.user }

// Checker binds the engine to a user source so call sites do not thread
// the user through every call. All three predicates fail closed when the
// source yields no user.
type Checker struct {
	engine Engine
	source UserSource
}

// For binds the engine to an explicit user. Pass nil for anonymous; every
// check then returns false.
func (e Engine) For(u *User) Checker {
	return Checker{engine: e, source: staticSource{user: u}}
}

// Bind binds the engine to a dynamic user source, typically a
// CurrentUserStore kept in sync with the login session.
func (e Engine) Bind(src UserSource) Checker {
	if src == nil {
		src = staticSource{}
	}
	return Checker{engine: e, source: src}
}

// Can reports whether the bound user may perform act on res.
func (c Checker) Can(res Resource, act Action) bool {
	return c.engine.Can(c.source.CurrentUser(), res, act)
}

// CanAll reports whether the bound user may perform every listed action.
func (c Checker) CanAll(res Resource, acts ...Action) bool {
	return c.engine.CanAll(c.source.CurrentUser(), res, acts...)
}

// CanAny reports whether the bound user may perform any listed action.
func (c Checker) CanAny(res Resource, acts ...Action) bool {
	return c.engine.CanAny(c.source.CurrentUser(), res, acts...)
}

// User exposes the bound user for callers that need identity alongside
// the decision (for example response affordances).
func (c Checker) User() *User {
	return c.source.CurrentUser()
}

// CurrentUserStore holds the process-wide current user for long-lived
// interactive clients. One writer (the session sync step) swaps the
// value wholesale after login, logout, or role refresh; checkers only
// read. Partial mutation of the stored user is not supported.
type CurrentUserStore struct {
	user atomic.Pointer[User]
}

// NewCurrentUserStore returns an empty store: anonymous until the first
// sync.
func NewCurrentUserStore() *CurrentUserStore {
	return &CurrentUserStore{}
}

// Sync replaces the stored user. Pass nil on logout.
func (s *CurrentUserStore) Sync(u *User) {
	s.user.Store(u)
}

// CurrentUser implements UserSource.
func (s *CurrentUserStore) CurrentUser() *User {
	if s == nil {
		return nil
	}
	return s.user.Load()
}
