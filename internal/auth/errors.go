package auth

import "net/http"

// Cause tags an authentication or authorization failure so clients can
// branch without parsing messages (redirect to login vs. "session
// expired" vs. "verify your email").
type Cause string

// Failure causes surfaced by the guard.
const (
	CauseNoAccessSession  Cause = "NOT_ACCESS_SESSION"
	CauseInvalidSession   Cause = "INVALID_SESSION"
	CauseExpiredSession   Cause = "EXPIRED_SESSION"
	CauseUserDeactivated  Cause = "USER_DEACTIVATED"
	CauseEmailNotVerified Cause = "EMAIL_NOT_VERIFIED"
)

// Error is a typed guard failure. Status is the HTTP status the
// surrounding handler should answer with.
type Error struct {
	Cause   Cause
	Message string
	Status  int
}

func (e *Error) Error() string { return e.Message }

// Guard failure values. Compared with errors.Is, so keep them singular.
var (
	ErrNoAccessSession  = &Error{Cause: CauseNoAccessSession, Message: "no access session", Status: http.StatusUnauthorized}
	ErrInvalidSession   = &Error{Cause: CauseInvalidSession, Message: "invalid session", Status: http.StatusUnauthorized}
	ErrExpiredSession   = &Error{Cause: CauseExpiredSession, Message: "session expired", Status: http.StatusUnauthorized}
	ErrUserDeactivated  = &Error{Cause: CauseUserDeactivated, Message: "account deactivated", Status: http.StatusForbidden}
	ErrEmailNotVerified = &Error{Cause: CauseEmailNotVerified, Message: "email not verified", Status: http.StatusForbidden}
)

// ErrInvalidCredentials covers login failures without disclosing which
// field was wrong.
var ErrInvalidCredentials = &Error{Cause: "INVALID_CREDENTIALS", Message: "invalid credentials", Status: http.StatusUnauthorized}
