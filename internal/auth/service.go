package auth

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/inkwell-press/inkwell/internal/rbac"
)

// Service wraps authentication business rules around the repository and
// the session store.
type Service struct {
	repo     Repository
	sessions *Store
}

// NewService constructs a new Service.
func NewService(repo Repository, sessions *Store) *Service {
	return &Service{repo: repo, sessions: sessions}
}

// Authenticate validates email/password credentials. Inactive accounts
// fail the same way wrong passwords do so login probing reveals nothing.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*rbac.User, error) {
	acc, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !acc.User.Active {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	user := acc.User
	return &user, nil
}

// Login authenticates and opens a session, mirroring it to the audit
// table. The audit write is best effort when the Redis write succeeded.
func (s *Service) Login(ctx context.Context, email, password, ip, userAgent string) (*rbac.User, Session, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, Session{}, err
	}
	sess, err := s.sessions.Create(ctx, user.ID, ip, userAgent)
	if err != nil {
		return nil, Session{}, err
	}
	if err := s.repo.CreateSession(ctx, sess); err != nil {
		return user, sess, errors.Join(errAuditWrite, err)
	}
	return user, sess, nil
}

var errAuditWrite = errors.New("auth: session audit write failed")

// IsAuditWriteError reports whether a login error only concerns the
// audit mirror, in which case the session itself is valid.
func IsAuditWriteError(err error) bool {
	return errors.Is(err, errAuditWrite)
}

// Logout deletes the session from both stores.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return err
	}
	return s.repo.DeleteSession(ctx, sessionID)
}

// PurgeExpiredSessions removes stale audit rows.
func (s *Service) PurgeExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	return s.repo.DeleteExpiredSessions(ctx, now)
}
