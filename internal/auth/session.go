package auth

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// Store keeps login sessions in Redis with a sliding TTL. Session rows
// are additionally mirrored to PostgreSQL by the Service for auditing;
// Redis is the authority for validity.
type Store struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

// NewStore constructs a session store.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl, now: time.Now}
}

// TTL exposes the configured session lifetime.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Create persists a fresh session for the user and returns it.
func (s *Store) Create(ctx context.Context, userID int64, ip, userAgent string) (Session, error) {
	now := s.now().UTC()
	sess := Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		IP:        ip,
		UserAgent: userAgent,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	payload, err := json.Marshal(sess)
	if err != nil {
		return Session{}, err
	}
	if err := s.client.Set(ctx, sessionKeyPrefix+sess.ID, payload, s.ttl).Err(); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// Validate resolves a session ID to a live session. Failures carry the
// typed causes the guard forwards: empty ID means the request never had
// a session, an unknown ID is invalid, a past-deadline record is expired
// and removed on sight.
func (s *Store) Validate(ctx context.Context, id string) (Session, error) {
	if id == "" {
		return Session{}, ErrNoAccessSession
	}
	payload, err := s.client.Get(ctx, sessionKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Session{}, ErrInvalidSession
		}
		return Session{}, err
	}
	var sess Session
	if err := json.Unmarshal(payload, &sess); err != nil {
		return Session{}, ErrInvalidSession
	}
	if sess.Expired(s.now()) {
		_ = s.client.Del(ctx, sessionKeyPrefix+id).Err()
		return Session{}, ErrExpiredSession
	}
	return sess, nil
}

// Delete removes a session. Deleting an absent session is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	err := s.client.Del(ctx, sessionKeyPrefix+id).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}
