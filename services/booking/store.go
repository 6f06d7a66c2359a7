package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"garagio/models"
	"garagio/utils"

	"github.com/go-redis/redis/v8"
)

const sessionTTL = 30 * time.Minute

// SessionStore persists one checkout attempt between workflow steps.
type SessionStore interface {
	Save(ctx context.Context, session models.BookingSession) error
	Get(ctx context.Context, bookingID string) (models.BookingSession, error)
	Delete(ctx context.Context, bookingID string) error
}

// RedisSessionStore keeps sessions in Redis with a TTL so an abandoned
// flow cleans itself up.
type RedisSessionStore struct {
	Client *redis.Client
	TTL    time.Duration
}

// NewRedisSessionStore builds a store over the shared session cache client.
func NewRedisSessionStore() *RedisSessionStore {
	return &RedisSessionStore{Client: utils.GetSessionCacheClient(), TTL: sessionTTL}
}

func sessionKey(bookingID string) string {
	return "booking:session:" + bookingID
}

// Save upserts the session and refreshes its TTL.
func (s *RedisSessionStore) Save(ctx context.Context, session models.BookingSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal booking session: %w", err)
	}
	if err := s.Client.Set(ctx, sessionKey(session.BookingID), data, s.TTL).Err(); err != nil {
		return fmt.Errorf("failed to store booking session: %w", err)
	}
	return nil
}

// Get loads the session by its booking identifier.
func (s *RedisSessionStore) Get(ctx context.Context, bookingID string) (models.BookingSession, error) {
	data, err := s.Client.Get(ctx, sessionKey(bookingID)).Result()
	if err == redis.Nil {
		return models.BookingSession{}, &SessionNotFoundError{BookingID: bookingID}
	}
	if err != nil {
		return models.BookingSession{}, fmt.Errorf("failed to load booking session: %w", err)
	}
	var session models.BookingSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return models.BookingSession{}, fmt.Errorf("failed to parse booking session: %w", err)
	}
	return session, nil
}

// Delete destroys the session.
func (s *RedisSessionStore) Delete(ctx context.Context, bookingID string) error {
	if err := s.Client.Del(ctx, sessionKey(bookingID)).Err(); err != nil {
		return fmt.Errorf("failed to delete booking session: %w", err)
	}
	return nil
}
