package services

import (
	"context"
	"encoding/json"
	"time"

	"muster/internal/database"
	"muster/internal/logger"

	"github.com/google/uuid"
	"github.com/valkey-io/valkey-go"
)

const sessionKeyPrefix = "session:"

type AdminSession struct {
	AdminID  int    `json:"adminId"`
	Username string `json:"username"`
}

// SessionService keeps admin cookie sessions in the cache with a TTL, so a
// restart of the server does not invalidate logged-in dashboards.
type SessionService struct {
	cache database.CacheClient
	ttl   time.Duration
	log   logger.Logger
}

func NewSessionService(cache database.CacheClient, ttl time.Duration) *SessionService {
	return &SessionService{
		cache: cache,
		ttl:   ttl,
		log:   logger.New("SessionService"),
	}
}

func (s *SessionService) Create(ctx context.Context, session AdminSession) (string, error) {
	log := s.log.Function("Create")

	payload, err := json.Marshal(session)
	if err != nil {
		return "", log.Err("failed to marshal session", err)
	}

	id := uuid.New().String()
	cmd := s.cache.B().Set().
		Key(sessionKeyPrefix + id).
		Value(string(payload)).
		Ex(s.ttl).
		Build()
	if err := s.cache.Do(ctx, cmd).Error(); err != nil {
		return "", log.Err("failed to store session", err)
	}

	return id, nil
}

func (s *SessionService) Get(ctx context.Context, id string) (AdminSession, bool, error) {
	log := s.log.Function("Get")

	if id == "" {
		return AdminSession{}, false, nil
	}

	cmd := s.cache.B().Get().Key(sessionKeyPrefix + id).Build()
	payload, err := s.cache.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return AdminSession{}, false, nil
		}
		return AdminSession{}, false, log.Err("failed to read session", err, "id", id)
	}

	var session AdminSession
	if err := json.Unmarshal([]byte(payload), &session); err != nil {
		return AdminSession{}, false, log.Err("failed to unmarshal session", err, "id", id)
	}

	return session, true, nil
}

func (s *SessionService) Destroy(ctx context.Context, id string) error {
	log := s.log.Function("Destroy")

	cmd := s.cache.B().Del().Key(sessionKeyPrefix + id).Build()
	if err := s.cache.Do(ctx, cmd).Error(); err != nil {
		return log.Err("failed to destroy session", err, "id", id)
	}

	return nil
}
