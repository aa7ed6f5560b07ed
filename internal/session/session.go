// Package session implements the server-side session store. A session is a
// Redis record keyed by an opaque UUID; the browser only ever sees a signed
// token carrying that UUID, so cookies cannot be forged or enumerated.
// Sessions expire after an absolute TTL (8 hours by default); there is no
// per-identity session limit.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/jhlee-dev/sis-portal/internal/models"
	appErrors "github.com/jhlee-dev/sis-portal/pkg/errors"
)

const keyPrefix = "session:"

// Identity is the authenticated principal a session resolves to. Exactly one
// of AccountID (admins) or ProfileID (students) is set.
type Identity struct {
	SessionID string      `json:"-"`
	Role      models.Role `json:"role"`
	AccountID int64       `json:"account_id,omitempty"`
	ProfileID int64       `json:"profile_id,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// redisCmdable is the slice of the go-redis API the store uses.
type redisCmdable interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Store creates, resolves and destroys sessions.
type Store struct {
	redis  redisCmdable
	secret []byte
	ttl    time.Duration
	logger *zap.Logger
}

// NewStore constructs a session store backed by the given Redis client.
func NewStore(client redisCmdable, secret string, ttl time.Duration, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	return &Store{redis: client, secret: []byte(secret), ttl: ttl, logger: logger}
}

// Create persists a new session for the identity and returns the signed
// cookie token.
func (s *Store) Create(ctx context.Context, identity Identity) (string, error) {
	identity.SessionID = uuid.NewString()
	if identity.CreatedAt.IsZero() {
		identity.CreatedAt = time.Now().UTC()
	}

	payload, err := json.Marshal(identity)
	if err != nil {
		return "", fmt.Errorf("marshal session: %w", err)
	}

	if err := s.redis.Set(ctx, keyPrefix+identity.SessionID, payload, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}

	return s.signToken(identity.SessionID, identity.CreatedAt)
}

// Resolve verifies the token signature and loads the session record. It
// returns an UNAUTHENTICATED error for forged, expired or destroyed sessions.
func (s *Store) Resolve(ctx context.Context, token string) (*Identity, error) {
	sessionID, err := s.verifyToken(token)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthenticated, "invalid session token")
	}

	payload, err := s.redis.Get(ctx, keyPrefix+sessionID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, appErrors.Clone(appErrors.ErrUnauthenticated, "session expired")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}

	var identity Identity
	if err := json.Unmarshal([]byte(payload), &identity); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "corrupt session record")
	}
	identity.SessionID = sessionID
	return &identity, nil
}

// Destroy deletes the session behind the token. Invalid or already-destroyed
// tokens are a no-op.
func (s *Store) Destroy(ctx context.Context, token string) error {
	sessionID, err := s.verifyToken(token)
	if err != nil {
		return nil
	}
	if err := s.redis.Del(ctx, keyPrefix+sessionID).Err(); err != nil {
		s.logger.Warn("failed to delete session", zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete session")
	}
	return nil
}

// TTL reports the configured session lifetime.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

func (s *Store) signToken(sessionID string, issuedAt time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   sessionID,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

func (s *Store) verifyToken(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return "", fmt.Errorf("invalid session token claims")
	}
	return claims.Subject, nil
}
