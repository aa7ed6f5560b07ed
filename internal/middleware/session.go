package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/jhlee-dev/sis-portal/internal/session"
)

// ContextIdentityKey is the gin context key storing the resolved identity.
const ContextIdentityKey = "currentIdentity"

// SessionResolver resolves a cookie token into an identity.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*session.Identity, error)
}

// Session resolves the session cookie when present and stores the identity
// in the request context. It never aborts; role enforcement is the guard's
// job.
func Session(cookieName string, store SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}

		identity, err := store.Resolve(c.Request.Context(), token)
		if err != nil {
			c.Next()
			return
		}

		c.Set(ContextIdentityKey, identity)
		c.Next()
	}
}

// IdentityFromContext returns the resolved identity, or nil when the request
// is unauthenticated.
func IdentityFromContext(c *gin.Context) *session.Identity {
	value, exists := c.Get(ContextIdentityKey)
	if !exists {
		return nil
	}
	identity, ok := value.(*session.Identity)
	if !ok {
		return nil
	}
	return identity
}
