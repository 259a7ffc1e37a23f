package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	dom "taskmanager/internal/domain"
	"taskmanager/internal/service"

	"github.com/gin-gonic/gin"
)

const contextKeyIdentity = "auth.identity"

// UserLookup resolves a user id from a token to a stored user. A missing
// user is reported as service.ErrNotFound.
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (dom.User, error)
}

// IdentityFrom returns the identity set by RequireBearer. ok is false on
// routes outside the guard.
func IdentityFrom(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(contextKeyIdentity)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header value.
func BearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", ErrMissingToken
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", ErrInvalidToken
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrMissingToken
	}
	return token, nil
}

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
}

// RequireBearer returns a middleware that verifies the bearer token,
// resolves its user and stores the Identity in the context. Any failure
// responds with 401.
func RequireBearer(tokens *TokenService, users UserLookup, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := BearerToken(c.GetHeader("Authorization"))
		if err != nil {
			log.Debug("auth rejected", "path", c.FullPath(), "err", err)
			unauthorized(c, err.Error())
			return
		}
		id, err := tokens.Verify(raw)
		if err != nil {
			log.Debug("auth rejected", "path", c.FullPath(), "err", err)
			unauthorized(c, err.Error())
			return
		}
		u, err := users.GetByID(c.Request.Context(), id.UserID)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				unauthorized(c, "user not found")
				return
			}
			log.Error("auth user lookup failed", "user_id", id.UserID, "err", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "authorization failed"})
			return
		}
		c.Set(contextKeyIdentity, Identity{UserID: u.ID, Username: u.Username})
		c.Next()
	}
}
