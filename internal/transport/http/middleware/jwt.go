package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"cronicas-api/internal/pkg/jwtutil"
	"cronicas-api/internal/transport/http/response"
)

const (
	ContextUserIDKey   = "user_id"
	ContextUsernameKey = "username"
)

// TokenVerifier resolves a bearer token to the identity it was issued for.
type TokenVerifier interface {
	VerifyToken(token string) (*jwtutil.Identity, error)
}

func AuthJWT(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			response.Error(c, http.StatusUnauthorized, "Falta el header Authorization", nil)
			return
		}

		const prefix = "Bearer "
		if len(authHeader) < len(prefix) || !strings.EqualFold(authHeader[:len(prefix)], prefix) {
			response.Error(c, http.StatusUnauthorized, "Esquema de autorización inválido", nil)
			return
		}

		token := strings.TrimSpace(authHeader[len(prefix):])
		identity, err := verifier.VerifyToken(token)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "Token inválido o expirado", err)
			return
		}

		c.Set(ContextUserIDKey, identity.UserID)
		c.Set(ContextUsernameKey, identity.Username)
		c.Next()
	}
}

// UserID returns the authenticated user id set by AuthJWT.
func UserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ContextUserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}
