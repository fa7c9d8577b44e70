package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"building-backend/utils"
)

var errMissingBearer = errors.New("missing bearer token")

// ContextKeyAdminID is where RequireAuth stores the verified admin identity
// for downstream handlers.
const ContextKeyAdminID = "adminID"

// TokenVerifier resolves a signed token to the admin id it carries.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// RequireAuth guards mutating endpoints. A missing or invalid bearer token
// short-circuits with 401 before the request reaches any repository or
// pipeline code.
func RequireAuth(tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		adminID, err := bearerAdminID(c.GetHeader("Authorization"), tokens)
		if err != nil {
			utils.JSONError(c, http.StatusUnauthorized, "Authentication required")
			c.Abort()
			return
		}
		c.Set(ContextKeyAdminID, adminID)
		c.Next()
	}
}

func bearerAdminID(header string, tokens TokenVerifier) (string, error) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", errMissingBearer
	}
	return tokens.Verify(strings.TrimPrefix(header, prefix))
}

// BearerToken extracts the raw token from an Authorization header, or ""
// when the header is absent or not bearer-shaped.
func BearerToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimPrefix(header, prefix)
}
