package middleware

import (
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/rental-store-api/internal/common"
	"github.com/harentsoaR/rental-store-api/internal/models"
	"github.com/harentsoaR/rental-store-api/internal/utils"
	"github.com/rs/zerolog"
)

const identityKey = "identity"

// Protect requires a valid bearer token and stores the caller's identity on
// the context.
func Protect(tokens *utils.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || strings.TrimSpace(tokenString) == "" {
			common.AbortWithError(c, http.StatusUnauthorized, "Not authorized to access this route")
			return
		}

		identity, err := tokens.Verify(strings.TrimSpace(tokenString))
		if err != nil {
			zerolog.Ctx(c.Request.Context()).Debug().Err(err).Msg("token rejected")
			common.AbortWithError(c, http.StatusUnauthorized, "Token is not valid")
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// Authorize lets the request through only when the identity set by Protect
// has one of roles.
func Authorize(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFrom(c)
		if !ok {
			common.AbortWithError(c, http.StatusUnauthorized, "Not authorized to access this route")
			return
		}
		if !slices.Contains(roles, identity.Role) {
			common.AbortWithError(c, http.StatusForbidden,
				fmt.Sprintf("User role %q is not authorized to access this route", identity.Role))
			return
		}
		c.Next()
	}
}

// IdentityFrom returns the identity attached by Protect.
func IdentityFrom(c *gin.Context) (models.Identity, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return models.Identity{}, false
	}
	identity, ok := v.(models.Identity)
	return identity, ok
}

// SetIdentity attaches identity to c the same way Protect does.
func SetIdentity(c *gin.Context, identity models.Identity) {
	c.Set(identityKey, identity)
}
