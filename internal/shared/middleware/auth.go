package middleware

import (
	"net/http"
	"strings"

	"blog-backend/internal/shared/permission"
	"blog-backend/internal/shared/response"
	"blog-backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	PrincipalKey        = "principal"
	invalidTokenMessage = "Given token not valid for any token type"
)

// Authenticate resolves an optional Bearer access token into a principal.
// Requests without an Authorization header continue as anonymous; a header
// carrying a bad token is rejected with 401.
func Authenticate(tokens *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		scheme, token, ok := strings.Cut(authHeader, " ")
		if !ok || scheme != "Bearer" || token == "" {
			response.Error(c, http.StatusUnauthorized, "Authorization header must contain two space-delimited values")
			c.Abort()
			return
		}

		claims, err := tokens.ValidateAccessToken(token)
		if err != nil {
			zerolog.Ctx(c.Request.Context()).Debug().Err(err).Msg("rejected access token")
			response.Error(c, http.StatusUnauthorized, invalidTokenMessage)
			c.Abort()
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, invalidTokenMessage)
			c.Abort()
			return
		}

		principal := &permission.Principal{UserID: userID, Email: claims.Email, IsStaff: claims.IsStaff}
		c.Set(PrincipalKey, principal)

		ctx := permission.WithPrincipal(c.Request.Context(), principal)
		logger := zerolog.Ctx(ctx).With().Str("user_id", userID.String()).Logger()
		c.Request = c.Request.WithContext(logger.WithContext(ctx))

		c.Next()
	}
}

// Principal returns the caller resolved by Authenticate, nil when anonymous.
func Principal(c *gin.Context) *permission.Principal {
	return permission.FromContext(c.Request.Context())
}

// Authorize enforces a coarse, owner-independent rule before the handler
// reads the body. Ownership is checked later, once the target is loaded.
func Authorize(rule permission.Rule) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := rule.Check(Principal(c), uuid.Nil); err != nil {
			response.AbortWithError(c, err)
			return
		}
		c.Next()
	}
}
