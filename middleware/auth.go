package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cppla/aiblog/auth"
	"github.com/cppla/aiblog/models"
	"github.com/cppla/aiblog/utils"
)

const (
	// ContextClaimsKey stores the verified session claims inside Gin context.
	ContextClaimsKey = "session_claims"
	// ContextUserIDKey is the key used to store authenticated user ID in Gin context.
	ContextUserIDKey = "user_id"
	// ContextTokenKey keeps the raw token so logout can revoke it.
	ContextTokenKey = "session_token"
)

// SessionLoader attaches the session, if any, to the request. The cookie is
// preferred; a Bearer header is accepted for API clients. Invalid or revoked
// tokens are ignored here and the request continues anonymously.
func SessionLoader(sessions *auth.Sessions, cookieName string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := tokenFromRequest(ctx, cookieName)
		if token != "" {
			if claims, err := sessions.Verify(ctx.Request.Context(), token); err == nil {
				ctx.Set(ContextClaimsKey, claims)
				ctx.Set(ContextUserIDKey, claims.UserID)
				ctx.Set(ContextTokenKey, token)
			}
		}
		ctx.Next()
	}
}

func tokenFromRequest(ctx *gin.Context, cookieName string) string {
	if c, err := ctx.Cookie(cookieName); err == nil && c != "" {
		return c
	}
	parts := strings.SplitN(ctx.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// CurrentClaims returns the verified session of the request, or nil.
func CurrentClaims(ctx *gin.Context) *utils.Claims {
	v, ok := ctx.Get(ContextClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*utils.Claims)
	return claims
}

// AuthRequired rejects requests without a valid session with 401.
func AuthRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if CurrentClaims(ctx) == nil {
			utils.WriteError(ctx, utils.Unauthorized("unauthorized"))
			return
		}
		ctx.Next()
	}
}

// AdminRequired rejects anonymous requests with 401 and non-admins with 403.
func AdminRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		claims := CurrentClaims(ctx)
		if claims == nil {
			utils.WriteError(ctx, utils.Unauthorized("unauthorized"))
			return
		}
		if claims.Role != models.RoleAdmin {
			utils.WriteError(ctx, utils.Forbidden("admin permission required"))
			return
		}
		ctx.Next()
	}
}
