package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"inboxlift/internal/infrastructure/token"
	"inboxlift/internal/shared/constants"
	"inboxlift/internal/shared/utils"
)

// OptionalVisitor resolves the visitor session token when one is
// present and stores the claims in the request context. Requests
// without a token (or with an invalid one) continue as anonymous.
func OptionalVisitor(tokens *token.VisitorTokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := extractVisitorToken(c)
		if raw == "" {
			c.Next()
			return
		}

		claims, err := tokens.Verify(raw)
		if err != nil {
			// Expired or tampered tokens degrade to anonymous access
			// rather than blocking the request.
			c.Next()
			return
		}

		c.Set(constants.ContextKeyVisitorID, claims.VisitorID)
		c.Set(constants.ContextKeyVisitorEmail, claims.Email)
		c.Next()
	}
}

// RequireVisitor rejects requests that do not carry a valid visitor
// session token.
func RequireVisitor(tokens *token.VisitorTokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := extractVisitorToken(c)
		if raw == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Visitor session required")
			c.Abort()
			return
		}

		claims, err := tokens.Verify(raw)
		if err != nil {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid or expired session")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyVisitorID, claims.VisitorID)
		c.Set(constants.ContextKeyVisitorEmail, claims.Email)
		c.Next()
	}
}

// extractVisitorToken prefers the session cookie and falls back to a
// bearer Authorization header for non-browser clients.
func extractVisitorToken(c *gin.Context) string {
	if cookie := utils.GetTokenFromCookie(c, utils.VisitorTokenCookie); cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader(constants.HeaderAuthorization)
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
