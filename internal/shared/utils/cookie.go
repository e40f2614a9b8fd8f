package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	// VisitorTokenCookie carries the signed visitor identity token.
	VisitorTokenCookie = "visitor_token"
)

// SetVisitorCookie stores the visitor token as an HttpOnly cookie.
func SetVisitorCookie(c *gin.Context, token string, maxAge int, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		VisitorTokenCookie,
		token,
		maxAge,
		"/",
		"",
		secure,
		true, // HttpOnly
	)
}

// ClearVisitorCookie removes the visitor token cookie.
func ClearVisitorCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(VisitorTokenCookie, "", -1, "/", "", secure, true)
}

// GetTokenFromCookie retrieves a token from the named cookie, empty when
// absent.
func GetTokenFromCookie(c *gin.Context, cookieName string) string {
	token, err := c.Cookie(cookieName)
	if err != nil || token == "" {
		return ""
	}
	return token
}
