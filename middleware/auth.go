package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/farmfresh-api/auth"
)

// ValidateToken requires a session token in the Authorization header
// ("Bearer <token>" or the bare token) and stores the caller's id under
// "user_id".
func ValidateToken(tokens *auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := strings.TrimSpace(c.GetHeader("Authorization"))
		if len(tokenString) > 7 && strings.EqualFold(tokenString[:7], "bearer ") {
			tokenString = strings.TrimSpace(tokenString[7:])
		}
		authenticate(c, tokens, tokenString)
	}
}

// ValidateQueryToken reads the token from the "token" query parameter.
// Browsers cannot set headers on websocket upgrades.
func ValidateQueryToken(tokens *auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		authenticate(c, tokens, c.Query("token"))
	}
}

func authenticate(c *gin.Context, tokens *auth.TokenIssuer, tokenString string) {
	if tokenString == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is missing"})
		return
	}
	claims, err := tokens.Parse(tokenString)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}
	c.Set("user_id", claims.UserID)
	c.Set("email", claims.Email)
	c.Next()
}
