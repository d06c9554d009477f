package auth

import (
	"net/http"
	"strings"

	"devmatch/backend/internal/config"
	"devmatch/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// Middleware resolves the caller from the session cookie or a bearer header
// and sets "userID" in the request context. Requests without a valid token
// are rejected; handlers behind it never see an unresolved caller.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := tokenFromRequest(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Please login"})
			return
		}

		claims, err := jwt.ParseToken(tokenString, config.AppConfig.JWTSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set("userID", claims.UserID)
		c.Next()
	}
}

// tokenFromRequest prefers the httpOnly cookie set at login and falls back
// to an Authorization: Bearer header for non-browser clients.
func tokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie("token"); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}
