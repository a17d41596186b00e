package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/minuteserv/minuteserv-go/pkg/utils"
)

// SessionCookieName carries the signed session token. The cookie is HttpOnly
// so the token never reaches client script.
const SessionCookieName = "minuteserv_session"

// SessionMiddleware authenticates requests from the session cookie and puts
// the user identity on the context.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(SessionCookieName)
		if err != nil || tokenString == "" {
			c.JSON(401, gin.H{"message": "Authentication required"})
			c.Abort()
			return
		}

		token, err := utils.ValidateSessionToken(tokenString)
		if err != nil || !token.Valid {
			c.JSON(401, gin.H{"message": "Session expired or invalid"})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(401, gin.H{"message": "Session expired or invalid"})
			c.Abort()
			return
		}

		// A validly-signed token missing either claim is still not a session.
		id, ok := claims["id"].(float64)
		if !ok {
			c.JSON(401, gin.H{"message": "Session expired or invalid"})
			c.Abort()
			return
		}
		userType, ok := claims["userType"].(string)
		if !ok {
			c.JSON(401, gin.H{"message": "Session expired or invalid"})
			c.Abort()
			return
		}

		c.Set("userId", uint(id))
		c.Set("userType", userType)
		c.Next()
	}
}

// RequireUserType rejects requests whose session belongs to the wrong side
// of the marketplace.
func RequireUserType(userType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("userType") != userType {
			c.JSON(403, gin.H{"message": "Forbidden"})
			c.Abort()
			return
		}
		c.Next()
	}
}
