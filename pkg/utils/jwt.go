package utils

import (
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/minuteserv/minuteserv-go/internal/models"
)

// GenerateSessionToken signs a session JWT for a phone-verified user. The
// token travels only inside an HttpOnly cookie.
func GenerateSessionToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"id":       user.ID,
		"phone":    user.PhoneNumber,
		"userType": string(user.UserType),
		"exp":      time.Now().Add(time.Hour * 24 * 7).Unix(), // 7 days
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

func ValidateSessionToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
}
