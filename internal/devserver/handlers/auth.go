package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/minuteserv/minuteserv-go/internal/devserver/otpstore"
	"github.com/minuteserv/minuteserv-go/internal/devserver/store"
	"github.com/minuteserv/minuteserv-go/internal/middleware"
	"github.com/minuteserv/minuteserv-go/internal/models"
	"github.com/minuteserv/minuteserv-go/pkg/utils"
)

func loginPurpose(userType models.UserType) models.OTPPurpose {
	if userType == models.UserTypePartner {
		return models.OTPPurposePartnerLogin
	}
	return models.OTPPurposeCustomerLogin
}

// SendOTP issues a login code for the phone number. The dev double has no
// SMS gateway; the code goes to the server log instead.
func SendOTP(otps otpstore.OTPStore, userType models.UserType) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Phone string `json:"phone" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"message": err.Error()})
			return
		}

		purpose := loginPurpose(userType)
		uniqueKey := fmt.Sprintf("%s-%s-%s", input.Phone, purpose, time.Now().Format("20060102150405.000"))
		code := utils.GenerateOTP(uniqueKey, purpose.Digits())

		if err := otps.Put(c.Request.Context(), input.Phone, purpose, code); err != nil {
			c.JSON(500, gin.H{"message": "Failed to issue OTP"})
			return
		}

		log.Printf("[devserver] login OTP for %s (%s): %s", input.Phone, userType, code)

		c.JSON(200, gin.H{
			"success":    true,
			"expires_in": int(models.OTPExpiry.Seconds()),
		})
	}
}

// VerifyOTP redeems a login code, creating the account on first login, and
// establishes the HttpOnly session cookie.
func VerifyOTP(db store.Store, otps otpstore.OTPStore, userType models.UserType) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Phone string `json:"phone" binding:"required"`
			OTP   string `json:"otp" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"message": err.Error()})
			return
		}

		purpose := loginPurpose(userType)
		if err := otps.Consume(c.Request.Context(), input.Phone, purpose, input.OTP); err != nil {
			if errors.Is(err, otpstore.ErrCodeInvalid) || errors.Is(err, otpstore.ErrCodeExpired) {
				c.JSON(401, gin.H{"message": "OTP expired or invalid"})
				return
			}
			c.JSON(500, gin.H{"message": "Failed to verify OTP"})
			return
		}

		user, err := db.GetUserByPhone(input.Phone)
		if errors.Is(err, store.ErrNotFound) {
			user = &models.User{
				PhoneNumber: input.Phone,
				UserType:    userType,
			}
			if err := db.CreateUser(user); err != nil {
				c.JSON(500, gin.H{"message": "Failed to create account"})
				return
			}
		} else if err != nil {
			c.JSON(500, gin.H{"message": "Failed to look up account"})
			return
		}

		if user.UserType != userType {
			c.JSON(403, gin.H{"message": "Account belongs to the other app"})
			return
		}

		token, err := utils.GenerateSessionToken(user)
		if err != nil {
			c.JSON(500, gin.H{"message": "Failed to establish session"})
			return
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(middleware.SessionCookieName, token, int((7 * 24 * time.Hour).Seconds()), "/", "", false, true)

		c.JSON(200, gin.H{
			"verified": true,
			"subject":  input.Phone,
			"user":     user,
		})
	}
}

// Me returns the session's user. This is the authoritative session check
// clients run on startup.
func Me(db store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		user, err := db.GetUserByID(userId)
		if err != nil {
			c.JSON(401, gin.H{"message": "Session expired or invalid"})
			return
		}
		c.JSON(200, user)
	}
}

// Logout clears the session cookie.
func Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", false, true)
		c.JSON(200, gin.H{"message": "Logged out"})
	}
}
