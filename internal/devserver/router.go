package devserver

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/minuteserv/minuteserv-go/internal/devserver/handlers"
	"github.com/minuteserv/minuteserv-go/internal/devserver/otpstore"
	"github.com/minuteserv/minuteserv-go/internal/devserver/store"
	"github.com/minuteserv/minuteserv-go/internal/middleware"
	"github.com/minuteserv/minuteserv-go/internal/models"
)

// Config wires the devserver's stores.
type Config struct {
	Store store.Store
	OTPs  otpstore.OTPStore
}

// NewRouter builds the full route table of the API double: customer routes
// at the root, partner routes under /partner, plus the dev-only dispatch
// hook standing in for the external assignment system.
func NewRouter(cfg Config) *gin.Engine {
	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOriginFunc = func(origin string) bool { return true }
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	r.Use(cors.New(corsConfig))

	// Customer (storefront) surface
	auth := r.Group("/auth")
	{
		auth.POST("/send-otp", handlers.SendOTP(cfg.OTPs, models.UserTypeCustomer))
		auth.POST("/verify-otp", handlers.VerifyOTP(cfg.Store, cfg.OTPs, models.UserTypeCustomer))
	}
	r.GET("/services", handlers.ListServices(cfg.Store))

	customer := r.Group("/")
	customer.Use(middleware.SessionMiddleware(), middleware.RequireUserType(string(models.UserTypeCustomer)))
	{
		customer.GET("/auth/me", handlers.Me(cfg.Store))
		customer.POST("/auth/logout", handlers.Logout())
		customer.POST("/bookings", handlers.Checkout(cfg.Store))
		customer.GET("/bookings", handlers.ListCustomerBookings(cfg.Store))
		customer.GET("/bookings/:id", handlers.GetBooking(cfg.Store))
		customer.POST("/bookings/:id/cancel", handlers.CancelBooking(cfg.Store))
		customer.POST("/loyalty/redeem", handlers.RedeemLoyalty(cfg.Store))
	}

	// Partner surface
	partnerAuth := r.Group("/partner/auth")
	{
		partnerAuth.POST("/send-otp", handlers.SendOTP(cfg.OTPs, models.UserTypePartner))
		partnerAuth.POST("/verify-otp", handlers.VerifyOTP(cfg.Store, cfg.OTPs, models.UserTypePartner))
	}

	partner := r.Group("/partner")
	partner.Use(middleware.SessionMiddleware(), middleware.RequireUserType(string(models.UserTypePartner)))
	{
		partner.GET("/auth/me", handlers.Me(cfg.Store))
		partner.POST("/auth/logout", handlers.Logout())
		partner.GET("/bookings", handlers.ListPartnerBookings(cfg.Store))
		partner.GET("/bookings/:id", handlers.GetBooking(cfg.Store))
		partner.POST("/bookings/:id/accept", handlers.AcceptBooking(cfg.Store, cfg.OTPs))
		partner.POST("/bookings/:id/reject", handlers.RejectBooking(cfg.Store))
		partner.POST("/bookings/:id/verify-start-otp", handlers.VerifyStartOTP(cfg.Store, cfg.OTPs))
		partner.POST("/bookings/:id/start", handlers.StartBooking(cfg.Store, cfg.OTPs))
		partner.POST("/bookings/:id/complete", handlers.CompleteBooking(cfg.Store))
	}

	// Dispatch is external in production; the dev double exposes a hook.
	r.POST("/dev/bookings/:id/assign", handlers.AssignBooking(cfg.Store))

	return r
}
