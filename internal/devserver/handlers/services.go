package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/minuteserv/minuteserv-go/internal/devserver/store"
	"github.com/minuteserv/minuteserv-go/internal/models"
)

// LoyaltyPointValue is the discount one redeemed point buys.
const LoyaltyPointValue = 1.0

// ListServices returns the active catalog as a raw array.
func ListServices(db store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		services, err := db.ListServices()
		if err != nil {
			c.JSON(500, gin.H{"message": "Failed to fetch services"})
			return
		}
		if services == nil {
			services = []models.Service{}
		}
		c.JSON(200, services)
	}
}

// RedeemLoyalty converts points into a checkout discount, debiting the
// customer's balance.
func RedeemLoyalty(db store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Points int `json:"points" binding:"required,min=1"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"message": err.Error()})
			return
		}

		user, err := db.GetUserByID(c.GetUint("userId"))
		if err != nil {
			c.JSON(401, gin.H{"message": "Session expired or invalid"})
			return
		}
		if input.Points > user.LoyaltyPoints {
			c.JSON(400, gin.H{"message": "Not enough loyalty points"})
			return
		}

		user.LoyaltyPoints -= input.Points
		if err := db.SaveUser(user); err != nil {
			c.JSON(500, gin.H{"message": "Failed to redeem points"})
			return
		}

		c.JSON(200, gin.H{
			"redeemed":  input.Points,
			"remaining": user.LoyaltyPoints,
			"discount":  float64(input.Points) * LoyaltyPointValue,
		})
	}
}

// DefaultCatalog seeds the dev catalog so a fresh devserver has something to
// sell.
func DefaultCatalog() []models.Service {
	return []models.Service{
		{Name: "Deep Home Cleaning", Category: "cleaning", Price: 1499, DurationMinutes: 120, Active: true},
		{Name: "Bathroom Cleaning", Category: "cleaning", Price: 399, DurationMinutes: 45, Active: true},
		{Name: "AC Service", Category: "appliances", Price: 549, DurationMinutes: 60, Active: true},
		{Name: "Plumbing Visit", Category: "repairs", Price: 299, DurationMinutes: 0, Active: true},
		{Name: "Electrical Visit", Category: "repairs", Price: 299, DurationMinutes: 0, Active: true},
		{Name: "Full Home Painting Consult", Category: "painting", Price: 6999, DurationMinutes: 90, Active: true},
	}
}
