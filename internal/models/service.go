package models

import (
	"gorm.io/gorm"
)

// Service is a catalog entry the storefront sells.
type Service struct {
	gorm.Model
	Name            string  `json:"name" gorm:"unique;not null"`
	Description     string  `json:"description"`
	Category        string  `json:"category"`
	Price           float64 `json:"price" gorm:"not null"`
	DurationMinutes int     `json:"duration_minutes"`
	Active          bool    `json:"active" gorm:"default:true"`
}
