package models

import (
	"gorm.io/gorm"
)

type UserType string

const (
	UserTypeCustomer UserType = "customer"
	UserTypePartner  UserType = "partner"
)

type User struct {
	gorm.Model
	Name        string   `json:"name" gorm:"column:name"`
	PhoneNumber string   `json:"phone_number" gorm:"column:phone_number;unique;not null"`
	UserType    UserType `json:"user_type" gorm:"column:user_type;not null;default:'customer'"`
	// Loyalty balance for customers. Authoritative value lives server-side.
	LoyaltyPoints int `json:"loyalty_points" gorm:"column:loyalty_points;default:0"`
}

func (User) TableName() string {
	return "users"
}
