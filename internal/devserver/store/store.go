package store

import (
	"errors"

	"github.com/minuteserv/minuteserv-go/internal/models"
)

// ErrNotFound is returned for lookups that match nothing.
var ErrNotFound = errors.New("record not found")

// Store is the devserver's persistence boundary. The in-memory
// implementation backs tests and zero-config development; the GORM one backs
// persistent local development against Postgres.
type Store interface {
	CreateUser(user *models.User) error
	GetUserByPhone(phone string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	SaveUser(user *models.User) error

	CreateBooking(booking *models.Booking) error
	GetBooking(id uint) (*models.Booking, error)
	SaveBooking(booking *models.Booking) error
	ListCustomerBookings(customerID uint, status models.BookingStatus) ([]models.Booking, error)
	ListPartnerBookings(partnerID uint, status models.BookingStatus) ([]models.Booking, error)

	ListServices() ([]models.Service, error)
	GetService(id uint) (*models.Service, error)
	SeedServices(services []models.Service) error
}
