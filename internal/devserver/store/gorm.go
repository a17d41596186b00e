package store

import (
	"errors"

	"gorm.io/gorm"

	"github.com/minuteserv/minuteserv-go/internal/models"
)

// GormStore backs the devserver with Postgres for persistent local
// development. Selected when DB_HOST is configured.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) CreateUser(user *models.User) error {
	return s.db.Create(user).Error
}

func (s *GormStore) GetUserByPhone(phone string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("phone_number = ?", phone).First(&user).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &user, nil
}

func (s *GormStore) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &user, nil
}

func (s *GormStore) SaveUser(user *models.User) error {
	return s.db.Save(user).Error
}

func (s *GormStore) CreateBooking(booking *models.Booking) error {
	return s.db.Create(booking).Error
}

func (s *GormStore) GetBooking(id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := s.db.Preload("Services").First(&booking, id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &booking, nil
}

func (s *GormStore) SaveBooking(booking *models.Booking) error {
	return s.db.Session(&gorm.Session{FullSaveAssociations: true}).Save(booking).Error
}

func (s *GormStore) ListCustomerBookings(customerID uint, status models.BookingStatus) ([]models.Booking, error) {
	return s.listBookings("customer_id = ?", customerID, status)
}

func (s *GormStore) ListPartnerBookings(partnerID uint, status models.BookingStatus) ([]models.Booking, error) {
	return s.listBookings("partner_id = ?", partnerID, status)
}

func (s *GormStore) listBookings(cond string, id uint, status models.BookingStatus) ([]models.Booking, error) {
	query := s.db.Where(cond, id).Preload("Services")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var bookings []models.Booking
	if err := query.Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (s *GormStore) ListServices() ([]models.Service, error) {
	var services []models.Service
	if err := s.db.Where("active = ?", true).Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

func (s *GormStore) GetService(id uint) (*models.Service, error) {
	var svc models.Service
	if err := s.db.First(&svc, id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &svc, nil
}

func (s *GormStore) SeedServices(services []models.Service) error {
	for i := range services {
		svc := services[i]
		err := s.db.Where("name = ?", svc.Name).FirstOrCreate(&svc).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func wrapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
