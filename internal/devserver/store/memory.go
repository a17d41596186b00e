package store

import (
	"sort"
	"sync"
	"time"

	"github.com/minuteserv/minuteserv-go/internal/models"
)

// MemoryStore keeps everything in process. It is the default backend so the
// devserver and the e2e suite run with no external services.
type MemoryStore struct {
	mu       sync.Mutex
	users    map[uint]*models.User
	bookings map[uint]*models.Booking
	services map[uint]*models.Service
	nextID   uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[uint]*models.User),
		bookings: make(map[uint]*models.Booking),
		services: make(map[uint]*models.Service),
		nextID:   1,
	}
}

func (s *MemoryStore) allocID() uint {
	id := s.nextID
	s.nextID++
	return id
}

func (s *MemoryStore) CreateUser(user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user.ID = s.allocID()
	user.CreatedAt = time.Now()
	copied := *user
	s.users[user.ID] = &copied
	return nil
}

func (s *MemoryStore) GetUserByPhone(phone string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.PhoneNumber == phone {
			copied := *user
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) GetUserByID(id uint) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *MemoryStore) SaveUser(user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return ErrNotFound
	}
	copied := *user
	s.users[user.ID] = &copied
	return nil
}

func (s *MemoryStore) CreateBooking(booking *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	booking.ID = s.allocID()
	booking.CreatedAt = time.Now()
	copied := cloneBooking(booking)
	s.bookings[booking.ID] = copied
	return nil
}

func (s *MemoryStore) GetBooking(id uint) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	booking, ok := s.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneBooking(booking), nil
}

func (s *MemoryStore) SaveBooking(booking *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bookings[booking.ID]; !ok {
		return ErrNotFound
	}
	s.bookings[booking.ID] = cloneBooking(booking)
	return nil
}

func (s *MemoryStore) ListCustomerBookings(customerID uint, status models.BookingStatus) ([]models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Booking
	for _, booking := range s.bookings {
		if booking.CustomerID != customerID {
			continue
		}
		if status != "" && booking.Status != status {
			continue
		}
		out = append(out, *cloneBooking(booking))
	}
	sortBookings(out)
	return out, nil
}

func (s *MemoryStore) ListPartnerBookings(partnerID uint, status models.BookingStatus) ([]models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Booking
	for _, booking := range s.bookings {
		if booking.PartnerID != partnerID {
			continue
		}
		if status != "" && booking.Status != status {
			continue
		}
		out = append(out, *cloneBooking(booking))
	}
	sortBookings(out)
	return out, nil
}

func (s *MemoryStore) ListServices() ([]models.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Service
	for _, svc := range s.services {
		if svc.Active {
			out = append(out, *svc)
		}
	}
	// Map iteration order is random; the catalog renders in ID order.
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func sortBookings(bookings []models.Booking) {
	sort.Slice(bookings, func(i, j int) bool { return bookings[i].ID < bookings[j].ID })
}

func (s *MemoryStore) GetService(id uint) (*models.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	svc, ok := s.services[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *svc
	return &copied, nil
}

func (s *MemoryStore) SeedServices(services []models.Service) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range services {
		svc := services[i]
		if svc.ID == 0 {
			svc.ID = s.allocID()
		}
		s.services[svc.ID] = &svc
	}
	return nil
}

func cloneBooking(b *models.Booking) *models.Booking {
	copied := *b
	copied.Services = append([]models.ServiceLine(nil), b.Services...)
	if b.ServiceStartedAt != nil {
		t := *b.ServiceStartedAt
		copied.ServiceStartedAt = &t
	}
	return &copied
}
