package store

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minuteserv/minuteserv-go/internal/models"
)

func TestListServicesOrderedByID(t *testing.T) {
	s := NewMemoryStore()

	// Seed with scrambled explicit IDs; listing must not depend on map order.
	var seed []models.Service
	for _, id := range []uint{9, 3, 7, 1, 5} {
		svc := models.Service{Name: fmt.Sprintf("Service %d", id), Price: 100, Active: true}
		svc.ID = id
		seed = append(seed, svc)
	}
	require.NoError(t, s.SeedServices(seed))

	for i := 0; i < 3; i++ {
		services, err := s.ListServices()
		require.NoError(t, err)
		require.Len(t, services, 5)
		for i := 1; i < len(services); i++ {
			assert.Less(t, services[i-1].ID, services[i].ID)
		}
	}
}

func TestListBookingsOrderedByID(t *testing.T) {
	s := NewMemoryStore()

	for i := 0; i < 6; i++ {
		b := &models.Booking{
			BookingNumber: fmt.Sprintf("MS-TEST%04d", i),
			CustomerID:    1,
			PartnerID:     2,
			Status:        models.BookingStatusAssigned,
		}
		require.NoError(t, s.CreateBooking(b))
	}

	mine, err := s.ListCustomerBookings(1, "")
	require.NoError(t, err)
	queue, err := s.ListPartnerBookings(2, "")
	require.NoError(t, err)

	for _, list := range [][]models.Booking{mine, queue} {
		require.Len(t, list, 6)
		for i := 1; i < len(list); i++ {
			assert.Less(t, list[i-1].ID, list[i].ID)
		}
	}
}
