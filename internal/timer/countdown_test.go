package timer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minuteserv/minuteserv-go/internal/models"
)

func TestRemainingDerivedFromAbsoluteStart(t *testing.T) {
	start := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	c := New(start, 60*time.Minute)

	assert.Equal(t, 60*time.Minute, c.Remaining(start))
	assert.Equal(t, 35*time.Minute, c.Remaining(start.Add(25*time.Minute)))
	assert.Equal(t, time.Duration(0), c.Remaining(start.Add(61*time.Minute)))
	assert.True(t, c.Done(start.Add(61*time.Minute)))
}

func TestRebuildFromRefetchDoesNotDrift(t *testing.T) {
	start := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	first := New(start, 60*time.Minute)
	// A reload rebuilds the countdown from the same booking fields and lands
	// on the same remaining time.
	rebuilt := New(start, 60*time.Minute)

	now := start.Add(17 * time.Minute)
	assert.Equal(t, first.Remaining(now), rebuilt.Remaining(now))
}

func TestForBooking(t *testing.T) {
	started := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	booking := &models.Booking{
		Status:           models.BookingStatusInProgress,
		ServiceStartedAt: &started,
		Services: []models.ServiceLine{
			{Name: "Deep Home Cleaning", DurationMinutes: 120},
			{Name: "Plumbing Visit"},
		},
	}

	c, err := ForBooking(booking)
	require.NoError(t, err)
	assert.Equal(t, 180*time.Minute, c.Remaining(started))

	_, err = ForBooking(&models.Booking{Status: models.BookingStatusAccepted})
	assert.Error(t, err)
}

func TestRunStopsAtZero(t *testing.T) {
	c := &Countdown{
		end:      time.Now().Add(25 * time.Millisecond),
		interval: 5 * time.Millisecond,
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	var last time.Duration = -1
	done := make(chan struct{})
	go func() {
		c.Run(ctx, func(remaining time.Duration) { last = remaining })
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after the countdown reached zero")
	}
	assert.Equal(t, time.Duration(0), last)
	require.NoError(t, ctx.Err(), "Run must stop on its own, not via context timeout")
}

func TestRunStopsOnCancel(t *testing.T) {
	c := &Countdown{
		end:      time.Now().Add(time.Hour),
		interval: 5 * time.Millisecond,
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx, func(time.Duration) {})
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop on cancellation")
	}
}
