package timer

import (
	"context"
	"errors"
	"time"

	"github.com/minuteserv/minuteserv-go/internal/models"
)

// Countdown is display state derived from the booking's absolute start
// timestamp plus its total service duration. It is always rebuilt from the
// refetched booking, never resumed from an elapsed counter, so reloads can't
// drift.
type Countdown struct {
	end      time.Time
	interval time.Duration
}

// New derives the countdown endpoint from when service started and how long
// the booked services run in total.
func New(startedAt time.Time, total time.Duration) *Countdown {
	return &Countdown{
		end:      startedAt.Add(total),
		interval: time.Second,
	}
}

// ForBooking builds the countdown for an in-progress booking.
func ForBooking(b *models.Booking) (*Countdown, error) {
	if b.ServiceStartedAt == nil {
		return nil, errors.New("booking has no service start time")
	}
	return New(*b.ServiceStartedAt, b.TotalDuration()), nil
}

// Remaining returns time left, floored at zero.
func (c *Countdown) Remaining(now time.Time) time.Duration {
	left := c.end.Sub(now)
	if left < 0 {
		return 0
	}
	return left
}

// Done reports whether the countdown has run out.
func (c *Countdown) Done(now time.Time) bool {
	return c.Remaining(now) == 0
}

// Run ticks once per interval, reporting the remaining time to fn, and stops
// itself when the countdown reaches zero or ctx is cancelled. fn is also
// called once immediately with the starting value.
func (c *Countdown) Run(ctx context.Context, fn func(remaining time.Duration)) {
	fn(c.Remaining(time.Now()))
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			remaining := c.Remaining(now)
			fn(remaining)
			if remaining == 0 {
				return
			}
		}
	}
}
