package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusAssigned   BookingStatus = "assigned"
	BookingStatusAccepted   BookingStatus = "accepted"
	BookingStatusRejected   BookingStatus = "rejected"
	BookingStatusInProgress BookingStatus = "in_progress"
	BookingStatusCompleted  BookingStatus = "completed"
	BookingStatusCancelled  BookingStatus = "cancelled"
)

// ParseBookingStatus converts a wire status into a BookingStatus.
// Unknown statuses are rejected rather than defaulted.
func ParseBookingStatus(s string) (BookingStatus, error) {
	switch BookingStatus(s) {
	case BookingStatusPending, BookingStatusAssigned, BookingStatusAccepted,
		BookingStatusRejected, BookingStatusInProgress,
		BookingStatusCompleted, BookingStatusCancelled:
		return BookingStatus(s), nil
	default:
		return "", fmt.Errorf("unknown booking status %q", s)
	}
}

func (s BookingStatus) String() string {
	return string(s)
}

// IsTerminal reports whether no further transition is possible.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled || s == BookingStatusRejected
}

// BookingAction is a partner- or customer-initiated lifecycle transition.
type BookingAction string

const (
	ActionAssign   BookingAction = "assign"
	ActionAccept   BookingAction = "accept"
	ActionReject   BookingAction = "reject"
	ActionStart    BookingAction = "start"
	ActionComplete BookingAction = "complete"
	ActionCancel   BookingAction = "cancel"
)

// transitionMap lists the statuses each action may fire from.
var transitionMap = map[BookingAction][]BookingStatus{
	ActionAssign:   {BookingStatusPending},
	ActionAccept:   {BookingStatusAssigned},
	ActionReject:   {BookingStatusAssigned},
	ActionStart:    {BookingStatusAccepted},
	ActionComplete: {BookingStatusInProgress},
	ActionCancel:   {BookingStatusAssigned, BookingStatusAccepted},
}

// ValidTransition reports whether action may be applied to a booking
// currently in the given status.
func ValidTransition(action BookingAction, from BookingStatus) bool {
	allowed, ok := transitionMap[action]
	if !ok {
		return false
	}
	for _, status := range allowed {
		if status == from {
			return true
		}
	}
	return false
}

// NextStatus returns the status a successful action lands on.
func (a BookingAction) NextStatus() (BookingStatus, error) {
	switch a {
	case ActionAssign:
		return BookingStatusAssigned, nil
	case ActionAccept:
		return BookingStatusAccepted, nil
	case ActionReject:
		return BookingStatusRejected, nil
	case ActionStart:
		return BookingStatusInProgress, nil
	case ActionComplete:
		return BookingStatusCompleted, nil
	case ActionCancel:
		return BookingStatusCancelled, nil
	default:
		return "", fmt.Errorf("unknown booking action %q", a)
	}
}

// DefaultServiceDuration applies when a service line carries no duration.
const DefaultServiceDuration = 60

// ServiceLine is one ordered service on a booking.
type ServiceLine struct {
	gorm.Model
	BookingID       uint    `json:"-" gorm:"not null;index"`
	Name            string  `json:"name" gorm:"not null"`
	DurationMinutes int     `json:"duration_minutes"`
	Price           float64 `json:"price" gorm:"not null"`
	Quantity        int     `json:"quantity" gorm:"not null;default:1"`
}

type Booking struct {
	gorm.Model
	BookingNumber    string        `json:"booking_number" gorm:"unique;not null"`
	CustomerID       uint          `json:"customer_id" gorm:"not null;index"`
	PartnerID        uint          `json:"partner_id" gorm:"index"`
	Status           BookingStatus `json:"status" gorm:"not null;default:'pending'"`
	Services         []ServiceLine `json:"services"`
	ServiceStartedAt *time.Time    `json:"service_started_at"`
	CustomerName     string        `json:"customer_name"`
	CustomerPhone    string        `json:"customer_phone"`
	Address          string        `json:"address"`
	PaymentMethod    string        `json:"payment_method"`
	GrandTotal       float64       `json:"grand_total"`
	PartnerPayout    float64       `json:"partner_payout"`
	RejectReason     string        `json:"reject_reason,omitempty"`
	CancelReason     string        `json:"cancel_reason,omitempty"`
}

// TotalDuration sums service durations, falling back to the default for
// lines that carry none.
func (b *Booking) TotalDuration() time.Duration {
	if len(b.Services) == 0 {
		return time.Duration(DefaultServiceDuration) * time.Minute
	}
	total := 0
	for _, s := range b.Services {
		d := s.DurationMinutes
		if d <= 0 {
			d = DefaultServiceDuration
		}
		total += d
	}
	return time.Duration(total) * time.Minute
}
