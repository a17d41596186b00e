package lifecycle

import (
	"context"
	"fmt"

	"github.com/minuteserv/minuteserv-go/internal/api"
	"github.com/minuteserv/minuteserv-go/internal/models"
)

// Controller drives booking lifecycle transitions. It validates the
// transition against the local copy of the booking before any request, never
// mutates state optimistically, and treats the server as the only authority:
// success always means a fresh booking fetched or returned by the server.
type Controller struct {
	client *api.Client
}

func NewController(client *api.Client) *Controller {
	return &Controller{client: client}
}

// transitionError reports a lifecycle action attempted from the wrong state.
// Unknown statuses fall through here too, so nothing silently defaults.
func transitionError(action models.BookingAction, from models.BookingStatus) error {
	return api.NewValidationError(
		fmt.Sprintf("cannot %s booking in status %q", action, from))
}

// Accept moves an assigned booking to accepted and refetches it. On failure
// the caller's copy stays untouched.
func (c *Controller) Accept(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	if !models.ValidTransition(models.ActionAccept, booking.Status) {
		return nil, transitionError(models.ActionAccept, booking.Status)
	}
	if err := c.client.AcceptBooking(ctx, booking.ID); err != nil {
		return nil, err
	}
	return c.client.GetBooking(ctx, booking.ID)
}

// Reject moves an assigned booking to rejected. The reason is mandatory.
// After success the booking is no longer actionable by this partner.
func (c *Controller) Reject(ctx context.Context, booking *models.Booking, reason string) error {
	if reason == "" {
		return api.NewValidationError("a rejection reason is required")
	}
	if !models.ValidTransition(models.ActionReject, booking.Status) {
		return transitionError(models.ActionReject, booking.Status)
	}
	return c.client.RejectBooking(ctx, booking.ID, reason)
}

// ErrStartCodeRejected means the customer's start code did not verify. The
// booking state is unchanged and the code entry should be cleared for retry.
var ErrStartCodeRejected = api.NewValidationError("start code was not accepted")

// StartDesyncError means the code verified but the start call itself failed.
// The code is already consumed server-side, so a plain retry with the same
// code will fail; the customer has to be issued a fresh one.
type StartDesyncError struct {
	Err error
}

func (e *StartDesyncError) Error() string {
	return fmt.Sprintf("service start failed after code verification, a new code is required: %v", e.Err)
}

func (e *StartDesyncError) Unwrap() error {
	return e.Err
}

// Start runs the two-phase OTP-gated accepted -> in_progress transition:
// verify the code first, then start. Verification failure leaves the booking
// untouched. The two calls are not atomic server-side; see StartDesyncError.
func (c *Controller) Start(ctx context.Context, booking *models.Booking, code string) (*models.Booking, error) {
	if !models.ValidTransition(models.ActionStart, booking.Status) {
		return nil, transitionError(models.ActionStart, booking.Status)
	}

	verification, err := c.client.VerifyStartOTP(ctx, booking.ID, code)
	if err != nil {
		return nil, err
	}
	if !verification.Verified {
		return nil, ErrStartCodeRejected
	}

	started, err := c.client.StartBooking(ctx, booking.ID, code)
	if err != nil {
		return nil, &StartDesyncError{Err: err}
	}
	return started, nil
}

// Complete moves an in_progress booking to completed. Callers gate this
// behind the swipe confirmation; the controller only checks the state. The
// payout on the returned booking is the server's figure.
func (c *Controller) Complete(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	if !models.ValidTransition(models.ActionComplete, booking.Status) {
		return nil, transitionError(models.ActionComplete, booking.Status)
	}
	return c.client.CompleteBooking(ctx, booking.ID)
}

// Cancel is the customer-side exit, allowed only before service starts. The
// reason is optional.
func (c *Controller) Cancel(ctx context.Context, booking *models.Booking, reason string) error {
	if !models.ValidTransition(models.ActionCancel, booking.Status) {
		return transitionError(models.ActionCancel, booking.Status)
	}
	return c.client.CancelBooking(ctx, booking.ID, reason)
}
