package api

import (
	"context"
	"net/http"

	"github.com/minuteserv/minuteserv-go/internal/models"
)

// ListBookings fetches bookings for the current session, optionally filtered
// by status. The response envelope varies by endpoint; normalization happens
// once inside getList.
func (c *Client) ListBookings(ctx context.Context, status models.BookingStatus) ([]models.Booking, error) {
	url := c.path("/bookings")
	if status != "" {
		url += "?status=" + string(status)
	}
	var bookings []models.Booking
	if err := c.getList(ctx, url, &bookings, "bookings"); err != nil {
		return nil, err
	}
	return bookings, nil
}

// GetBooking fetches one booking with its service lines.
func (c *Client) GetBooking(ctx context.Context, id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := c.do(ctx, http.MethodGet, c.bookingPath(id, ""), nil, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

// AcceptBooking requests the assigned -> accepted transition.
func (c *Client) AcceptBooking(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodPost, c.bookingPath(id, "/accept"), nil, nil)
}

// RejectBooking requests the assigned -> rejected transition. The reason is
// mandatory and validated before any request fires.
func (c *Client) RejectBooking(ctx context.Context, id uint, reason string) error {
	if reason == "" {
		return NewValidationError("a rejection reason is required")
	}
	body := map[string]string{"reason": reason}
	return c.do(ctx, http.MethodPost, c.bookingPath(id, "/reject"), body, nil)
}

// VerifyStartOTPResponse mirrors the verify-start-otp reply.
type VerifyStartOTPResponse struct {
	Verified bool `json:"verified"`
}

// VerifyStartOTP checks the customer's service-start code without mutating
// booking state. Start must follow as a separate call.
func (c *Client) VerifyStartOTP(ctx context.Context, id uint, code string) (*VerifyStartOTPResponse, error) {
	if len(code) != models.ServiceStartOTPDigits {
		return nil, NewValidationError("start code must be 6 digits")
	}
	var out VerifyStartOTPResponse
	body := map[string]string{"otp": code}
	if err := c.do(ctx, http.MethodPost, c.bookingPath(id, "/verify-start-otp"), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StartBooking requests the accepted -> in_progress transition. The server
// sets service_started_at on success.
func (c *Client) StartBooking(ctx context.Context, id uint, code string) (*models.Booking, error) {
	var booking models.Booking
	body := map[string]string{"otp": code}
	if err := c.do(ctx, http.MethodPost, c.bookingPath(id, "/start"), body, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

// CompleteBooking requests the in_progress -> completed transition. The
// payout figure in the returned booking is the server's, never recomputed.
func (c *Client) CompleteBooking(ctx context.Context, id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := c.do(ctx, http.MethodPost, c.bookingPath(id, "/complete"), nil, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

// CancelBooking requests cancellation from the customer side. The reason is
// optional.
func (c *Client) CancelBooking(ctx context.Context, id uint, reason string) error {
	body := map[string]string{"reason": reason}
	return c.do(ctx, http.MethodPost, c.bookingPath(id, "/cancel"), body, nil)
}
