package api

import (
	"context"
	"net/http"

	"github.com/minuteserv/minuteserv-go/internal/models"
)

// Services fetches the storefront catalog.
func (c *Client) Services(ctx context.Context) ([]models.Service, error) {
	var services []models.Service
	if err := c.getList(ctx, c.baseURL+"/services", &services, "services"); err != nil {
		return nil, err
	}
	return services, nil
}

// CheckoutItem is one catalog line in a checkout request.
type CheckoutItem struct {
	ServiceID uint `json:"service_id"`
	Quantity  int  `json:"quantity"`
}

// CheckoutRequest creates a booking from the cart. Totals are recomputed and
// owned server-side; the client's figures are display-only.
type CheckoutRequest struct {
	Items         []CheckoutItem `json:"items"`
	Address       string         `json:"address"`
	PaymentMethod string         `json:"payment_method"`
}

// Checkout places the order and returns the created booking.
func (c *Client) Checkout(ctx context.Context, req CheckoutRequest) (*models.Booking, error) {
	if len(req.Items) == 0 {
		return nil, NewValidationError("cart is empty")
	}
	var booking models.Booking
	if err := c.do(ctx, http.MethodPost, c.path("/bookings"), req, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

// RedeemLoyaltyResponse mirrors the loyalty redemption reply.
type RedeemLoyaltyResponse struct {
	Redeemed  int     `json:"redeemed"`
	Remaining int     `json:"remaining"`
	Discount  float64 `json:"discount"`
}

// RedeemLoyalty converts loyalty points into a checkout discount.
func (c *Client) RedeemLoyalty(ctx context.Context, points int) (*RedeemLoyaltyResponse, error) {
	if points <= 0 {
		return nil, NewValidationError("points must be positive")
	}
	var out RedeemLoyaltyResponse
	body := map[string]int{"points": points}
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/loyalty/redeem", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
