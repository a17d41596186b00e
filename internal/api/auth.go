package api

import (
	"context"
	"net/http"

	"github.com/minuteserv/minuteserv-go/internal/models"
)

// SendOTPResponse mirrors the send-otp reply.
type SendOTPResponse struct {
	Success   bool `json:"success"`
	ExpiresIn int  `json:"expires_in"`
}

// VerifyOTPResponse mirrors the verify-otp reply. The session cookie is set
// by the server on success; Subject echoes who was verified.
type VerifyOTPResponse struct {
	Verified bool         `json:"verified"`
	Subject  string       `json:"subject"`
	User     *models.User `json:"user,omitempty"`
}

// SessionUser returns the user a session may be established for. A reply
// that did not verify, or that verified without a user payload, yields an
// error instead of a nil user.
func (r *VerifyOTPResponse) SessionUser() (*models.User, error) {
	if !r.Verified || r.User == nil {
		return nil, &Error{Kind: ErrorKindHTTP, Message: "verification was not accepted"}
	}
	return r.User, nil
}

// SendOTP asks the backend to issue a login code to the phone number.
func (c *Client) SendOTP(ctx context.Context, phone string) (*SendOTPResponse, error) {
	if phone == "" {
		return nil, NewValidationError("phone number is required")
	}
	var out SendOTPResponse
	body := map[string]string{"phone": phone}
	if err := c.do(ctx, http.MethodPost, c.path("/auth/send-otp"), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyOTP redeems a login code. On success the server establishes the
// HttpOnly session cookie on this client's jar.
func (c *Client) VerifyOTP(ctx context.Context, phone, code string) (*VerifyOTPResponse, error) {
	if phone == "" || code == "" {
		return nil, NewValidationError("phone number and code are required")
	}
	var out VerifyOTPResponse
	body := map[string]string{"phone": phone, "otp": code}
	if err := c.do(ctx, http.MethodPost, c.path("/auth/verify-otp"), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me fetches the current session's user. This is the source of truth for
// session state; cached copies are only a cold-start bootstrap.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, http.MethodGet, c.path("/auth/me"), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout tears down the server session and clears the cookie.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, c.path("/auth/logout"), nil, nil)
}
