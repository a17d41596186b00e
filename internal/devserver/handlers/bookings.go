package handlers

import (
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/minuteserv/minuteserv-go/internal/cart"
	"github.com/minuteserv/minuteserv-go/internal/devserver/otpstore"
	"github.com/minuteserv/minuteserv-go/internal/devserver/store"
	"github.com/minuteserv/minuteserv-go/internal/models"
	"github.com/minuteserv/minuteserv-go/pkg/utils"
)

// PayoutRatio is the partner's share of the grand total. Only the server
// ever computes this.
const PayoutRatio = 0.70

func startOTPSubject(bookingID uint) string {
	return fmt.Sprintf("booking:%d", bookingID)
}

func bookingIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"message": "Invalid booking ID"})
		return 0, false
	}
	return uint(id), true
}

func loadBooking(c *gin.Context, db store.Store, id uint) (*models.Booking, bool) {
	booking, err := db.GetBooking(id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(404, gin.H{"message": "Booking not found"})
		return nil, false
	}
	if err != nil {
		c.JSON(500, gin.H{"message": "Failed to fetch booking"})
		return nil, false
	}
	return booking, true
}

// requireTransition enforces the lifecycle graph server-side; illegal
// transitions answer 409 so clients can tell them from validation errors.
func requireTransition(c *gin.Context, action models.BookingAction, booking *models.Booking) bool {
	if !models.ValidTransition(action, booking.Status) {
		c.JSON(409, gin.H{"message": fmt.Sprintf(
			"Cannot %s a booking in status %s", action, booking.Status)})
		return false
	}
	return true
}

// Checkout creates a booking from the customer's cart. Totals are computed
// here; the client's figures are display-only.
func Checkout(db store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		customerID := c.GetUint("userId")
		var input struct {
			Items []struct {
				ServiceID uint `json:"service_id" binding:"required"`
				Quantity  int  `json:"quantity" binding:"required,min=1"`
			} `json:"items" binding:"required,min=1"`
			Address       string `json:"address"`
			PaymentMethod string `json:"payment_method"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"message": err.Error()})
			return
		}

		customer, err := db.GetUserByID(customerID)
		if err != nil {
			c.JSON(401, gin.H{"message": "Session expired or invalid"})
			return
		}

		var lines []models.ServiceLine
		var subtotal float64
		for _, item := range input.Items {
			svc, err := db.GetService(item.ServiceID)
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(400, gin.H{"message": "Unknown service in cart"})
				return
			}
			if err != nil {
				c.JSON(500, gin.H{"message": "Failed to fetch service"})
				return
			}
			lines = append(lines, models.ServiceLine{
				Name:            svc.Name,
				DurationMinutes: svc.DurationMinutes,
				Price:           svc.Price,
				Quantity:        item.Quantity,
			})
			subtotal += svc.Price * float64(item.Quantity)
		}

		booking := models.Booking{
			BookingNumber: "MS-" + strings.ToUpper(uuid.NewString()[:8]),
			CustomerID:    customerID,
			Status:        models.BookingStatusPending,
			Services:      lines,
			CustomerName:  customer.Name,
			CustomerPhone: customer.PhoneNumber,
			Address:       input.Address,
			PaymentMethod: input.PaymentMethod,
			GrandTotal:    cart.GrandTotalOf(subtotal),
		}

		if err := db.CreateBooking(&booking); err != nil {
			c.JSON(500, gin.H{"message": "Failed to create booking"})
			return
		}

		c.JSON(201, booking)
	}
}

// ListCustomerBookings returns the customer's bookings wrapped in a
// {"bookings": [...]} envelope, matching the backend this doubles for.
func ListCustomerBookings(db store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		customerID := c.GetUint("userId")
		status, ok := statusFilter(c)
		if !ok {
			return
		}
		bookings, err := db.ListCustomerBookings(customerID, status)
		if err != nil {
			c.JSON(500, gin.H{"message": "Failed to fetch bookings"})
			return
		}
		if bookings == nil {
			bookings = []models.Booking{}
		}
		c.JSON(200, gin.H{"bookings": bookings})
	}
}

// ListPartnerBookings returns the partner's queue as a raw array — a second
// envelope shape, also faithful to the backend.
func ListPartnerBookings(db store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		partnerID := c.GetUint("userId")
		status, ok := statusFilter(c)
		if !ok {
			return
		}
		bookings, err := db.ListPartnerBookings(partnerID, status)
		if err != nil {
			c.JSON(500, gin.H{"message": "Failed to fetch bookings"})
			return
		}
		if bookings == nil {
			bookings = []models.Booking{}
		}
		c.JSON(200, bookings)
	}
}

func statusFilter(c *gin.Context) (models.BookingStatus, bool) {
	raw := c.Query("status")
	if raw == "" {
		return "", true
	}
	status, err := models.ParseBookingStatus(raw)
	if err != nil {
		c.JSON(400, gin.H{"message": "Unknown status filter"})
		return "", false
	}
	return status, true
}

// GetBooking returns one booking under a {"data": {...}} envelope.
func GetBooking(db store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := bookingIDParam(c)
		if !ok {
			return
		}
		booking, ok := loadBooking(c, db, id)
		if !ok {
			return
		}
		userID := c.GetUint("userId")
		if booking.CustomerID != userID && booking.PartnerID != userID {
			c.JSON(403, gin.H{"message": "Unauthorized"})
			return
		}
		c.JSON(200, gin.H{"data": booking})
	}
}

// AcceptBooking moves assigned -> accepted and issues the service-start OTP
// for the customer. The dev double logs the code instead of texting it.
func AcceptBooking(db store.Store, otps otpstore.OTPStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := bookingIDParam(c)
		if !ok {
			return
		}
		booking, ok := loadBooking(c, db, id)
		if !ok {
			return
		}
		if booking.PartnerID != c.GetUint("userId") {
			c.JSON(403, gin.H{"message": "Unauthorized"})
			return
		}
		if !requireTransition(c, models.ActionAccept, booking) {
			return
		}

		booking.Status = models.BookingStatusAccepted
		if err := db.SaveBooking(booking); err != nil {
			c.JSON(500, gin.H{"message": "Failed to update booking"})
			return
		}

		uniqueKey := fmt.Sprintf("%s-start-%s", booking.BookingNumber, time.Now().Format("20060102150405.000"))
		code := utils.GenerateOTP(uniqueKey, models.ServiceStartOTPDigits)
		if err := otps.Put(c.Request.Context(), startOTPSubject(booking.ID), models.OTPPurposeServiceStart, code); err != nil {
			c.JSON(500, gin.H{"message": "Failed to issue start OTP"})
			return
		}
		log.Printf("[devserver] start OTP for booking %s: %s", booking.BookingNumber, code)

		c.JSON(200, booking)
	}
}

// RejectBooking moves assigned -> rejected. A reason is mandatory.
func RejectBooking(db store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := bookingIDParam(c)
		if !ok {
			return
		}
		var input struct {
			Reason string `json:"reason" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"message": "A rejection reason is required"})
			return
		}
		booking, ok := loadBooking(c, db, id)
		if !ok {
			return
		}
		if booking.PartnerID != c.GetUint("userId") {
			c.JSON(403, gin.H{"message": "Unauthorized"})
			return
		}
		if !requireTransition(c, models.ActionReject, booking) {
			return
		}

		booking.Status = models.BookingStatusRejected
		booking.RejectReason = input.Reason
		if err := db.SaveBooking(booking); err != nil {
			c.JSON(500, gin.H{"message": "Failed to update booking"})
			return
		}
		c.JSON(200, booking)
	}
}

// VerifyStartOTP checks the customer's start code without consuming it; the
// code is burned by the start call that follows.
func VerifyStartOTP(db store.Store, otps otpstore.OTPStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := bookingIDParam(c)
		if !ok {
			return
		}
		var input struct {
			OTP string `json:"otp" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"message": err.Error()})
			return
		}
		booking, ok := loadBooking(c, db, id)
		if !ok {
			return
		}
		if booking.PartnerID != c.GetUint("userId") {
			c.JSON(403, gin.H{"message": "Unauthorized"})
			return
		}

		err := otps.Verify(c.Request.Context(), startOTPSubject(booking.ID), models.OTPPurposeServiceStart, input.OTP)
		if errors.Is(err, otpstore.ErrCodeInvalid) || errors.Is(err, otpstore.ErrCodeExpired) {
			c.JSON(401, gin.H{"message": "OTP expired or invalid"})
			return
		}
		if err != nil {
			c.JSON(500, gin.H{"message": "Failed to verify OTP"})
			return
		}
		c.JSON(200, gin.H{"verified": true})
	}
}

// StartBooking consumes the start code and moves accepted -> in_progress,
// stamping service_started_at.
func StartBooking(db store.Store, otps otpstore.OTPStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := bookingIDParam(c)
		if !ok {
			return
		}
		var input struct {
			OTP string `json:"otp" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"message": err.Error()})
			return
		}
		booking, ok := loadBooking(c, db, id)
		if !ok {
			return
		}
		if booking.PartnerID != c.GetUint("userId") {
			c.JSON(403, gin.H{"message": "Unauthorized"})
			return
		}
		if !requireTransition(c, models.ActionStart, booking) {
			return
		}

		err := otps.Consume(c.Request.Context(), startOTPSubject(booking.ID), models.OTPPurposeServiceStart, input.OTP)
		if errors.Is(err, otpstore.ErrCodeInvalid) || errors.Is(err, otpstore.ErrCodeExpired) {
			c.JSON(401, gin.H{"message": "OTP expired or invalid"})
			return
		}
		if err != nil {
			c.JSON(500, gin.H{"message": "Failed to verify OTP"})
			return
		}

		now := time.Now()
		booking.Status = models.BookingStatusInProgress
		booking.ServiceStartedAt = &now
		if err := db.SaveBooking(booking); err != nil {
			c.JSON(500, gin.H{"message": "Failed to update booking"})
			return
		}
		c.JSON(200, booking)
	}
}

// CompleteBooking moves in_progress -> completed and fixes the partner
// payout from the grand total.
func CompleteBooking(db store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := bookingIDParam(c)
		if !ok {
			return
		}
		booking, ok := loadBooking(c, db, id)
		if !ok {
			return
		}
		if booking.PartnerID != c.GetUint("userId") {
			c.JSON(403, gin.H{"message": "Unauthorized"})
			return
		}
		if !requireTransition(c, models.ActionComplete, booking) {
			return
		}

		booking.Status = models.BookingStatusCompleted
		booking.PartnerPayout = math.Round(booking.GrandTotal*PayoutRatio*100) / 100
		if err := db.SaveBooking(booking); err != nil {
			c.JSON(500, gin.H{"message": "Failed to update booking"})
			return
		}
		c.JSON(200, booking)
	}
}

// CancelBooking is the customer-side exit, allowed only before the service
// starts. The reason is optional.
func CancelBooking(db store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := bookingIDParam(c)
		if !ok {
			return
		}
		var input struct {
			Reason string `json:"reason"`
		}
		// Body is optional for cancellation.
		_ = c.ShouldBindJSON(&input)

		booking, ok := loadBooking(c, db, id)
		if !ok {
			return
		}
		if booking.CustomerID != c.GetUint("userId") {
			c.JSON(403, gin.H{"message": "Unauthorized"})
			return
		}
		if !requireTransition(c, models.ActionCancel, booking) {
			return
		}

		booking.Status = models.BookingStatusCancelled
		booking.CancelReason = input.Reason
		if err := db.SaveBooking(booking); err != nil {
			c.JSON(500, gin.H{"message": "Failed to update booking"})
			return
		}
		c.JSON(200, booking)
	}
}

// AssignBooking is the dev stand-in for the external dispatch system: it
// hands a pending booking to a partner.
func AssignBooking(db store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := bookingIDParam(c)
		if !ok {
			return
		}
		var input struct {
			PartnerID uint `json:"partner_id" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"message": err.Error()})
			return
		}

		partner, err := db.GetUserByID(input.PartnerID)
		if err != nil || partner.UserType != models.UserTypePartner {
			c.JSON(400, gin.H{"message": "Unknown partner"})
			return
		}

		booking, ok := loadBooking(c, db, id)
		if !ok {
			return
		}
		if !requireTransition(c, models.ActionAssign, booking) {
			return
		}

		booking.Status = models.BookingStatusAssigned
		booking.PartnerID = input.PartnerID
		if err := db.SaveBooking(booking); err != nil {
			c.JSON(500, gin.H{"message": "Failed to update booking"})
			return
		}
		c.JSON(200, booking)
	}
}
