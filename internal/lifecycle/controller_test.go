package lifecycle

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minuteserv/minuteserv-go/internal/api"
	"github.com/minuteserv/minuteserv-go/internal/models"
)

type fakeBackend struct {
	mux      *http.ServeMux
	requests []string
}

func newFakeBackend(t *testing.T) (*fakeBackend, *Controller) {
	t.Helper()
	fb := &fakeBackend{mux: http.NewServeMux()}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fb.requests = append(fb.requests, r.Method+" "+r.URL.Path)
		fb.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	client := api.NewClientWithHTTP(srv.URL, api.AudiencePartner, &http.Client{Timeout: time.Second})
	return fb, NewController(client)
}

func (fb *fakeBackend) handle(pattern string, status int, body string) {
	fb.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	})
}

func TestAcceptRefetchesBooking(t *testing.T) {
	fb, ctrl := newFakeBackend(t)
	fb.handle("/partner/bookings/5/accept", 200, `{"success":true}`)
	fb.handle("/partner/bookings/5", 200, `{"data":{"ID":5,"status":"accepted"}}`)

	booking := &models.Booking{Status: models.BookingStatusAssigned}
	booking.ID = 5

	updated, err := ctrl.Accept(context.Background(), booking)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusAccepted, updated.Status)
	// The local copy is never mutated; the fresh fetch is the result.
	assert.Equal(t, models.BookingStatusAssigned, booking.Status)
	assert.Equal(t, []string{
		"POST /partner/bookings/5/accept",
		"GET /partner/bookings/5",
	}, fb.requests)
}

func TestWrongStateSendsNoRequest(t *testing.T) {
	fb, ctrl := newFakeBackend(t)
	ctx := context.Background()

	booking := &models.Booking{Status: models.BookingStatusCompleted}
	booking.ID = 7

	_, err := ctrl.Accept(ctx, booking)
	assert.Error(t, err)
	_, err = ctrl.Start(ctx, booking, "123456")
	assert.Error(t, err)
	_, err = ctrl.Complete(ctx, booking)
	assert.Error(t, err)
	err = ctrl.Cancel(ctx, booking, "")
	assert.Error(t, err)
	err = ctrl.Reject(ctx, booking, "busy")
	assert.Error(t, err)

	assert.Empty(t, fb.requests)
}

func TestRejectRequiresReason(t *testing.T) {
	fb, ctrl := newFakeBackend(t)

	booking := &models.Booking{Status: models.BookingStatusAssigned}
	booking.ID = 3

	err := ctrl.Reject(context.Background(), booking, "")
	var apiErr *api.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, api.ErrorKindValidation, apiErr.Kind)
	assert.Empty(t, fb.requests)

	fb.handle("/partner/bookings/3/reject", 200, `{"success":true}`)
	require.NoError(t, ctrl.Reject(context.Background(), booking, "too far away"))
}

func TestStartVerifiesThenStarts(t *testing.T) {
	fb, ctrl := newFakeBackend(t)
	fb.handle("/partner/bookings/8/verify-start-otp", 200, `{"verified":true}`)
	fb.handle("/partner/bookings/8/start", 200,
		`{"data":{"ID":8,"status":"in_progress","service_started_at":"2026-08-31T10:00:00Z"}}`)

	booking := &models.Booking{Status: models.BookingStatusAccepted}
	booking.ID = 8

	started, err := ctrl.Start(context.Background(), booking, "123456")
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusInProgress, started.Status)
	require.NotNil(t, started.ServiceStartedAt)
	assert.Equal(t, []string{
		"POST /partner/bookings/8/verify-start-otp",
		"POST /partner/bookings/8/start",
	}, fb.requests)
}

func TestStartRejectedCodeLeavesBookingUntouched(t *testing.T) {
	fb, ctrl := newFakeBackend(t)
	fb.handle("/partner/bookings/8/verify-start-otp", 401, `{"message":"OTP expired or invalid"}`)

	booking := &models.Booking{Status: models.BookingStatusAccepted}
	booking.ID = 8

	_, err := ctrl.Start(context.Background(), booking, "000000")
	require.Error(t, err)
	assert.True(t, api.IsAuthError(err))
	assert.Equal(t, models.BookingStatusAccepted, booking.Status)
	assert.Equal(t, []string{"POST /partner/bookings/8/verify-start-otp"}, fb.requests)
}

func TestStartUnverifiedCodeIsRejected(t *testing.T) {
	fb, ctrl := newFakeBackend(t)
	fb.handle("/partner/bookings/8/verify-start-otp", 200, `{"verified":false}`)

	booking := &models.Booking{Status: models.BookingStatusAccepted}
	booking.ID = 8

	_, err := ctrl.Start(context.Background(), booking, "999999")
	assert.ErrorIs(t, err, ErrStartCodeRejected)
	assert.Equal(t, []string{"POST /partner/bookings/8/verify-start-otp"}, fb.requests)
}

func TestStartDesyncWhenStartFailsAfterVerify(t *testing.T) {
	fb, ctrl := newFakeBackend(t)
	fb.handle("/partner/bookings/8/verify-start-otp", 200, `{"verified":true}`)
	fb.handle("/partner/bookings/8/start", 500, `{"message":"storage failure"}`)

	booking := &models.Booking{Status: models.BookingStatusAccepted}
	booking.ID = 8

	_, err := ctrl.Start(context.Background(), booking, "123456")
	require.Error(t, err)

	var desync *StartDesyncError
	require.True(t, errors.As(err, &desync))

	var apiErr *api.Error
	require.True(t, errors.As(desync.Err, &apiErr))
	assert.Equal(t, "storage failure", apiErr.Message)
}

func TestCompleteReturnsServerPayout(t *testing.T) {
	fb, ctrl := newFakeBackend(t)
	fb.handle("/partner/bookings/4/complete", 200,
		`{"data":{"ID":4,"status":"completed","grand_total":1558,"partner_payout":1090.6}}`)

	booking := &models.Booking{Status: models.BookingStatusInProgress}
	booking.ID = 4

	done, err := ctrl.Complete(context.Background(), booking)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCompleted, done.Status)
	assert.InDelta(t, 1090.6, done.PartnerPayout, 0.001)
}
