package otp

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minuteserv/minuteserv-go/internal/api"
)

func TestTypeAutoReadyOnLastDigit(t *testing.T) {
	in := NewInput(4)

	for i, ch := range "123" {
		code, ready, err := in.Type(ch)
		require.NoError(t, err)
		assert.False(t, ready, "not ready after %d digits", i+1)
		assert.Equal(t, "123"[:i+1], code)
	}

	code, ready, err := in.Type('4')
	require.NoError(t, err)
	assert.True(t, ready)
	assert.Equal(t, "1234", code)
	assert.NoError(t, in.Validate())
}

func TestTypeRejectsNonDigits(t *testing.T) {
	in := NewInput(6)
	_, _, err := in.Type('a')
	var apiErr *api.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, api.ErrorKindValidation, apiErr.Kind)
	assert.Equal(t, 0, in.Cursor())
}

func TestPasteFullCode(t *testing.T) {
	in := NewInput(6)
	// Paste lands mid-entry; the code still fills from the first field.
	_, _, err := in.Type('9')
	require.NoError(t, err)

	code, ready := in.Paste("123456")
	assert.True(t, ready)
	assert.Equal(t, "123456", code)
	assert.Equal(t, 6, in.Cursor())
}

func TestPasteIgnoresPartialOrNonNumeric(t *testing.T) {
	in := NewInput(6)
	_, ready := in.Paste("123")
	assert.False(t, ready)
	_, ready = in.Paste("12345a")
	assert.False(t, ready)
	assert.Equal(t, "", in.Code())
}

func TestBackspaceAndClear(t *testing.T) {
	in := NewInput(4)
	in.Paste("1234")

	in.Backspace()
	assert.Equal(t, "123", in.Code())
	assert.Equal(t, 3, in.Cursor())

	in.Clear()
	assert.Equal(t, "", in.Code())
	assert.Equal(t, 0, in.Cursor())
	assert.Error(t, in.Validate())
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		kind     string
		contains string
	}{
		{
			"plain 401 reads as expired-or-invalid",
			&api.Error{Kind: api.ErrorKindHTTP, Status: 401, Message: "OTP expired or invalid"},
			FailureInvalid, "expired or invalid",
		},
		{
			"explicit expiry",
			&api.Error{Kind: api.ErrorKindHTTP, Status: 401, Message: "OTP expired"},
			FailureExpired, "expired",
		},
		{
			"timeout is a network failure",
			&api.Error{Kind: api.ErrorKindTimeout, Message: "Request timeout"},
			FailureNetwork, "connection",
		},
		{
			"transport failure",
			&api.Error{Kind: api.ErrorKindNetwork, Message: "connection refused"},
			FailureNetwork, "connection",
		},
		{
			"client-side validation",
			api.NewValidationError("enter the full code before submitting"),
			FailureValidation, "complete",
		},
		{
			"non-api error",
			errors.New("boom"),
			FailureNetwork, "connection",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			kind, message := Classify(tc.err)
			assert.Equal(t, tc.kind, kind)
			assert.Contains(t, message, tc.contains)
		})
	}
}

func TestResendTimerCountsDownFrom45(t *testing.T) {
	start := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	timer := StartResendTimer(start)

	assert.Equal(t, 45, timer.Remaining(start))
	assert.False(t, timer.CanResend(start))

	assert.Equal(t, 1, timer.Remaining(start.Add(44*time.Second)))
	assert.False(t, timer.CanResend(start.Add(44*time.Second)))

	assert.Equal(t, 0, timer.Remaining(start.Add(45*time.Second)))
	assert.True(t, timer.CanResend(start.Add(45*time.Second)))

	// A resend rearms the full window.
	resendAt := start.Add(50 * time.Second)
	timer.Reset(resendAt)
	assert.False(t, timer.CanResend(resendAt.Add(10*time.Second)))
	assert.True(t, timer.CanResend(resendAt.Add(45*time.Second)))
}
