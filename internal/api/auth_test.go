package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minuteserv/minuteserv-go/internal/models"
)

func TestSessionUser(t *testing.T) {
	verified := &VerifyOTPResponse{
		Verified: true,
		Subject:  "+15550001111",
		User:     &models.User{PhoneNumber: "+15550001111", UserType: models.UserTypeCustomer},
	}
	user, err := verified.SessionUser()
	require.NoError(t, err)
	assert.Equal(t, "+15550001111", user.PhoneNumber)

	// A reply of the shape {verified: false, subject} carries no session.
	rejected := &VerifyOTPResponse{Verified: false, Subject: "+15550001111"}
	_, err = rejected.SessionUser()
	assert.Error(t, err)

	// Verified without a user payload is just as unusable.
	hollow := &VerifyOTPResponse{Verified: true, Subject: "+15550001111"}
	_, err = hollow.SessionUser()
	assert.Error(t, err)
}
