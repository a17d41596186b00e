package models

import (
	"time"
)

// OTPPurpose defines what a challenge unlocks.
type OTPPurpose string

const (
	OTPPurposeCustomerLogin OTPPurpose = "customer_login"
	OTPPurposePartnerLogin  OTPPurpose = "partner_login"
	OTPPurposeServiceStart  OTPPurpose = "service_start"
)

// Digit widths per flow. The storefront login code is shorter by design.
const (
	CustomerLoginOTPDigits = 4
	PartnerLoginOTPDigits  = 6
	ServiceStartOTPDigits  = 6
)

// OTPExpiry is how long a challenge stays redeemable. Challenges are
// ephemeral: they live only in the OTP store and are consumed by exactly one
// verification or expire.
const OTPExpiry = 300 * time.Second

// Digits returns the code width for a purpose.
func (p OTPPurpose) Digits() int {
	switch p {
	case OTPPurposeCustomerLogin:
		return CustomerLoginOTPDigits
	default:
		return PartnerLoginOTPDigits
	}
}
