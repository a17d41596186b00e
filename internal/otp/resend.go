package otp

import (
	"time"
)

// ResendDelay is how long resend stays disabled after a send.
const ResendDelay = 45 * time.Second

// ResendTimer gates the resend button. It counts down from 45 at send time
// and must reach zero before another send is allowed.
type ResendTimer struct {
	deadline time.Time
}

// StartResendTimer begins the countdown at send time.
func StartResendTimer(now time.Time) *ResendTimer {
	return &ResendTimer{deadline: now.Add(ResendDelay)}
}

// Remaining returns whole seconds left, never negative.
func (t *ResendTimer) Remaining(now time.Time) int {
	left := t.deadline.Sub(now)
	if left <= 0 {
		return 0
	}
	return int(left.Round(time.Second) / time.Second)
}

// CanResend reports whether the countdown has reached zero.
func (t *ResendTimer) CanResend(now time.Time) bool {
	return t.Remaining(now) == 0
}

// Reset restarts the countdown after a resend was triggered.
func (t *ResendTimer) Reset(now time.Time) {
	t.deadline = now.Add(ResendDelay)
}
