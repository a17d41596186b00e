package otp

import (
	"errors"
	"net/http"
	"strings"

	"github.com/minuteserv/minuteserv-go/internal/api"
)

// Input models fixed-width one-digit-per-field code entry. Typing the last
// digit (or pasting a full-length code) makes the input ready, which is the
// caller's cue to auto-submit.
type Input struct {
	length int
	digits []string
	cursor int
}

func NewInput(length int) *Input {
	return &Input{
		length: length,
		digits: make([]string, length),
	}
}

// Type enters one digit at the focused field and advances focus. It returns
// the full code and ready=true once every field is filled. Non-digit input
// is rejected without moving focus.
func (in *Input) Type(ch rune) (string, bool, error) {
	if ch < '0' || ch > '9' {
		return "", false, api.NewValidationError("only digits are allowed")
	}
	if in.cursor >= in.length {
		return in.Code(), in.Filled(), nil
	}
	in.digits[in.cursor] = string(ch)
	in.cursor++
	if in.Filled() {
		return in.Code(), true, nil
	}
	return in.Code(), false, nil
}

// Paste distributes a full-length numeric string across all fields,
// regardless of which field it landed in, and reports ready for
// auto-submission. Anything else is ignored.
func (in *Input) Paste(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) != in.length {
		return in.Code(), false
	}
	for _, ch := range s {
		if ch < '0' || ch > '9' {
			return in.Code(), false
		}
	}
	for i, ch := range s {
		in.digits[i] = string(ch)
	}
	in.cursor = in.length
	return s, true
}

// Backspace clears the previous field and moves focus back to it.
func (in *Input) Backspace() {
	if in.cursor > 0 {
		in.cursor--
		in.digits[in.cursor] = ""
	}
}

// Clear empties every field and returns focus to the first one. Called after
// a failed verification so the user can retry.
func (in *Input) Clear() {
	for i := range in.digits {
		in.digits[i] = ""
	}
	in.cursor = 0
}

// Code returns the digits entered so far.
func (in *Input) Code() string {
	return strings.Join(in.digits, "")
}

// Filled reports whether every field holds a digit.
func (in *Input) Filled() bool {
	for _, d := range in.digits {
		if d == "" {
			return false
		}
	}
	return true
}

// Cursor returns the index of the focused field.
func (in *Input) Cursor() int {
	return in.cursor
}

// Validate rejects submission before any request when the code is not the
// expected width.
func (in *Input) Validate() error {
	if !in.Filled() {
		return api.NewValidationError("enter the full code before submitting")
	}
	return nil
}

// Failure kinds surfaced to the user, each with its own message.
const (
	FailureInvalid    = "invalid_otp"
	FailureExpired    = "expired_otp"
	FailureNetwork    = "network_error"
	FailureValidation = "validation_error"
)

var failureMessages = map[string]string{
	FailureInvalid:    "The code you entered is incorrect.",
	FailureExpired:    "The code has expired. Request a new one.",
	FailureNetwork:    "Could not reach the server. Check your connection and try again.",
	FailureValidation: "Enter the complete code.",
}

// Classify maps a verification error onto the user-facing failure taxonomy.
// The server does not distinguish invalid from expired unless it says so; a
// bare 401 reads as expired-or-invalid.
func Classify(err error) (kind, message string) {
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		return FailureNetwork, failureMessages[FailureNetwork]
	}
	switch apiErr.Kind {
	case api.ErrorKindValidation:
		return FailureValidation, failureMessages[FailureValidation]
	case api.ErrorKindNetwork, api.ErrorKindTimeout:
		return FailureNetwork, failureMessages[FailureNetwork]
	default:
		if apiErr.Status == http.StatusUnauthorized {
			lower := strings.ToLower(apiErr.Message)
			if strings.Contains(lower, "expired") && !strings.Contains(lower, "invalid") {
				return FailureExpired, failureMessages[FailureExpired]
			}
			return FailureInvalid, "The code is expired or invalid."
		}
		return FailureInvalid, failureMessages[FailureInvalid]
	}
}
