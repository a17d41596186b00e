package utils

import (
	"crypto/sha256"
	"fmt"
	"math"
)

// GenerateOTP derives a numeric code of the requested width from the given
// unique key. The key should change with every request (subject + timestamp)
// so repeated sends produce different codes.
func GenerateOTP(uniqueKey string, digits int) string {
	h := sha256.New()
	h.Write([]byte(uniqueKey))
	hash := h.Sum(nil)

	num := uint64(hash[0])<<56 | uint64(hash[1])<<48 | uint64(hash[2])<<40 | uint64(hash[3])<<32 |
		uint64(hash[4])<<24 | uint64(hash[5])<<16 | uint64(hash[6])<<8 | uint64(hash[7])

	// Keep the first digit non-zero so the code always has full width.
	low := uint64(math.Pow10(digits - 1))
	span := uint64(math.Pow10(digits)) - low
	code := low + num%span

	return fmt.Sprintf("%0*d", digits, code)
}
