package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOTPWidth(t *testing.T) {
	for _, digits := range []int{4, 6} {
		code := GenerateOTP("subject-20260831120000.000", digits)
		require.Len(t, code, digits)
		assert.NotEqual(t, byte('0'), code[0], "first digit must be non-zero")
		for _, ch := range code {
			assert.True(t, ch >= '0' && ch <= '9')
		}
	}
}

func TestGenerateOTPDeterministicPerKey(t *testing.T) {
	a := GenerateOTP("key-a", 6)
	assert.Equal(t, a, GenerateOTP("key-a", 6))
	assert.NotEqual(t, a, GenerateOTP("key-b", 6))
}
