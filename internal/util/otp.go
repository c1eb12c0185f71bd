package util

import (
	"crypto/rand"
	"math/big"
	"strconv"
)

const (
	resetOTPMin  = 100000
	resetOTPSpan = 900000
)

// GenerateResetOTP returns a 6-digit code drawn uniformly from
// [100000, 999999], so the code never has a leading zero.
func GenerateResetOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(resetOTPSpan))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+resetOTPMin, 10), nil
}

// IsResetOTP reports whether s is exactly six ASCII digits.
func IsResetOTP(s string) bool {
	if len(s) != 6 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
