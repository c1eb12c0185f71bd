package util

import (
	"strconv"
	"testing"
)

func TestGenerateResetOTPRange(t *testing.T) {
	for i := 0; i < 200; i++ {
		otp, err := GenerateResetOTP()
		if err != nil {
			t.Fatalf("GenerateResetOTP returned error: %v", err)
		}
		if len(otp) != 6 {
			t.Fatalf("expected 6 digits, got %q", otp)
		}
		n, err := strconv.Atoi(otp)
		if err != nil {
			t.Fatalf("expected numeric code, got %q", otp)
		}
		if n < 100000 || n > 999999 {
			t.Fatalf("code %d out of range", n)
		}
	}
}

func TestIsResetOTP(t *testing.T) {
	valid := []string{"100000", "999999", "123456"}
	for _, v := range valid {
		if !IsResetOTP(v) {
			t.Fatalf("expected %q to be accepted", v)
		}
	}
	invalid := []string{"", "12345", "1234567", "12345a", "12 456", "½23456"}
	for _, v := range invalid {
		if IsResetOTP(v) {
			t.Fatalf("expected %q to be rejected", v)
		}
	}
}
