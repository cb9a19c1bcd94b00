package utils_test

import (
	"testing"

	"sakuranet-billing/utils"
)

func TestRandomString(t *testing.T) {
	s := utils.RandomString(12)
	if len(s) != 12 {
		t.Error("Expected length 12, got", len(s))
	}
	if s == utils.RandomString(12) {
		t.Error("Expected two random strings to differ")
	}
}

func TestRandomDigits(t *testing.T) {
	code := utils.RandomDigits(6)
	if len(code) != 6 {
		t.Error("Expected length 6, got", len(code))
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			t.Error("Expected digits only, got", code)
		}
	}
}
