package utils

import (
	"crypto/rand"
	"math/big"
)

const alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandomString returns n characters from a crypto-secure source.
func RandomString(n int) string {
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphanumeric))))
		if err != nil {
			panic(err) // crypto/rand failure means the host is broken
		}
		b[i] = alphanumeric[idx.Int64()]
	}
	return string(b)
}

// RandomDigits returns an n-digit numeric code, e.g. for email verification.
func RandomDigits(n int) string {
	const digits = "0123456789"
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			panic(err)
		}
		b[i] = digits[idx.Int64()]
	}
	return string(b)
}
