package domain

import (
	"math/rand/v2"
	"strconv"
)

const (
	pinDigits = 6
	pinMin    = 100000
	pinSpan   = 900000
)

// GeneratePIN draws a fixed-width numeric code uniformly from 100000-999999.
// Collision checking against live sessions is the registry's job, under the
// registry lock, so two concurrent allocations can never race to the same PIN.
func GeneratePIN() string {
	return strconv.Itoa(pinMin + rand.IntN(pinSpan))
}

// ValidPIN reports whether code is exactly six ASCII digits.
func ValidPIN(code string) bool {
	if len(code) != pinDigits {
		return false
	}
	for _, c := range code {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
