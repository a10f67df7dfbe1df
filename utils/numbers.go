package utils

import (
	"crypto/rand"
	"math"
	"math/big"
	"strings"
)

// RandomDigits returns n decimal digits drawn from crypto/rand.
func RandomDigits(n int) string {
	var sb strings.Builder
	sb.Grow(n)
	ten := big.NewInt(10)
	for i := 0; i < n; i++ {
		d, err := rand.Int(rand.Reader, ten)
		if err != nil {
			sb.WriteByte('0')
			continue
		}
		sb.WriteByte(byte('0' + d.Int64()))
	}
	return sb.String()
}

// NewOrderNumber returns "#" followed by eight digits.
func NewOrderNumber() string {
	return "#" + RandomDigits(8)
}

// NewInvoiceNumber returns "INV-" followed by six digits.
func NewInvoiceNumber() string {
	return "INV-" + RandomDigits(6)
}

// ToMinorUnits converts a major-unit amount to cents, rounding half away from zero.
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// RoundMoney rounds to two decimals.
func RoundMoney(amount float64) float64 {
	return math.Round(amount*100) / 100
}
