package provision

import "github.com/shopspring/decimal"

// Discount returns the period discount as a fraction. Thresholds are
// inclusive lower bounds: 3 months already gets 5%, 6 gets 10%,
// 12 gets 20%.
func Discount(months int) decimal.Decimal {
	switch {
	case months >= 12:
		return decimal.NewFromFloat(0.20)
	case months >= 6:
		return decimal.NewFromFloat(0.10)
	case months >= 3:
		return decimal.NewFromFloat(0.05)
	default:
		return decimal.Zero
	}
}

// Total is price * months * (1 - discount), rounded to cents.
func Total(monthlyPrice decimal.Decimal, months int) decimal.Decimal {
	factor := decimal.NewFromInt(1).Sub(Discount(months))
	return monthlyPrice.Mul(decimal.NewFromInt(int64(months))).Mul(factor).Round(2)
}
