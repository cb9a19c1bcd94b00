package provision_test

import (
	"testing"

	"sakuranet-billing/provision"

	"github.com/shopspring/decimal"
)

func TestDiscount(t *testing.T) {
	cases := []struct {
		months int
		want   string
	}{
		{1, "0"},
		{2, "0"},
		{3, "0.05"},
		{5, "0.05"},
		{6, "0.1"},
		{11, "0.1"},
		{12, "0.2"},
		{24, "0.2"},
	}

	for _, tc := range cases {
		got := provision.Discount(tc.months)
		if !got.Equal(decimal.RequireFromString(tc.want)) {
			t.Error("Discount for", tc.months, "months: expected", tc.want, "got", got)
		}
	}
}

func TestTotal(t *testing.T) {
	price := decimal.RequireFromString("10.00")

	cases := []struct {
		months int
		want   string
	}{
		{1, "10.00"},
		{3, "28.50"},
		{6, "54.00"},
		{12, "96.00"},
	}

	for _, tc := range cases {
		got := provision.Total(price, tc.months)
		if !got.Equal(decimal.RequireFromString(tc.want)) {
			t.Error("Total for", tc.months, "months: expected", tc.want, "got", got)
		}
	}
}

func TestTotalRoundsToCents(t *testing.T) {
	price := decimal.RequireFromString("9.99")
	// 9.99 * 3 * 0.95 = 28.4715
	got := provision.Total(price, 3)
	if !got.Equal(decimal.RequireFromString("28.47")) {
		t.Error("Expected 28.47, got", got)
	}
}
