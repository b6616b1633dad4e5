package model

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestColumnLimits(t *testing.T) {
	cases := []struct {
		value   string
		amount  bool
		percent bool
	}{
		{"0", true, true},
		{"9999.999", true, true},
		{"-9999.999", true, true},
		{"9999.9995", true, false},
		{"10000", true, false},
		{"99999999.9999", true, false},
		{"99999999.99996", false, false},
		{"-100000000", false, false},
	}
	for _, tc := range cases {
		d := decimal.RequireFromString(tc.value)
		if got := AmountFits(d); got != tc.amount {
			t.Fatalf("AmountFits(%s) = %v, want %v", tc.value, got, tc.amount)
		}
		if got := PercentFits(d); got != tc.percent {
			t.Fatalf("PercentFits(%s) = %v, want %v", tc.value, got, tc.percent)
		}
	}
}

func TestHasPriceFields(t *testing.T) {
	q := decimal.NewFromInt(1)
	main := GroupOptionMain
	if (DraftRow{GroupOption: &main}).HasPriceFields() {
		t.Fatal("group-only row reported price fields")
	}
	if !(DraftRow{Quantity: &q}).HasPriceFields() {
		t.Fatal("row with quantity reported no price fields")
	}
}
