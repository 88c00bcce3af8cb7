package service

import (
	"testing"

	"go-retail-pos/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestPriceLines(t *testing.T) {
	lines := []model.TransactionLine{
		{Quantity: 2, UnitPrice: dec("9.99"), LineTotal: dec("19.98"), Taxable: true},
		{Quantity: 1, UnitPrice: dec("5.00"), LineTotal: dec("5.00"), Taxable: false},
	}

	subtotal, tax, total := PriceLines(lines, dec("8.25"))
	assertDec(t, "24.98", subtotal)
	assertDec(t, "1.65", tax) // 19.98 × 8.25% = 1.648
	assertDec(t, "26.63", total)
	assert.True(t, total.Equal(subtotal.Add(tax)))
}

func TestPriceLinesWithoutTax(t *testing.T) {
	lines := []model.TransactionLine{{Quantity: 1, LineTotal: dec("12.34"), Taxable: true}}
	subtotal, tax, total := PriceLines(lines, dec("0"))
	assertDec(t, "12.34", subtotal)
	assertDec(t, "0", tax)
	assertDec(t, "12.34", total)
}

func TestLoyaltyPoints(t *testing.T) {
	cases := []struct {
		total, perUnit string
		want           int64
	}{
		{"26.63", "1", 26},
		{"26.63", "0.5", 13},
		{"10", "0", 0},
		{"-10", "1", 0},
		{"0.99", "1", 0},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, LoyaltyPoints(dec(c.total), dec(c.perUnit)), "total=%s perUnit=%s", c.total, c.perUnit)
	}
}
