package billing

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/MohamedAsif4008/Pahana-Edu-sub000/internal/models"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestLineTotal(t *testing.T) {
	c := NewCalculator()
	require.True(t, dec("300.00").Equal(c.LineTotal(dec("100"), 3)))
	require.True(t, dec("1.00").Equal(c.LineTotal(dec("0.333"), 3)), "rounded to the currency unit")
}

func TestRecalculate(t *testing.T) {
	c := NewCalculator()
	items := []models.BillItem{
		{Quantity: 3, UnitPrice: dec("100"), LineTotal: dec("300.00")},
		{Quantity: 2, UnitPrice: dec("50"), LineTotal: dec("100.00")},
	}

	subtotal, total := c.Recalculate(items, dec("40"), dec("0"))
	require.True(t, dec("400.00").Equal(subtotal))
	require.True(t, dec("440.00").Equal(total))

	// Discount larger than subtotal+tax clamps to zero, never negative.
	_, total = c.Recalculate(items, dec("0"), dec("500"))
	require.True(t, total.IsZero())
}

func TestPercentageDiscountRange(t *testing.T) {
	c := NewCalculator()

	d, err := c.PercentageDiscount(dec("400"), dec("10"))
	require.NoError(t, err)
	require.True(t, dec("40.00").Equal(d))

	_, err = c.PercentageDiscount(dec("400"), dec("110"))
	require.True(t, errors.Is(err, ErrValidation))

	_, err = c.PercentageDiscount(dec("400"), dec("-1"))
	require.True(t, errors.Is(err, ErrValidation))

	d, err = c.PercentageDiscount(dec("400"), dec("100"))
	require.NoError(t, err)
	require.True(t, dec("400.00").Equal(d))
}

func TestPercentageTax(t *testing.T) {
	c := NewCalculator()

	tax, err := c.PercentageTax(dec("400"), dec("10"))
	require.NoError(t, err)
	require.True(t, dec("40.00").Equal(tax))

	_, err = c.PercentageTax(dec("400"), dec("-5"))
	require.True(t, errors.Is(err, ErrValidation))
}

func TestRoundingHalfUp(t *testing.T) {
	c := NewCalculator()

	// 333.33 * 7.5% = 24.999... -> 25.00
	tax, err := c.PercentageTax(dec("333.33"), dec("7.5"))
	require.NoError(t, err)
	require.True(t, dec("25.00").Equal(tax), "got %s", tax)

	// 0.125 rounds up to 0.13 at the half
	d, err := c.PercentageDiscount(dec("12.50"), dec("1"))
	require.NoError(t, err)
	require.True(t, dec("0.13").Equal(d), "got %s", d)
}

func TestAutoDiscountTier(t *testing.T) {
	c := NewCalculator()
	cases := []struct {
		subtotal string
		pct      string
	}{
		{"1999.99", "0"},
		{"2000", "2"},
		{"4999.99", "2"},
		{"5000", "5"},
		{"9999.99", "5"},
		{"10000", "10"},
		{"250000", "10"},
	}
	for _, tc := range cases {
		got := c.AutoDiscountTier(dec(tc.subtotal))
		require.True(t, dec(tc.pct).Equal(got), "subtotal %s: want %s got %s", tc.subtotal, tc.pct, got)
	}
}
