package billing

import (
	"github.com/shopspring/decimal"

	"github.com/MohamedAsif4008/Pahana-Edu-sub000/internal/models"
)

// Calculator is the pure numeric engine for bills. It never touches the
// database; every derived amount is rounded to 2 decimal places, half up.
type Calculator struct{}

func NewCalculator() *Calculator { return &Calculator{} }

var hundred = decimal.NewFromInt(100)

func round2(d decimal.Decimal) decimal.Decimal {
	// decimal.Round is round-half-away-from-zero, which is half-up for the
	// non-negative amounts handled here.
	return d.Round(2)
}

// LineTotal returns unitPrice * quantity rounded to the currency unit.
func (c *Calculator) LineTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return round2(unitPrice.Mul(decimal.NewFromInt(int64(quantity))))
}

// Subtotal sums the line totals of the given items.
func (c *Calculator) Subtotal(items []models.BillItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.LineTotal)
	}
	return round2(sum)
}

// Recalculate derives subtotal and total from the item list and the given
// absolute tax and discount amounts. total = max(0, subtotal+tax-discount).
func (c *Calculator) Recalculate(items []models.BillItem, tax, discount decimal.Decimal) (subtotal, total decimal.Decimal) {
	subtotal = c.Subtotal(items)
	total = round2(subtotal.Add(tax).Sub(discount))
	if total.IsNegative() {
		total = decimal.Zero
	}
	return subtotal, total
}

// PercentageDiscount converts a 0..100 percentage into an absolute discount
// on the subtotal. Out-of-range percentages are rejected.
func (c *Calculator) PercentageDiscount(subtotal, pct decimal.Decimal) (decimal.Decimal, error) {
	if pct.IsNegative() || pct.GreaterThan(hundred) {
		return decimal.Zero, validationf("discount percentage %s out of range 0-100", pct)
	}
	return round2(subtotal.Mul(pct).Div(hundred)), nil
}

// PercentageTax converts a non-negative percentage into an absolute tax
// amount on the subtotal. The policy cap (30% by default) is enforced by
// the Service, not here.
func (c *Calculator) PercentageTax(subtotal, pct decimal.Decimal) (decimal.Decimal, error) {
	if pct.IsNegative() {
		return decimal.Zero, validationf("tax percentage %s must not be negative", pct)
	}
	return round2(subtotal.Mul(pct).Div(hundred)), nil
}

// AutoDiscountTier returns the tiered discount percentage for a subtotal:
// >=10000 -> 10%, >=5000 -> 5%, >=2000 -> 2%, else 0. It is only applied
// when a caller explicitly asks for it.
func (c *Calculator) AutoDiscountTier(subtotal decimal.Decimal) decimal.Decimal {
	switch {
	case subtotal.GreaterThanOrEqual(decimal.NewFromInt(10000)):
		return decimal.NewFromInt(10)
	case subtotal.GreaterThanOrEqual(decimal.NewFromInt(5000)):
		return decimal.NewFromInt(5)
	case subtotal.GreaterThanOrEqual(decimal.NewFromInt(2000)):
		return decimal.NewFromInt(2)
	default:
		return decimal.Zero
	}
}
