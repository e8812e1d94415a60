package billing

import (
	"github.com/shopspring/decimal"

	"github.com/MohamedAsif4008/Pahana-Edu-sub000/internal/models"
)

// CreditPolicy decides whether a customer may be billed a given total.
// A credit limit of zero means unlimited.
type CreditPolicy struct{}

func NewCreditPolicy() *CreditPolicy { return &CreditPolicy{} }

// CanPurchase is checked against the final total, after tax and discount.
func (p *CreditPolicy) CanPurchase(customer *models.Customer, total decimal.Decimal) bool {
	if customer == nil || !customer.IsActive {
		return false
	}
	if customer.CreditLimit.IsZero() {
		return true
	}
	return total.LessThanOrEqual(customer.CreditLimit)
}
