package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bill statuses. CANCELLED is terminal: no transition leaves it.
const (
	BillStatusPending   = "PENDING"
	BillStatusPaid      = "PAID"
	BillStatusCancelled = "CANCELLED"
)

// Payment methods accepted at the counter.
const (
	PaymentMethodCash = "CASH"
	PaymentMethodCard = "CARD"
)

type Bill struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	BillNo          string          `gorm:"size:20;uniqueIndex;not null" json:"bill_no"`
	CustomerAccount string          `gorm:"size:20;index;not null" json:"customer_account"`
	Customer        *Customer       `gorm:"foreignKey:CustomerAccount;references:AccountNumber" json:"customer,omitempty"`
	BillDate        time.Time       `gorm:"default:CURRENT_TIMESTAMP" json:"bill_date"`
	PaymentMethod   string          `gorm:"size:10;default:'CASH'" json:"payment_method"`
	Status          string          `gorm:"size:12;default:'PENDING'" json:"status"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	TaxAmount       decimal.Decimal `gorm:"type:decimal(10,2);default:0.00" json:"tax_amount"`
	DiscountAmount  decimal.Decimal `gorm:"type:decimal(10,2);default:0.00" json:"discount_amount"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	CreatedBy       string          `gorm:"size:20;not null" json:"created_by"`
	Notes           string          `gorm:"type:text" json:"notes"`
	Items           []BillItem      `gorm:"foreignKey:BillID" json:"items"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type BillItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	BillID    uint            `gorm:"index" json:"bill_id"`
	ItemID    uint            `gorm:"not null" json:"item_id"`
	ItemName  string          `gorm:"size:150" json:"item_name"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	LineTotal decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"line_total"`
}

// ValidPaymentMethod reports whether m is one of the accepted methods.
func ValidPaymentMethod(m string) bool {
	return m == PaymentMethodCash || m == PaymentMethodCard
}

// CanTransition reports whether a bill status change is allowed:
// PENDING -> PAID, PENDING|PAID -> CANCELLED. Nothing leaves CANCELLED.
func CanTransition(from, to string) bool {
	switch from {
	case BillStatusPending:
		return to == BillStatusPaid || to == BillStatusCancelled
	case BillStatusPaid:
		return to == BillStatusCancelled
	default:
		return false
	}
}
