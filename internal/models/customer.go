package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Customer struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	AccountNumber string          `gorm:"size:20;uniqueIndex;not null" json:"account_number"`
	Name          string          `gorm:"size:100;not null" json:"name"`
	Address       string          `gorm:"type:text" json:"address"`
	Phone         string          `gorm:"size:15" json:"phone"`
	CreditLimit   decimal.Decimal `gorm:"type:decimal(10,2);default:0.00" json:"credit_limit"` // 0 = unlimited
	IsActive      bool            `gorm:"default:true" json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
