package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Item struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Name          string          `gorm:"size:150;not null" json:"name"`
	Author        string          `gorm:"size:100" json:"author"`
	Category      string          `gorm:"size:100;index" json:"category"`
	Price         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	StockQuantity int             `gorm:"default:0" json:"stock_quantity"`
	ReorderLevel  int             `gorm:"default:10" json:"reorder_level"`
	IsActive      bool            `gorm:"default:true" json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`
}

// StockEntry records a manual restock. Sale decrements are not logged here;
// they are reconstructable from bill items.
type StockEntry struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ItemID        uint      `gorm:"not null" json:"item_id"`
	Item          Item      `gorm:"foreignKey:ItemID" json:"item"`
	QuantityAdded int       `gorm:"not null" json:"quantity_added"`
	AddedBy       string    `gorm:"size:20" json:"added_by"`
	EntryDate     time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"entry_date"`
}
