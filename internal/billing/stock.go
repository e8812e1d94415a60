package billing

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/MohamedAsif4008/Pahana-Edu-sub000/internal/models"
)

// StockLedger guards item stock. Decrement is the only race-safe check:
// it is a single conditional UPDATE, so two concurrent sales of the last
// unit leave exactly one winner and stock never goes negative.
type StockLedger struct {
	db *gorm.DB
}

func NewStockLedger(db *gorm.DB) *StockLedger {
	return &StockLedger{db: db}
}

// WithTx returns a ledger bound to the given transaction handle so stock
// writes join the caller's atomic unit.
func (l *StockLedger) WithTx(tx *gorm.DB) *StockLedger {
	return &StockLedger{db: tx}
}

// IsAvailable reports whether the item is active and holds at least qty
// units. Advisory only: the authoritative check happens in Decrement.
func (l *StockLedger) IsAvailable(itemID uint, qty int) (bool, error) {
	var item models.Item
	if err := l.db.First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, fmt.Errorf("%w: item %d", ErrNotFound, itemID)
		}
		return false, err
	}
	return item.IsActive && item.StockQuantity >= qty, nil
}

// Decrement subtracts qty conditionally: the update only applies while the
// item is active and holds enough stock. Returns false, changing nothing,
// when the condition fails at write time.
func (l *StockLedger) Decrement(itemID uint, qty int) (bool, error) {
	if qty <= 0 {
		return false, validationf("decrement quantity %d must be positive", qty)
	}
	res := l.db.Model(&models.Item{}).
		Where("id = ? AND is_active = ? AND stock_quantity >= ?", itemID, true, qty).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Restore adds qty back unconditionally. Used only by cancellation, for
// quantities previously decremented by that same bill.
func (l *StockLedger) Restore(itemID uint, qty int) error {
	if qty <= 0 {
		return validationf("restore quantity %d must be positive", qty)
	}
	res := l.db.Model(&models.Item{}).
		Where("id = ?", itemID).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity + ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: item %d", ErrNotFound, itemID)
	}
	return nil
}
