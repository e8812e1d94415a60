package billing

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/MohamedAsif4008/Pahana-Edu-sub000/internal/models"
)

// billNoAttempts bounds the regenerate-and-retry loop when two creates race
// to the same bill number.
const billNoAttempts = 3

// Service coordinates bill transactions: it runs the pre-checks, computes
// totals, and performs every write inside one atomic unit. It owns the bill
// state machine.
type Service struct {
	db      *gorm.DB
	calc    *Calculator
	stock   *StockLedger
	credit  *CreditPolicy
	numbers *NumberGenerator
	taxCap  decimal.Decimal
}

// NewService builds a Service over an injected gorm handle. taxCapPct caps
// percentage tax application; pass zero to use the default of 30.
func NewService(db *gorm.DB, taxCapPct decimal.Decimal) *Service {
	if taxCapPct.IsZero() {
		taxCapPct = decimal.NewFromInt(30)
	}
	return &Service{
		db:      db,
		calc:    NewCalculator(),
		stock:   NewStockLedger(db),
		credit:  NewCreditPolicy(),
		numbers: NewNumberGenerator(db),
		taxCap:  taxCapPct,
	}
}

// Calculator exposes the pure numeric engine for callers that preview
// totals without persisting.
func (s *Service) Calculator() *Calculator { return s.calc }

// Stock exposes the stock ledger for read-side callers.
func (s *Service) Stock() *StockLedger { return s.stock }

// FindItem loads an active inventory item.
func (s *Service) FindItem(itemID uint) (*models.Item, error) {
	return s.findItem(itemID)
}

// GenerateNextBillNumber allocates the next human-readable bill number.
func (s *Service) GenerateNextBillNumber() (string, error) {
	return s.numbers.Next()
}

// RecalculateBill normalizes every line total and rederives subtotal and
// total from the bill's items and its absolute tax/discount amounts.
func (s *Service) RecalculateBill(bill *models.Bill) {
	for i := range bill.Items {
		bill.Items[i].LineTotal = s.calc.LineTotal(bill.Items[i].UnitPrice, bill.Items[i].Quantity)
	}
	bill.Subtotal, bill.TotalAmount = s.calc.Recalculate(bill.Items, bill.TaxAmount, bill.DiscountAmount)
}

// CanCustomerMakePurchase checks the credit policy for an account against a
// proposed total.
func (s *Service) CanCustomerMakePurchase(account string, total decimal.Decimal) (bool, error) {
	customer, err := s.findCustomer(s.db, account)
	if err != nil {
		return false, err
	}
	return s.credit.CanPurchase(customer, total), nil
}

// CreateBill validates, prices, and persists a bill together with its stock
// decrements in one atomic unit. On a bill-number collision the whole unit
// is retried with a fresh number.
func (s *Service) CreateBill(bill *models.Bill) error {
	if err := s.validateStructure(bill); err != nil {
		return err
	}

	customer, err := s.findCustomer(s.db, bill.CustomerAccount)
	if err != nil {
		return err
	}
	if !customer.IsActive {
		return validationf("customer %s is not active", customer.AccountNumber)
	}

	// Advisory stock pre-check so obvious shortfalls fail before any write.
	if err := s.precheckStock(bill.Items); err != nil {
		return err
	}

	s.RecalculateBill(bill)
	if !bill.TotalAmount.IsPositive() {
		return validationf("bill total must be positive, got %s", bill.TotalAmount)
	}
	if !s.credit.CanPurchase(customer, bill.TotalAmount) {
		return fmt.Errorf("%w: total %s over limit %s for %s",
			ErrCreditLimitExceeded, bill.TotalAmount, customer.CreditLimit, customer.AccountNumber)
	}

	if bill.BillDate.IsZero() {
		bill.BillDate = time.Now()
	}
	if bill.Status == "" {
		bill.Status = models.BillStatusPending
	}

	generated := bill.BillNo == ""
	for attempt := 0; attempt < billNoAttempts; attempt++ {
		if generated {
			no, err := s.numbers.Next()
			if err != nil {
				return persistErr(err)
			}
			bill.BillNo = no
		}

		err := s.db.Transaction(func(tx *gorm.DB) error {
			return s.persistBill(tx, bill)
		})
		if err == nil {
			return nil
		}
		bill.ID = 0
		for i := range bill.Items {
			bill.Items[i].ID = 0
			bill.Items[i].BillID = 0
		}
		if isDuplicateBillNo(err) {
			if generated {
				continue // lost the number race, regenerate and retry
			}
			return fmt.Errorf("%w: bill number %s already exists", ErrConcurrentConflict, bill.BillNo)
		}
		if isCoreError(err) {
			return err
		}
		return persistErr(err)
	}
	return fmt.Errorf("%w: could not allocate a unique bill number", ErrConcurrentConflict)
}

// persistBill writes the header, the lines, and the stock decrements using
// the given transaction handle. Any error aborts the whole unit.
func (s *Service) persistBill(tx *gorm.DB, bill *models.Bill) error {
	if err := tx.Omit("Items", "Customer").Create(bill).Error; err != nil {
		return err
	}

	ledger := s.stock.WithTx(tx)
	for i := range bill.Items {
		bill.Items[i].BillID = bill.ID
		if err := tx.Create(&bill.Items[i]).Error; err != nil {
			return err
		}
		ok, err := ledger.Decrement(bill.Items[i].ItemID, bill.Items[i].Quantity)
		if err != nil {
			return persistErr(err)
		}
		if !ok {
			// Lost the race since the advisory check; abort everything.
			return &InsufficientStockError{Items: []string{bill.Items[i].ItemName}}
		}
	}
	return nil
}

// FindBillByNumber loads a bill with its lines and customer.
func (s *Service) FindBillByNumber(billNo string) (*models.Bill, error) {
	var bill models.Bill
	err := s.db.Preload("Items").Preload("Customer").
		Where("bill_no = ?", billNo).First(&bill).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: bill %s", ErrNotFound, billNo)
	}
	if err != nil {
		return nil, persistErr(err)
	}
	return &bill, nil
}

// GetBillsByCustomer returns a customer's bills, newest first.
func (s *Service) GetBillsByCustomer(account string) ([]models.Bill, error) {
	var bills []models.Bill
	err := s.db.Preload("Items").
		Where("customer_account = ?", account).
		Order("bill_date DESC").Find(&bills).Error
	if err != nil {
		return nil, persistErr(err)
	}
	return bills, nil
}

// GetAllBills pages through all bills, newest first, returning the page and
// the overall count.
func (s *Service) GetAllBills(limit, offset int) ([]models.Bill, int64, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	var total int64
	if err := s.db.Model(&models.Bill{}).Count(&total).Error; err != nil {
		return nil, 0, persistErr(err)
	}
	var bills []models.Bill
	err := s.db.Preload("Items").
		Order("bill_date DESC").Limit(limit).Offset(offset).Find(&bills).Error
	if err != nil {
		return nil, 0, persistErr(err)
	}
	return bills, total, nil
}

// GetBillsByDateRange returns bills with bill_date in [from, to).
func (s *Service) GetBillsByDateRange(from, to time.Time) ([]models.Bill, error) {
	if to.Before(from) {
		return nil, validationf("date range end %s before start %s", to.Format(time.DateOnly), from.Format(time.DateOnly))
	}
	var bills []models.Bill
	err := s.db.Preload("Items").
		Where("bill_date >= ? AND bill_date < ?", from, to).
		Order("bill_date DESC").Find(&bills).Error
	if err != nil {
		return nil, persistErr(err)
	}
	return bills, nil
}

// UpdateBillStatus applies a state-machine-checked status change. A change
// to CANCELLED goes through CancelBill so stock is restored.
func (s *Service) UpdateBillStatus(billNo, status string) error {
	if status == models.BillStatusCancelled {
		return s.CancelBill(billNo)
	}
	bill, err := s.FindBillByNumber(billNo)
	if err != nil {
		return err
	}
	if !models.CanTransition(bill.Status, status) {
		return fmt.Errorf("%w: cannot move bill %s from %s to %s", ErrInvalidState, billNo, bill.Status, status)
	}
	if err := s.db.Model(bill).Update("status", status).Error; err != nil {
		return persistErr(err)
	}
	return nil
}

// CancelBill marks the bill CANCELLED and restores every line's stock in
// one atomic unit. CANCELLED is terminal; cancelling twice fails.
func (s *Service) CancelBill(billNo string) error {
	bill, err := s.FindBillByNumber(billNo)
	if err != nil {
		return err
	}
	if bill.Status == models.BillStatusCancelled {
		return fmt.Errorf("%w: bill %s is already cancelled", ErrInvalidState, billNo)
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Bill{}).Where("id = ?", bill.ID).
			Update("status", models.BillStatusCancelled).Error; err != nil {
			return err
		}
		ledger := s.stock.WithTx(tx)
		for _, it := range bill.Items {
			if err := ledger.Restore(it.ItemID, it.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if isCoreError(err) {
			return err
		}
		return persistErr(err)
	}
	return nil
}

// ProcessPayment records the payment method and moves the bill to PAID.
// Quantities do not change, so stock and credit are not re-checked.
func (s *Service) ProcessPayment(billNo, method string) error {
	if !models.ValidPaymentMethod(method) {
		return validationf("unknown payment method %q", method)
	}
	bill, err := s.FindBillByNumber(billNo)
	if err != nil {
		return err
	}
	if !models.CanTransition(bill.Status, models.BillStatusPaid) {
		return fmt.Errorf("%w: cannot pay bill %s in status %s", ErrInvalidState, billNo, bill.Status)
	}
	err = s.db.Model(&models.Bill{}).Where("id = ?", bill.ID).
		Updates(map[string]any{
			"payment_method": method,
			"status":         models.BillStatusPaid,
		}).Error
	if err != nil {
		return persistErr(err)
	}
	return nil
}

// AddItemToBill appends a line (or tops up an existing line for the same
// item) on a PENDING bill and re-runs the full persistence path.
func (s *Service) AddItemToBill(billNo string, itemID uint, qty int) error {
	if qty <= 0 {
		return validationf("quantity %d must be positive", qty)
	}
	item, err := s.findItem(itemID)
	if err != nil {
		return err
	}
	return s.rewriteBill(billNo, func(bill *models.Bill) error {
		for i := range bill.Items {
			if bill.Items[i].ItemID == itemID {
				bill.Items[i].Quantity += qty
				return nil
			}
		}
		bill.Items = append(bill.Items, models.BillItem{
			ItemID:    item.ID,
			ItemName:  item.Name,
			Quantity:  qty,
			UnitPrice: item.Price,
		})
		return nil
	})
}

// RemoveItemFromBill drops a line from a PENDING bill. The last line cannot
// be removed; cancel the bill instead.
func (s *Service) RemoveItemFromBill(billNo string, itemID uint) error {
	return s.rewriteBill(billNo, func(bill *models.Bill) error {
		for i := range bill.Items {
			if bill.Items[i].ItemID == itemID {
				if len(bill.Items) == 1 {
					return validationf("cannot remove the last item from bill %s", billNo)
				}
				bill.Items = append(bill.Items[:i], bill.Items[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("%w: item %d not on bill %s", ErrNotFound, itemID, billNo)
	})
}

// UpdateItemQuantity changes a line's quantity on a PENDING bill.
func (s *Service) UpdateItemQuantity(billNo string, itemID uint, qty int) error {
	if qty <= 0 {
		return validationf("quantity %d must be positive", qty)
	}
	return s.rewriteBill(billNo, func(bill *models.Bill) error {
		for i := range bill.Items {
			if bill.Items[i].ItemID == itemID {
				bill.Items[i].Quantity = qty
				return nil
			}
		}
		return fmt.Errorf("%w: item %d not on bill %s", ErrNotFound, itemID, billNo)
	})
}

// ApplyDiscount sets an absolute discount on a PENDING bill. The discount
// may not exceed the subtotal.
func (s *Service) ApplyDiscount(billNo string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return validationf("discount %s must not be negative", amount)
	}
	return s.updateAmounts(billNo, func(bill *models.Bill) error {
		if amount.GreaterThan(bill.Subtotal) {
			return validationf("discount %s exceeds subtotal %s", amount, bill.Subtotal)
		}
		bill.DiscountAmount = amount
		return nil
	})
}

// ApplyPercentageDiscount sets a 0..100 percentage discount of the subtotal.
func (s *Service) ApplyPercentageDiscount(billNo string, pct decimal.Decimal) error {
	return s.updateAmounts(billNo, func(bill *models.Bill) error {
		amount, err := s.calc.PercentageDiscount(bill.Subtotal, pct)
		if err != nil {
			return err
		}
		bill.DiscountAmount = amount
		return nil
	})
}

// ApplyAutoDiscount applies the subtotal-tier discount on explicit request.
func (s *Service) ApplyAutoDiscount(billNo string) error {
	return s.updateAmounts(billNo, func(bill *models.Bill) error {
		pct := s.calc.AutoDiscountTier(bill.Subtotal)
		amount, err := s.calc.PercentageDiscount(bill.Subtotal, pct)
		if err != nil {
			return err
		}
		bill.DiscountAmount = amount
		return nil
	})
}

// ApplyTax sets an absolute tax amount on a PENDING bill.
func (s *Service) ApplyTax(billNo string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return validationf("tax %s must not be negative", amount)
	}
	return s.updateAmounts(billNo, func(bill *models.Bill) error {
		bill.TaxAmount = amount
		return nil
	})
}

// ApplyPercentageTax sets a percentage tax of the subtotal, capped by the
// configured policy maximum.
func (s *Service) ApplyPercentageTax(billNo string, pct decimal.Decimal) error {
	if pct.GreaterThan(s.taxCap) {
		return validationf("tax percentage %s exceeds cap %s", pct, s.taxCap)
	}
	return s.updateAmounts(billNo, func(bill *models.Bill) error {
		amount, err := s.calc.PercentageTax(bill.Subtotal, pct)
		if err != nil {
			return err
		}
		bill.TaxAmount = amount
		return nil
	})
}

// --- internals ---

func (s *Service) validateStructure(bill *models.Bill) error {
	if bill == nil {
		return validationf("bill is nil")
	}
	if len(bill.Items) == 0 {
		return validationf("bill must have at least one item")
	}
	if !models.ValidPaymentMethod(bill.PaymentMethod) {
		return validationf("unknown payment method %q", bill.PaymentMethod)
	}
	if bill.CreatedBy == "" {
		return validationf("created_by is required")
	}
	if bill.CustomerAccount == "" {
		return validationf("customer account is required")
	}
	if bill.Status != "" && bill.Status != models.BillStatusPending {
		return validationf("new bills start as PENDING, got %s", bill.Status)
	}
	for _, it := range bill.Items {
		if it.Quantity <= 0 {
			return validationf("quantity %d must be positive for item %d", it.Quantity, it.ItemID)
		}
		if !it.UnitPrice.IsPositive() {
			return validationf("unit price %s must be positive for item %d", it.UnitPrice, it.ItemID)
		}
	}
	return nil
}

func (s *Service) findCustomer(db *gorm.DB, account string) (*models.Customer, error) {
	var customer models.Customer
	err := db.Where("account_number = ?", account).First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: customer %s", ErrNotFound, account)
	}
	if err != nil {
		return nil, persistErr(err)
	}
	return &customer, nil
}

func (s *Service) findItem(itemID uint) (*models.Item, error) {
	var item models.Item
	err := s.db.First(&item, itemID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: item %d", ErrNotFound, itemID)
	}
	if err != nil {
		return nil, persistErr(err)
	}
	if !item.IsActive {
		return nil, validationf("item %d is not active", itemID)
	}
	return &item, nil
}

func (s *Service) precheckStock(items []models.BillItem) error {
	var short []string
	for _, it := range items {
		ok, err := s.stock.IsAvailable(it.ItemID, it.Quantity)
		if err != nil {
			return err
		}
		if !ok {
			name := it.ItemName
			if name == "" {
				name = fmt.Sprintf("item %d", it.ItemID)
			}
			short = append(short, name)
		}
	}
	if len(short) > 0 {
		return &InsufficientStockError{Items: short}
	}
	return nil
}

// rewriteBill implements overwrite semantics for item mutations: restore the
// persisted lines' stock, delete them, then re-run the create path (stock
// and credit re-validated) inside one atomic unit.
func (s *Service) rewriteBill(billNo string, mutate func(*models.Bill) error) error {
	bill, err := s.FindBillByNumber(billNo)
	if err != nil {
		return err
	}
	if bill.Status != models.BillStatusPending {
		return fmt.Errorf("%w: bill %s is %s, only PENDING bills can be modified", ErrInvalidState, billNo, bill.Status)
	}

	old := make([]models.BillItem, len(bill.Items))
	copy(old, bill.Items)

	if err := mutate(bill); err != nil {
		return err
	}
	if len(bill.Items) == 0 {
		return validationf("bill must have at least one item")
	}

	s.RecalculateBill(bill)
	if !bill.TotalAmount.IsPositive() {
		return validationf("bill total must be positive, got %s", bill.TotalAmount)
	}
	customer, err := s.findCustomer(s.db, bill.CustomerAccount)
	if err != nil {
		return err
	}
	if !s.credit.CanPurchase(customer, bill.TotalAmount) {
		return fmt.Errorf("%w: total %s over limit %s for %s",
			ErrCreditLimitExceeded, bill.TotalAmount, customer.CreditLimit, customer.AccountNumber)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		ledger := s.stock.WithTx(tx)
		for _, it := range old {
			if err := ledger.Restore(it.ItemID, it.Quantity); err != nil {
				return err
			}
		}
		if err := tx.Where("bill_id = ?", bill.ID).Delete(&models.BillItem{}).Error; err != nil {
			return err
		}
		for i := range bill.Items {
			bill.Items[i].ID = 0
			bill.Items[i].BillID = bill.ID
			if err := tx.Create(&bill.Items[i]).Error; err != nil {
				return err
			}
			ok, err := ledger.Decrement(bill.Items[i].ItemID, bill.Items[i].Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return &InsufficientStockError{Items: []string{bill.Items[i].ItemName}}
			}
		}
		return tx.Model(&models.Bill{}).Where("id = ?", bill.ID).
			Updates(map[string]any{
				"subtotal":     bill.Subtotal,
				"total_amount": bill.TotalAmount,
			}).Error
	})
	if err != nil {
		if isCoreError(err) {
			return err
		}
		return persistErr(err)
	}
	return nil
}

// updateAmounts applies a tax/discount change to a PENDING bill and rewrites
// the derived amounts.
func (s *Service) updateAmounts(billNo string, set func(*models.Bill) error) error {
	bill, err := s.FindBillByNumber(billNo)
	if err != nil {
		return err
	}
	if bill.Status != models.BillStatusPending {
		return fmt.Errorf("%w: bill %s is %s, only PENDING bills can be modified", ErrInvalidState, billNo, bill.Status)
	}
	if err := set(bill); err != nil {
		return err
	}
	s.RecalculateBill(bill)
	err = s.db.Model(&models.Bill{}).Where("id = ?", bill.ID).
		Updates(map[string]any{
			"tax_amount":      bill.TaxAmount,
			"discount_amount": bill.DiscountAmount,
			"subtotal":        bill.Subtotal,
			"total_amount":    bill.TotalAmount,
		}).Error
	if err != nil {
		return persistErr(err)
	}
	return nil
}

// isCoreError reports whether err already carries one of the billing error
// kinds, so transaction plumbing does not re-wrap it as a persistence
// failure.
func isCoreError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInvalidState) ||
		errors.Is(err, ErrCreditLimitExceeded) ||
		errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrConcurrentConflict) ||
		errors.Is(err, ErrPersistence)
}

// isDuplicateBillNo detects a uniqueness conflict on the bill_no index
// across the supported drivers.
func isDuplicateBillNo(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || // sqlite
		strings.Contains(msg, "Duplicate entry") || // mysql
		strings.Contains(msg, "duplicate key value") // postgres
}
