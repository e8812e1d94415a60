package billing

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/MohamedAsif4008/Pahana-Edu-sub000/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Item{},
		&models.StockEntry{},
		&models.Bill{},
		&models.BillItem{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedItem(t *testing.T, db *gorm.DB, name string, price string, stock int) models.Item {
	t.Helper()
	item := models.Item{
		Name:          name,
		Price:         dec(price),
		StockQuantity: stock,
		IsActive:      true,
	}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("seed item: %v", err)
	}
	return item
}

func seedCustomer(t *testing.T, db *gorm.DB, account string, creditLimit string) models.Customer {
	t.Helper()
	customer := models.Customer{
		AccountNumber: account,
		Name:          "Customer " + account,
		CreditLimit:   dec(creditLimit),
		IsActive:      true,
	}
	if err := db.Create(&customer).Error; err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	return customer
}

func stockOf(t *testing.T, db *gorm.DB, itemID uint) int {
	t.Helper()
	var item models.Item
	if err := db.First(&item, itemID).Error; err != nil {
		t.Fatalf("load item %d: %v", itemID, err)
	}
	return item.StockQuantity
}

func pendingBill(customer string, items ...models.BillItem) *models.Bill {
	return &models.Bill{
		CustomerAccount: customer,
		PaymentMethod:   models.PaymentMethodCash,
		CreatedBy:       "EMP001",
		Items:           items,
	}
}

func line(item models.Item, qty int) models.BillItem {
	return models.BillItem{
		ItemID:    item.ID,
		ItemName:  item.Name,
		Quantity:  qty,
		UnitPrice: item.Price,
	}
}

var noTaxCap = decimal.Decimal{}
