package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/MohamedAsif4008/Pahana-Edu-sub000/internal/billing"
	"github.com/MohamedAsif4008/Pahana-Edu-sub000/internal/models"
)

func setupBillingRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Customer{}, &models.Item{},
		&models.StockEntry{}, &models.Bill{}, &models.BillItem{},
	))

	svc := billing.NewService(db, decimal.Decimal{})
	h := NewBillingHandler(svc)

	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("employeeID", "EMP001") })
	r.POST("/bills", h.CreateBill)
	r.GET("/bills/:billNo", h.GetBill)
	r.GET("/bills", h.ListBills)
	r.POST("/bills/:billNo/cancel", h.CancelBill)
	r.POST("/bills/:billNo/payment", h.ProcessPayment)
	r.PUT("/bills/:billNo/discount", h.ApplyDiscount)
	r.GET("/next-bill-no", h.NextBillNo)
	return r, db
}

func seedBillingFixtures(t *testing.T, db *gorm.DB) (models.Customer, models.Item) {
	t.Helper()
	customer := models.Customer{AccountNumber: "ACC00001", Name: "Walk-in", IsActive: true}
	require.NoError(t, db.Create(&customer).Error)
	item := models.Item{
		Name:          "Go in Action",
		Price:         decimal.RequireFromString("100.00"),
		StockQuantity: 5,
		IsActive:      true,
	}
	require.NoError(t, db.Create(&item).Error)
	return customer, item
}

func TestBillingHandlerCreateAndFetch(t *testing.T) {
	r, db := setupBillingRouter(t)
	_, item := seedBillingFixtures(t, db)

	body := fmt.Sprintf(`{"customer_account":"ACC00001","payment_method":"CASH","tax_percent":"10","items":[{"item_id":%d,"quantity":3}]}`, item.ID)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/bills", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created models.Bill
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Equal(t, "BILL000001", created.BillNo)
	require.True(t, decimal.RequireFromString("330.00").Equal(created.TotalAmount), "total %s", created.TotalAmount)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bills/BILL000001", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bills/BILL999999", nil))
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestBillingHandlerInsufficientStock(t *testing.T) {
	r, db := setupBillingRouter(t)
	_, item := seedBillingFixtures(t, db)

	body := fmt.Sprintf(`{"customer_account":"ACC00001","payment_method":"CASH","items":[{"item_id":%d,"quantity":9}]}`, item.ID)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/bills", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusConflict, w.Code, w.Body.String())

	var item2 models.Item
	require.NoError(t, db.First(&item2, item.ID).Error)
	require.Equal(t, 5, item2.StockQuantity, "failed create must not touch stock")
}

func TestBillingHandlerCancelTwice(t *testing.T) {
	r, db := setupBillingRouter(t)
	_, item := seedBillingFixtures(t, db)

	body := fmt.Sprintf(`{"customer_account":"ACC00001","payment_method":"CARD","items":[{"item_id":%d,"quantity":2}]}`, item.ID)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/bills", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/bills/BILL000001/cancel", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/bills/BILL000001/cancel", nil))
	require.Equal(t, http.StatusConflict, w.Code)

	var item2 models.Item
	require.NoError(t, db.First(&item2, item.ID).Error)
	require.Equal(t, 5, item2.StockQuantity)
}

func TestBillingHandlerDiscountValidation(t *testing.T) {
	r, db := setupBillingRouter(t)
	_, item := seedBillingFixtures(t, db)

	body := fmt.Sprintf(`{"customer_account":"ACC00001","payment_method":"CASH","items":[{"item_id":%d,"quantity":1}]}`, item.ID)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/bills", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPut, "/bills/BILL000001/discount", strings.NewReader(`{"percent":"110"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
}

func TestBillingHandlerNextBillNo(t *testing.T) {
	r, _ := setupBillingRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/next-bill-no", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "BILL000001")
}
