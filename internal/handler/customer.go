package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/MohamedAsif4008/Pahana-Edu-sub000/internal/billing"
	"github.com/MohamedAsif4008/Pahana-Edu-sub000/internal/models"
)

const accountPrefix = "ACC"

type CustomerHandler struct {
	db  *gorm.DB
	svc *billing.Service
}

func NewCustomerHandler(db *gorm.DB, svc *billing.Service) *CustomerHandler {
	return &CustomerHandler{db: db, svc: svc}
}

// nextAccountNumber allocates ACC + 5-digit sequential account numbers the
// same way bill numbers are allocated.
func (h *CustomerHandler) nextAccountNumber() (string, error) {
	var last models.Customer
	err := h.db.Select("account_number").
		Where("account_number LIKE ?", accountPrefix+"%").
		Order("account_number DESC").First(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Sprintf("%s%05d", accountPrefix, 1), nil
	}
	if err != nil {
		return "", err
	}
	n, err := strconv.Atoi(strings.TrimPrefix(last.AccountNumber, accountPrefix))
	if err != nil {
		return "", fmt.Errorf("malformed account number %q: %w", last.AccountNumber, err)
	}
	return fmt.Sprintf("%s%05d", accountPrefix, n+1), nil
}

type CreateCustomerRequest struct {
	Name        string           `json:"name" binding:"required"`
	Address     string           `json:"address"`
	Phone       string           `json:"phone"`
	CreditLimit *decimal.Decimal `json:"credit_limit"`
}

func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var req CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, err := h.nextAccountNumber()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to allocate account number"})
		return
	}
	customer := models.Customer{
		AccountNumber: account,
		Name:          req.Name,
		Address:       req.Address,
		Phone:         req.Phone,
		IsActive:      true,
	}
	if req.CreditLimit != nil {
		if req.CreditLimit.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "credit limit must not be negative"})
			return
		}
		customer.CreditLimit = *req.CreditLimit
	}
	if err := h.db.Create(&customer).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create customer"})
		return
	}
	c.JSON(http.StatusCreated, customer)
}

func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	var customer models.Customer
	err := h.db.Where("account_number = ?", c.Param("account")).First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch customer"})
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *CustomerHandler) SearchCustomers(c *gin.Context) {
	query := c.Query("q")
	customers := []models.Customer{}
	if query == "" {
		h.db.Limit(20).Order("name").Find(&customers)
	} else {
		h.db.Where("name LIKE ? OR phone LIKE ? OR account_number LIKE ?",
			"%"+query+"%", "%"+query+"%", "%"+query+"%").Find(&customers)
	}
	c.JSON(http.StatusOK, customers)
}

// CheckCredit previews whether the account can carry a proposed total.
func (h *CustomerHandler) CheckCredit(c *gin.Context) {
	total, err := decimal.NewFromString(c.Query("total"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "total must be a decimal amount"})
		return
	}
	ok, err := h.svc.CanCustomerMakePurchase(c.Param("account"), total)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"account": c.Param("account"), "total": total, "allowed": ok})
}

type UpdateCreditLimitRequest struct {
	CreditLimit decimal.Decimal `json:"credit_limit"`
}

func (h *CustomerHandler) UpdateCreditLimit(c *gin.Context) {
	var req UpdateCreditLimitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.CreditLimit.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "credit limit must not be negative"})
		return
	}
	res := h.db.Model(&models.Customer{}).
		Where("account_number = ?", c.Param("account")).
		Update("credit_limit", req.CreditLimit)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update credit limit"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Credit limit updated"})
}

func (h *CustomerHandler) DeactivateCustomer(c *gin.Context) {
	res := h.db.Model(&models.Customer{}).
		Where("account_number = ?", c.Param("account")).
		Update("is_active", false)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate customer"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer deactivated"})
}
