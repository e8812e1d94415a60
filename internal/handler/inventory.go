package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/MohamedAsif4008/Pahana-Edu-sub000/internal/billing"
	"github.com/MohamedAsif4008/Pahana-Edu-sub000/internal/models"
)

type InventoryHandler struct {
	db  *gorm.DB
	svc *billing.Service
}

func NewInventoryHandler(db *gorm.DB, svc *billing.Service) *InventoryHandler {
	return &InventoryHandler{db: db, svc: svc}
}

func (h *InventoryHandler) ListItems(c *gin.Context) {
	var items []models.Item
	if err := h.db.Where("is_active = ?", true).Order("name").Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch items"})
		return
	}
	c.JSON(http.StatusOK, items)
}

type CreateItemRequest struct {
	Name         string          `json:"name" binding:"required"`
	Author       string          `json:"author"`
	Category     string          `json:"category"`
	Price        decimal.Decimal `json:"price" binding:"required"`
	OpeningStock int             `json:"opening_stock"`
	ReorderLevel int             `json:"reorder_level"`
}

func (h *InventoryHandler) CreateItem(c *gin.Context) {
	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Price.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price must be positive"})
		return
	}
	if req.OpeningStock < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "opening stock must not be negative"})
		return
	}

	item := models.Item{
		Name:          req.Name,
		Author:        req.Author,
		Category:      req.Category,
		Price:         req.Price,
		StockQuantity: req.OpeningStock,
		ReorderLevel:  req.ReorderLevel,
		IsActive:      true,
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
		if req.OpeningStock > 0 {
			entry := models.StockEntry{
				ItemID:        item.ID,
				QuantityAdded: req.OpeningStock,
				AddedBy:       c.GetString("employeeID"),
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create item"})
		return
	}
	c.JSON(http.StatusCreated, item)
}

type AddStockRequest struct {
	ItemID   uint `json:"item_id" binding:"required"`
	Quantity int  `json:"quantity" binding:"required"`
}

func (h *InventoryHandler) AddStock(c *gin.Context) {
	var req AddStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Quantity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be positive"})
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := h.svc.Stock().WithTx(tx).Restore(req.ItemID, req.Quantity); err != nil {
			return err
		}
		entry := models.StockEntry{
			ItemID:        req.ItemID,
			QuantityAdded: req.Quantity,
			AddedBy:       c.GetString("employeeID"),
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Stock added"})
}

func (h *InventoryHandler) CheckAvailability(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}
	qty, err := strconv.Atoi(c.DefaultQuery("qty", "1"))
	if err != nil || qty <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "qty must be a positive integer"})
		return
	}
	available, err := h.svc.Stock().IsAvailable(uint(id), qty)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item_id": id, "quantity": qty, "available": available})
}

func (h *InventoryHandler) LowStockAlerts(c *gin.Context) {
	var items []models.Item
	err := h.db.Where("is_active = ? AND stock_quantity <= reorder_level", true).
		Order("stock_quantity").Find(&items).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch alerts"})
		return
	}
	c.JSON(http.StatusOK, items)
}
