package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/MohamedAsif4008/Pahana-Edu-sub000/internal/billing"
	"github.com/MohamedAsif4008/Pahana-Edu-sub000/internal/models"
)

type BillingHandler struct {
	svc *billing.Service
}

func NewBillingHandler(svc *billing.Service) *BillingHandler {
	return &BillingHandler{svc: svc}
}

type BillItemRequest struct {
	ItemID   uint `json:"item_id" binding:"required"`
	Quantity int  `json:"quantity" binding:"required"`
}

type CreateBillRequest struct {
	CustomerAccount string            `json:"customer_account" binding:"required"`
	PaymentMethod   string            `json:"payment_method" binding:"required"`
	TaxPercent      *decimal.Decimal  `json:"tax_percent"`
	DiscountPercent *decimal.Decimal  `json:"discount_percent"`
	Notes           string            `json:"notes"`
	Items           []BillItemRequest `json:"items" binding:"required"`
}

func (h *BillingHandler) CreateBill(c *gin.Context) {
	var req CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bill := models.Bill{
		CustomerAccount: req.CustomerAccount,
		PaymentMethod:   req.PaymentMethod,
		CreatedBy:       c.GetString("employeeID"),
		Notes:           req.Notes,
	}
	calc := h.svc.Calculator()
	for _, it := range req.Items {
		item, err := h.svc.FindItem(it.ItemID)
		if err != nil {
			abortWithError(c, err)
			return
		}
		bill.Items = append(bill.Items, models.BillItem{
			ItemID:    item.ID,
			ItemName:  item.Name,
			Quantity:  it.Quantity,
			UnitPrice: item.Price,
			LineTotal: calc.LineTotal(item.Price, it.Quantity),
		})
	}

	subtotal := calc.Subtotal(bill.Items)
	if req.TaxPercent != nil {
		tax, err := calc.PercentageTax(subtotal, *req.TaxPercent)
		if err != nil {
			abortWithError(c, err)
			return
		}
		bill.TaxAmount = tax
	}
	if req.DiscountPercent != nil {
		discount, err := calc.PercentageDiscount(subtotal, *req.DiscountPercent)
		if err != nil {
			abortWithError(c, err)
			return
		}
		bill.DiscountAmount = discount
	}

	if err := h.svc.CreateBill(&bill); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, bill)
}

func (h *BillingHandler) GetBill(c *gin.Context) {
	bill, err := h.svc.FindBillByNumber(c.Param("billNo"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, bill)
}

func (h *BillingHandler) ListBills(c *gin.Context) {
	var q struct {
		Limit  int `form:"limit,default=10"`
		Offset int `form:"offset,default=0"`
	}
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	bills, total, err := h.svc.GetAllBills(q.Limit, q.Offset)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":   bills,
		"total":  total,
		"limit":  q.Limit,
		"offset": q.Offset,
	})
}

func (h *BillingHandler) BillsByCustomer(c *gin.Context) {
	bills, err := h.svc.GetBillsByCustomer(c.Param("account"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, bills)
}

func (h *BillingHandler) BillsByDateRange(c *gin.Context) {
	from, err := time.Parse(time.DateOnly, c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from must be YYYY-MM-DD"})
		return
	}
	to, err := time.Parse(time.DateOnly, c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to must be YYYY-MM-DD"})
		return
	}
	// Inclusive end date: the range is [from, to+1d).
	bills, err := h.svc.GetBillsByDateRange(from, to.Add(24*time.Hour))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, bills)
}

func (h *BillingHandler) CancelBill(c *gin.Context) {
	if err := h.svc.CancelBill(c.Param("billNo")); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Bill cancelled, stock restored"})
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *BillingHandler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.UpdateBillStatus(c.Param("billNo"), req.Status); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Status updated"})
}

type PaymentRequest struct {
	Method string `json:"method" binding:"required"`
}

func (h *BillingHandler) ProcessPayment(c *gin.Context) {
	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.ProcessPayment(c.Param("billNo"), req.Method); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payment recorded"})
}

type AddItemRequest struct {
	ItemID   uint `json:"item_id" binding:"required"`
	Quantity int  `json:"quantity" binding:"required"`
}

func (h *BillingHandler) AddItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.AddItemToBill(c.Param("billNo"), req.ItemID, req.Quantity); err != nil {
		abortWithError(c, err)
		return
	}
	h.GetBill(c)
}

func (h *BillingHandler) RemoveItem(c *gin.Context) {
	var req struct {
		ItemID uint `json:"item_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.RemoveItemFromBill(c.Param("billNo"), req.ItemID); err != nil {
		abortWithError(c, err)
		return
	}
	h.GetBill(c)
}

type UpdateQuantityRequest struct {
	ItemID   uint `json:"item_id" binding:"required"`
	Quantity int  `json:"quantity" binding:"required"`
}

func (h *BillingHandler) UpdateQuantity(c *gin.Context) {
	var req UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.UpdateItemQuantity(c.Param("billNo"), req.ItemID, req.Quantity); err != nil {
		abortWithError(c, err)
		return
	}
	h.GetBill(c)
}

type DiscountRequest struct {
	Amount  *decimal.Decimal `json:"amount"`
	Percent *decimal.Decimal `json:"percent"`
	Auto    bool             `json:"auto"`
}

func (h *BillingHandler) ApplyDiscount(c *gin.Context) {
	var req DiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	billNo := c.Param("billNo")
	var err error
	switch {
	case req.Auto:
		err = h.svc.ApplyAutoDiscount(billNo)
	case req.Percent != nil:
		err = h.svc.ApplyPercentageDiscount(billNo, *req.Percent)
	case req.Amount != nil:
		err = h.svc.ApplyDiscount(billNo, *req.Amount)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount, percent, or auto required"})
		return
	}
	if err != nil {
		abortWithError(c, err)
		return
	}
	h.GetBill(c)
}

type TaxRequest struct {
	Amount  *decimal.Decimal `json:"amount"`
	Percent *decimal.Decimal `json:"percent"`
}

func (h *BillingHandler) ApplyTax(c *gin.Context) {
	var req TaxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	billNo := c.Param("billNo")
	var err error
	switch {
	case req.Percent != nil:
		err = h.svc.ApplyPercentageTax(billNo, *req.Percent)
	case req.Amount != nil:
		err = h.svc.ApplyTax(billNo, *req.Amount)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount or percent required"})
		return
	}
	if err != nil {
		abortWithError(c, err)
		return
	}
	h.GetBill(c)
}

func (h *BillingHandler) NextBillNo(c *gin.Context) {
	no, err := h.svc.GenerateNextBillNumber()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"next_bill_no": no})
}

func (h *BillingHandler) TodaySales(c *gin.Context) {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	bills, err := h.svc.GetBillsByDateRange(start, start.Add(24*time.Hour))
	if err != nil {
		abortWithError(c, err)
		return
	}
	total := decimal.Zero
	for _, b := range bills {
		if b.Status != models.BillStatusCancelled {
			total = total.Add(b.TotalAmount)
		}
	}
	recent := bills
	if len(recent) > 5 {
		recent = recent[:5]
	}
	c.JSON(http.StatusOK, gin.H{
		"sales":        total,
		"bill_count":   len(bills),
		"recent_bills": recent,
	})
}
