package main

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/MohamedAsif4008/Pahana-Edu-sub000/config"
	"github.com/MohamedAsif4008/Pahana-Edu-sub000/internal/billing"
	"github.com/MohamedAsif4008/Pahana-Edu-sub000/internal/handler"
	"github.com/MohamedAsif4008/Pahana-Edu-sub000/internal/middleware"
	"github.com/MohamedAsif4008/Pahana-Edu-sub000/internal/models"
	"github.com/MohamedAsif4008/Pahana-Edu-sub000/pkg/database"
)

func main() {
	config.LoadConfig()

	db, err := database.Connect(config.AppConfig.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Running migrations...")
	err = db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Item{},
		&models.StockEntry{},
		&models.Bill{},
		&models.BillItem{},
	)
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	database.SeedAdmin(db, config.AppConfig.Defaults)

	svc := billing.NewService(db, decimal.NewFromFloat(config.AppConfig.Billing.TaxCapPercent))

	if config.AppConfig.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(middleware.RequestID())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	authHandler := handler.NewAuthHandler(db)
	authRoutes := r.Group("/api/v1/auth")
	{
		authRoutes.POST("/login", authHandler.Login)
	}

	adminRoutes := r.Group("/api/v1/admin")
	adminRoutes.Use(middleware.Auth(models.PermManageUsers))
	{
		adminRoutes.POST("/users", authHandler.CreateUser)
		adminRoutes.GET("/users", authHandler.ListUsers)
	}

	inventoryHandler := handler.NewInventoryHandler(db, svc)
	r.GET("/api/v1/inventory/items", middleware.Auth(), inventoryHandler.ListItems)
	r.GET("/api/v1/inventory/items/:id/availability", middleware.Auth(), inventoryHandler.CheckAvailability)

	invRoutes := r.Group("/api/v1/inventory")
	invRoutes.Use(middleware.Auth(models.PermManageItems))
	{
		invRoutes.POST("/items", inventoryHandler.CreateItem)
		invRoutes.POST("/stock", inventoryHandler.AddStock)
		invRoutes.GET("/alerts", inventoryHandler.LowStockAlerts)
	}

	customerHandler := handler.NewCustomerHandler(db, svc)
	customerRoutes := r.Group("/api/v1/customers")
	customerRoutes.Use(middleware.Auth(models.PermManageCustomers))
	{
		customerRoutes.POST("", customerHandler.CreateCustomer)
		customerRoutes.GET("", customerHandler.SearchCustomers)
		customerRoutes.GET("/:account", customerHandler.GetCustomer)
		customerRoutes.GET("/:account/credit-check", customerHandler.CheckCredit)
		customerRoutes.PUT("/:account/credit-limit", customerHandler.UpdateCreditLimit)
		customerRoutes.PUT("/:account/deactivate", customerHandler.DeactivateCustomer)
	}

	billingHandler := handler.NewBillingHandler(svc)
	billingRoutes := r.Group("/api/v1/billing")
	billingRoutes.Use(middleware.Auth(models.PermCreateBill))
	{
		billingRoutes.POST("/bills", billingHandler.CreateBill)
		billingRoutes.GET("/bills", billingHandler.ListBills)
		billingRoutes.GET("/bills/range", billingHandler.BillsByDateRange)
		billingRoutes.GET("/bills/:billNo", billingHandler.GetBill)
		billingRoutes.PUT("/bills/:billNo/status", billingHandler.UpdateStatus)
		billingRoutes.POST("/bills/:billNo/payment", billingHandler.ProcessPayment)
		billingRoutes.POST("/bills/:billNo/items", billingHandler.AddItem)
		billingRoutes.DELETE("/bills/:billNo/items", billingHandler.RemoveItem)
		billingRoutes.PUT("/bills/:billNo/items", billingHandler.UpdateQuantity)
		billingRoutes.PUT("/bills/:billNo/discount", billingHandler.ApplyDiscount)
		billingRoutes.PUT("/bills/:billNo/tax", billingHandler.ApplyTax)
		billingRoutes.GET("/next-bill-no", billingHandler.NextBillNo)
		billingRoutes.GET("/my-sales", billingHandler.TodaySales)
		billingRoutes.GET("/customers/:account/bills", billingHandler.BillsByCustomer)
	}

	cancelRoutes := r.Group("/api/v1/billing")
	cancelRoutes.Use(middleware.Auth(models.PermCancelBill))
	{
		cancelRoutes.POST("/bills/:billNo/cancel", billingHandler.CancelBill)
	}

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	port := config.AppConfig.Server.Port
	log.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
