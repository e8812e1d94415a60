package database

import (
	"errors"
	"log"

	"gorm.io/gorm"

	"github.com/MohamedAsif4008/Pahana-Edu-sub000/config"
	"github.com/MohamedAsif4008/Pahana-Edu-sub000/internal/models"
	"github.com/MohamedAsif4008/Pahana-Edu-sub000/internal/utils"
)

// SeedAdmin creates the default admin user from config if it does not
// already exist.
func SeedAdmin(db *gorm.DB, defaults config.DefaultsConfig) {
	if defaults.AdminEmployeeID == "" || defaults.AdminPassword == "" {
		log.Println("Admin seed skipped: ADMIN_EMPLOYEE_ID or ADMIN_PASSWORD not set")
		return
	}

	var admin models.User
	err := db.Where("employee_id = ?", defaults.AdminEmployeeID).First(&admin).Error
	if err == nil {
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Admin seed lookup failed: %v", err)
		return
	}

	hash, err := utils.HashPassword(defaults.AdminPassword)
	if err != nil {
		log.Printf("Failed to hash admin password: %v", err)
		return
	}
	admin = models.User{
		EmployeeID:   defaults.AdminEmployeeID,
		Username:     "Administrator",
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Printf("Failed to seed admin user: %v", err)
		return
	}
	log.Println("Admin user seeded successfully.")
}
