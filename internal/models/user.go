package models

import (
	"time"

	"gorm.io/gorm"
)

// Role is a closed set: admin or staff. Permissions are resolved through an
// explicit lookup table rather than a roles table.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

// Permission names an operation a user may be allowed to perform.
type Permission string

const (
	PermManageUsers     Permission = "users:manage"
	PermManageItems     Permission = "items:manage"
	PermManageCustomers Permission = "customers:manage"
	PermCreateBill      Permission = "bills:create"
	PermCancelBill      Permission = "bills:cancel"
	PermViewReports     Permission = "reports:view"
)

var rolePermissions = map[Role]map[Permission]bool{
	RoleAdmin: {
		PermManageUsers:     true,
		PermManageItems:     true,
		PermManageCustomers: true,
		PermCreateBill:      true,
		PermCancelBill:      true,
		PermViewReports:     true,
	},
	RoleStaff: {
		PermManageCustomers: true,
		PermCreateBill:      true,
		PermCancelBill:      true,
	},
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleStaff
}

// Can reports whether the role holds the given permission.
func (r Role) Can(p Permission) bool {
	return rolePermissions[r][p]
}

type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	EmployeeID   string         `gorm:"size:20;uniqueIndex;not null" json:"employee_id"`
	Username     string         `gorm:"size:50;not null" json:"username"`
	PasswordHash string         `gorm:"size:255;not null" json:"-"`
	Role         Role           `gorm:"size:20;not null;default:'staff'" json:"role"`
	IsActive     bool           `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
