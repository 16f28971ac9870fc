package models

import (
	"time"
)

// Staff roles. Manager implicitly holds every permission.
const (
	RoleManager = "manager"
	RoleChef    = "chef"
	RoleWaiter  = "waiter"
	RoleCashier = "cashier"
)

type User struct {
	ID           string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Username     string     `gorm:"type:varchar(80);uniqueIndex;not null" json:"username"`
	Email        string     `gorm:"type:varchar(120);uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"type:varchar(255);not null" json:"-"`
	Role         string     `gorm:"type:varchar(20);not null;default:'waiter'" json:"role"`
	FullName     string     `gorm:"type:varchar(150)" json:"full_name"`
	IsActive     bool       `gorm:"default:true" json:"is_active"`
	LastLogin    *time.Time `json:"last_login"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
