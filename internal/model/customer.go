package model

import (
	"time"

	"gorm.io/gorm"
)

// Customer is an end customer of a tailoring shop. Read by the aggregation
// engine; never mutated by this service.
type Customer struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"type:varchar(100);not null"`
	Email       string         `json:"email" gorm:"type:varchar(100);uniqueIndex;not null"`
	Phone       string         `json:"phone" gorm:"type:varchar(20);not null"`
	TailorID    *uint          `json:"tailor_id,omitempty" gorm:"index"`
	TotalOrders int            `json:"total_orders" gorm:"default:0"`
	LastOrderAt *time.Time     `json:"last_order,omitempty"`
	Status      string         `json:"status" gorm:"type:varchar(20);default:'active'"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}
