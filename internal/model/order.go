package model

import (
	"time"

	"gorm.io/gorm"
)

// Order is a tailoring order. Read-only here; the aggregation engine sums
// amounts and counts distinct customers over a date window.
type Order struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	TailorID   uint           `json:"tailor_id" gorm:"index;not null"`
	CustomerID uint           `json:"customer_id" gorm:"index;not null"`
	Amount     float64        `json:"amount" gorm:"not null"`
	Status     string         `json:"status" gorm:"type:varchar(20);default:'pending'"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
}
