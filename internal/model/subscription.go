package model

import (
	"time"

	"gorm.io/gorm"
)

// Subscription represents a billing plan assignment. Revenue accrues on the
// row and is consulted by the aggregation engine; the schema permits a tailor
// to hold several rows, reporting picks the one with the latest end date.
type Subscription struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	PlanName     string         `json:"plan_name" gorm:"type:varchar(50);not null"`
	Price        float64        `json:"price" gorm:"not null"`
	Duration     int            `json:"duration" gorm:"not null"` // days
	Description  string         `json:"description" gorm:"type:text"`
	MaxCustomers *int           `json:"max_customers,omitempty"`
	Status       string         `json:"status" gorm:"type:varchar(20);default:'Active';index"`
	TailorID     *uint          `json:"tailor_id,omitempty" gorm:"index"`
	Revenue      float64        `json:"revenue" gorm:"default:0"`
	StartDate    time.Time      `json:"start_date"`
	EndDate      time.Time      `json:"end_date"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}
