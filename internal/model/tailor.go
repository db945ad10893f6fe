package model

import (
	"time"

	"gorm.io/gorm"
)

// Tailor statuses and categories accepted by registration and updates.
const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

// Tailor represents a tailoring shop account, the unit of multi-tenancy.
// Lifecycle is soft: referencing records keep their tailor id and the shop
// is flipped to Inactive instead of being removed from joins.
type Tailor struct {
	ID               uint           `json:"id" gorm:"primaryKey"`
	ShopName         string         `json:"shop_name" gorm:"type:varchar(100);not null"`
	OwnerName        string         `json:"owner_name" gorm:"type:varchar(50);not null"`
	Phone            string         `json:"phone" gorm:"type:varchar(20);uniqueIndex;not null"`
	Email            string         `json:"email" gorm:"type:varchar(100);uniqueIndex;not null"`
	Password         string         `json:"-" gorm:"type:varchar(255);not null"`
	SubscriptionPlan string         `json:"subscription_plan" gorm:"type:varchar(50);default:'Basic'"`
	Logo             string         `json:"logo" gorm:"type:text"`
	Category         string         `json:"category" gorm:"type:varchar(20);default:'Both'"`
	Status           string         `json:"status" gorm:"type:varchar(20);default:'Active';index"`
	Address          string         `json:"address" gorm:"type:varchar(200)"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Subscriptions []Subscription `json:"-" gorm:"foreignKey:TailorID"`
	Orders        []Order        `json:"-" gorm:"foreignKey:TailorID"`
}

// Safe returns the tailor projection without the password hash
func (t *Tailor) Safe() map[string]interface{} {
	return map[string]interface{}{
		"id":                t.ID,
		"shop_name":         t.ShopName,
		"owner_name":        t.OwnerName,
		"phone":             t.Phone,
		"email":             t.Email,
		"subscription_plan": t.SubscriptionPlan,
		"logo":              t.Logo,
		"category":          t.Category,
		"status":            t.Status,
		"address":           t.Address,
		"created_at":        t.CreatedAt,
	}
}
