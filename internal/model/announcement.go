package model

import (
	"time"

	"gorm.io/gorm"
)

// Audience selectors for announcements
const (
	SendToAll      = "All"
	SendToSpecific = "Specific"
)

// Announcement is a platform-wide notice pushed to tailors
type Announcement struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Title     string         `json:"title" gorm:"type:varchar(100);not null;uniqueIndex"`
	Image     string         `json:"announcement_image" gorm:"type:text"`
	Message   string         `json:"message" gorm:"type:varchar(1000);not null"`
	PublishAt time.Time      `json:"publish_date" gorm:"not null"`
	ExpiresAt time.Time      `json:"expiry_date" gorm:"not null"`
	SendTo    string         `json:"send_to" gorm:"type:varchar(20);not null;index"`
	Status    string         `json:"status" gorm:"type:varchar(20);default:'Active';index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
