package model

import (
	"time"
)

// AppConfiguration is the singleton-per-appName branding record
type AppConfiguration struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	AppName        string    `json:"app_name" gorm:"type:varchar(100);uniqueIndex;not null"`
	AppLogo        string    `json:"app_logo" gorm:"type:text"`
	PrimaryColor   string    `json:"primary_color" gorm:"type:varchar(50);not null"`
	SecondaryColor string    `json:"secondary_color" gorm:"type:varchar(50);not null"`
	AboutUs        string    `json:"about_us" gorm:"type:text"`
	ContactEmails  string    `json:"contact_emails" gorm:"type:text"` // comma-separated
	SupportPhones  string    `json:"support_phones" gorm:"type:text"` // comma-separated
	Facebook       string    `json:"facebook" gorm:"type:text"`
	Twitter        string    `json:"twitter" gorm:"type:text"`
	Instagram      string    `json:"instagram" gorm:"type:text"`
	Youtube        string    `json:"youtube" gorm:"type:text"`
	Linkedin       string    `json:"linkedin" gorm:"type:text"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
