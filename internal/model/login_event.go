package model

import (
	"time"
)

// LoginEvent records a successful tailor sign-in. The dashboard joins the
// six most recent events with their tailors.
type LoginEvent struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	TailorID  uint      `json:"tailor_id" gorm:"index;not null"`
	LoginAt   time.Time `json:"login_time" gorm:"index"`
	IPAddress string    `json:"ip_address" gorm:"type:varchar(64)"`
	UserAgent string    `json:"user_agent" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
}
