package model

import (
	"time"
)

// RefreshToken is the server-side record of an outstanding refresh token.
// The unique index on AdminID enforces at most one valid token per admin;
// login replaces the row atomically via an upsert keyed on it.
//
// ExpiresAt is always decoded from the token's own exp claim so the store
// and the token can never disagree on expiry.
type RefreshToken struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Token     string    `json:"-" gorm:"type:text;index"`
	AdminID   uint      `json:"admin_id" gorm:"uniqueIndex;not null"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsExpired checks if the stored token is past its expiry
func (t *RefreshToken) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}
