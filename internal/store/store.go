package store

import (
	"context"
	"errors"

	"etailor-admin/internal/model"
)

// ErrNotFound is returned when a lookup matches no record
var ErrNotFound = errors.New("record not found")

// AdminStore reads administrator credential records
type AdminStore interface {
	FindByEmail(ctx context.Context, email string) (*model.Admin, error)
	FindByID(ctx context.Context, id uint) (*model.Admin, error)
}

// TokenStore owns the durable refresh-token records. All mutations are
// single-row operations keyed by token value or owning admin.
type TokenStore interface {
	FindByToken(ctx context.Context, token string) (*model.RefreshToken, error)
	FindByTokenAndAdmin(ctx context.Context, token string, adminID uint) (*model.RefreshToken, error)
	// Replace upserts the record keyed by admin id, guaranteeing exactly one
	// row per admin even under concurrent logins.
	Replace(ctx context.Context, token *model.RefreshToken) error
	// Update rotates an existing record in place: same row, new token value
	// and expiry.
	Update(ctx context.Context, token *model.RefreshToken) error
	// DeleteByToken removes the matching record if any and reports the number
	// of rows removed; deleting a missing token is not an error.
	DeleteByToken(ctx context.Context, token string) (int64, error)
}

// LoginEventStore appends login audit records
type LoginEventStore interface {
	Record(ctx context.Context, event *model.LoginEvent) error
}
