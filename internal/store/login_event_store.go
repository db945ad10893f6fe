package store

import (
	"context"

	"etailor-admin/internal/model"

	"gorm.io/gorm"
)

// GormLoginEventStore is the database-backed LoginEventStore
type GormLoginEventStore struct {
	db *gorm.DB
}

// NewLoginEventStore creates a LoginEventStore over the given database handle
func NewLoginEventStore(db *gorm.DB) *GormLoginEventStore {
	return &GormLoginEventStore{db: db}
}

func (s *GormLoginEventStore) Record(ctx context.Context, event *model.LoginEvent) error {
	return s.db.WithContext(ctx).Create(event).Error
}
