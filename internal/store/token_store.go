package store

import (
	"context"
	"errors"

	"etailor-admin/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTokenStore is the database-backed TokenStore
type GormTokenStore struct {
	db *gorm.DB
}

// NewTokenStore creates a TokenStore over the given database handle
func NewTokenStore(db *gorm.DB) *GormTokenStore {
	return &GormTokenStore{db: db}
}

func (s *GormTokenStore) FindByToken(ctx context.Context, token string) (*model.RefreshToken, error) {
	var record model.RefreshToken
	if err := s.db.WithContext(ctx).Where("token = ?", token).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (s *GormTokenStore) FindByTokenAndAdmin(ctx context.Context, token string, adminID uint) (*model.RefreshToken, error) {
	var record model.RefreshToken
	err := s.db.WithContext(ctx).
		Where("token = ? AND admin_id = ?", token, adminID).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// Replace upserts on the admin_id unique index so concurrent logins for the
// same admin interleave to exactly one row.
func (s *GormTokenStore) Replace(ctx context.Context, token *model.RefreshToken) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "admin_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"token", "expires_at", "updated_at"}),
		}).
		Create(token).Error
}

func (s *GormTokenStore) Update(ctx context.Context, token *model.RefreshToken) error {
	return s.db.WithContext(ctx).
		Model(&model.RefreshToken{}).
		Where("id = ?", token.ID).
		Updates(map[string]interface{}{
			"token":      token.Token,
			"expires_at": token.ExpiresAt,
		}).Error
}

// DeleteByToken removes the matching record and reports how many rows went.
// Zero rows affected is fine, logout is idempotent.
func (s *GormTokenStore) DeleteByToken(ctx context.Context, token string) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("token = ?", token).
		Delete(&model.RefreshToken{})
	return result.RowsAffected, result.Error
}
