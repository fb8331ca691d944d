package repositories

import (
	"context"
	"fmt"

	gormModels "climbing-gym/belay/internal/models/gorm"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PercentageRepository struct {
	db *gorm.DB
}

func NewPercentageRepository(db *gorm.DB) *PercentageRepository {
	return &PercentageRepository{db: db}
}

func (r *PercentageRepository) Get(ctx context.Context, userID uint) (*gormModels.UserDetailPercentage, error) {
	var p gormModels.UserDetailPercentage
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch percentage snapshot: %w", mapNotFound(err))
	}
	return &p, nil
}

// Upsert writes the snapshot keyed by user_id
func (r *PercentageRepository) Upsert(ctx context.Context, p *gormModels.UserDetailPercentage) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"basic_detail", "climbing_detail", "biometric_detail", "overall_detail", "updated_at"}),
		}).
		Create(p).Error
	if err != nil {
		return fmt.Errorf("failed to upsert percentage snapshot: %w", err)
	}
	return nil
}
