package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/ashok-rai/meetingbank-pipeline/internal/domain/entities"
)

// LoadRunRepository persists per-invocation audit rows
type LoadRunRepository struct {
	db *gorm.DB
}

// NewLoadRunRepository creates a new load run repository
func NewLoadRunRepository(db *gorm.DB) *LoadRunRepository {
	return &LoadRunRepository{db: db}
}

// Create persists the audit row for one load invocation
func (r *LoadRunRepository) Create(ctx context.Context, run *entities.LoadRun) error {
	if run == nil {
		return errors.New("load run cannot be nil")
	}
	return r.db.WithContext(ctx).Create(run).Error
}
