package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ashok-rai/meetingbank-pipeline/internal/domain/entities"
)

// CityRepository handles city dimension data operations
type CityRepository struct {
	db *gorm.DB
}

// NewCityRepository creates a new city repository
func NewCityRepository(db *gorm.DB) *CityRepository {
	return &CityRepository{db: db}
}

// FindByNames returns the existing rows for the given city names
func (r *CityRepository) FindByNames(ctx context.Context, names []string) ([]*entities.City, error) {
	if len(names) == 0 {
		return nil, nil
	}
	var cities []*entities.City
	if err := r.db.WithContext(ctx).Where("city_name IN ?", names).Find(&cities).Error; err != nil {
		return nil, err
	}
	return cities, nil
}

// UpsertChunk writes a chunk of cities, updating state in place on a
// city_name conflict
func (r *CityRepository) UpsertChunk(ctx context.Context, cities []*entities.City) error {
	if len(cities) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "city_name"}},
			DoUpdates: clause.AssignmentColumns([]string{"state"}),
		}).
		Create(&cities).Error
}

// MapIDsByName returns the city_name to city_id mapping for the given names
func (r *CityRepository) MapIDsByName(ctx context.Context, names []string) (map[string]uint, error) {
	mapping := make(map[string]uint, len(names))
	if len(names) == 0 {
		return mapping, nil
	}

	var rows []entities.City
	if err := r.db.WithContext(ctx).
		Select("city_id", "city_name").
		Where("city_name IN ?", names).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		mapping[row.CityName] = row.CityID
	}
	return mapping, nil
}
