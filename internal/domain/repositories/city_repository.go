package repositories

import (
	"context"

	"github.com/ashok-rai/meetingbank-pipeline/internal/domain/entities"
)

// CityRepository defines data access for the cities dimension table.
type CityRepository interface {
	// FindByNames returns the existing rows for the given city names.
	FindByNames(ctx context.Context, names []string) ([]*entities.City, error)

	// UpsertChunk writes a chunk of cities, updating state in place on a
	// city_name conflict.
	UpsertChunk(ctx context.Context, cities []*entities.City) error

	// MapIDsByName returns the city_name to city_id mapping for the given
	// names.
	MapIDsByName(ctx context.Context, names []string) (map[string]uint, error)
}
