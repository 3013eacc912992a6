package entities

import (
	"time"
)

// City is a dimension row keyed by its natural name. Cities are created on
// first reference from a meeting and never deleted.
type City struct {
	CityID    uint      `json:"city_id" gorm:"column:city_id;primaryKey;autoIncrement"`
	CityName  string    `json:"city_name" gorm:"column:city_name;type:varchar(255);uniqueIndex:idx_cities_city_name;not null"`
	State     string    `json:"state" gorm:"type:varchar(100);not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (City) TableName() string {
	return "cities"
}
