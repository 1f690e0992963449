package domain

import (
	"time"
)

// Location is a catalog entry. The catalog is loaded in bulk at startup and
// is read-only afterward.
type Location struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"location_id"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	Lat            float64   `gorm:"column:lat" json:"lat"`
	Lon            float64   `gorm:"column:lon" json:"lon"`
	Children       bool      `gorm:"column:children;not null" json:"children"`
	Breakfast      bool      `gorm:"column:breakfast;not null" json:"breakfast"`
	Lunch          bool      `gorm:"column:lunch;not null" json:"lunch"`
	Dinner         bool      `gorm:"column:dinner;not null" json:"dinner"`
	Price          float64   `gorm:"column:price;not null" json:"price"`
	HasPool        bool      `gorm:"column:has_pool;default:false" json:"has_pool"`
	HasSpa         bool      `gorm:"column:has_spa;default:false" json:"has_spa"`
	Animals        bool      `gorm:"column:animals;default:false" json:"animals"`
	NearLake       bool      `gorm:"column:near_lake;default:false" json:"near_lake"`
	NearMountains  bool      `gorm:"column:near_mountains;default:false" json:"near_mountains"`
	HasSport       bool      `gorm:"column:has_sport;default:false" json:"has_sport"`
	FamilyRating   float64   `gorm:"column:family_rating;not null" json:"family_rating"`
	OutdoorRating  float64   `gorm:"column:outdoor_rating;not null" json:"outdoor_rating"`
	FoodRating     float64   `gorm:"column:food_rating;not null" json:"food_rating"`
	LeisureRating  float64   `gorm:"column:leisure_rating;not null" json:"leisure_rating"`
	ServiceRating  float64   `gorm:"column:service_rating;not null" json:"service_rating"`
	UserScore      float64   `gorm:"column:user_score;not null" json:"user_score"`
}

func (Location) TableName() string {
	return "locations"
}
