package domain

import (
	"time"
)

// User is the immutable snapshot of one inference request's party attributes.
// Rows are created once per submitted inference and never updated.
type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"user_id"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	Name         string    `gorm:"column:name;not null" json:"name"`
	PeopleNum    int       `gorm:"column:people_num;not null" json:"people_num"`
	ChildrenNum  int       `gorm:"column:children_num;not null" json:"children_num"`
	AgeAvg       float64   `gorm:"column:age_avg;not null" json:"age_avg"`
	AgeStd       float64   `gorm:"column:age_std;not null" json:"age_std"`
	AgeMin       float64   `gorm:"column:age_min;not null" json:"age_min"`
	AgeMax       float64   `gorm:"column:age_max;not null" json:"age_max"`
	Budget       float64   `gorm:"column:budget;not null" json:"budget"`
	Nights       int       `gorm:"column:nights;not null" json:"nights"`
	TimeArrival  time.Time `gorm:"column:time_arrival" json:"time_arrival"`
	Pool         bool      `gorm:"column:pool;default:false" json:"pool"`
	Spa          bool      `gorm:"column:spa;default:false" json:"spa"`
	PetFriendly  bool      `gorm:"column:pet_friendly;default:false" json:"pet_friendly"`
	Lake         bool      `gorm:"column:lake;default:false" json:"lake"`
	Mountain     bool      `gorm:"column:mountain;default:false" json:"mountain"`
	Sport        bool      `gorm:"column:sport;default:false" json:"sport"`
}

func (User) TableName() string {
	return "users"
}
