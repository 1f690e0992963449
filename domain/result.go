package domain

// Result is one scored (job, location) pair. `shown` flips true when the row
// is surfaced to the caller; `label` flips 0 -> 1 on explicit feedback and is
// never reset.
type Result struct {
	ID         uint    `gorm:"primaryKey;autoIncrement" json:"result_id"`
	TaskID     string  `gorm:"column:task_id;not null;uniqueIndex:idx_results_task_location" json:"task_id"`
	UserID     uint    `gorm:"column:user_id;not null" json:"user_id"`
	LocationID uint    `gorm:"column:location_id;not null;uniqueIndex:idx_results_task_location" json:"location_id"`
	Score      float64 `gorm:"column:score;not null" json:"score"`
	Label      int     `gorm:"column:label;default:0" json:"label"`
	Shown      bool    `gorm:"column:shown;default:false" json:"shown"`

	User     *User     `gorm:"foreignKey:UserID" json:"-"`
	Location *Location `gorm:"foreignKey:LocationID" json:"-"`
}

func (Result) TableName() string {
	return "results"
}

// RankedLocation is the curation read model: a result's score joined with the
// attributes of the location it refers to.
type RankedLocation struct {
	LocationID    uint    `json:"location_id"`
	Score         float64 `json:"score"`
	Children      bool    `json:"children"`
	Breakfast     bool    `json:"breakfast"`
	Lunch         bool    `json:"lunch"`
	Dinner        bool    `json:"dinner"`
	Price         float64 `json:"price"`
	HasPool       bool    `json:"has_pool"`
	HasSpa        bool    `json:"has_spa"`
	Animals       bool    `json:"animals"`
	NearLake      bool    `json:"near_lake"`
	NearMountains bool    `json:"near_mountains"`
	HasSport      bool    `json:"has_sport"`
	FamilyRating  float64 `json:"family_rating"`
	OutdoorRating float64 `json:"outdoor_rating"`
	FoodRating    float64 `json:"food_rating"`
	LeisureRating float64 `json:"leisure_rating"`
	ServiceRating float64 `json:"service_rating"`
	UserScore     float64 `json:"user_score"`
}

// CuratedResult is one curated (shown) result joined with the user and
// location it was scored for: the raw material of a training dataset.
type CuratedResult struct {
	ResultID uint
	Label    int
	User     User
	Location Location
}

// FeedbackNone is the sentinel location id meaning "no selection made".
// Feedback carrying it is recorded as an audit event only.
const FeedbackNone = -1
