package model

import (
	"fmt"

	"stayRank/domain"
)

// FeatureNames is the canonical ordered feature list: the user snapshot
// columns followed by the location columns. Training records this list in the
// artifact metadata and inference assembles matrices against whatever list
// the loaded artifact declares.
func FeatureNames() []string {
	return []string{
		"people_num",
		"children_num",
		"age_avg",
		"age_std",
		"age_min",
		"age_max",
		"budget",
		"nights",
		"pool",
		"spa",
		"pet_friendly",
		"lake",
		"mountain",
		"sport",
		"children",
		"breakfast",
		"lunch",
		"dinner",
		"price",
		"has_pool",
		"has_spa",
		"animals",
		"near_lake",
		"near_mountains",
		"has_sport",
		"family_rating",
		"outdoor_rating",
		"food_rating",
		"leisure_rating",
		"service_rating",
		"user_score",
	}
}

// Vector assembles one feature row for a (user, location) pair in the exact
// order of names. Unknown names are an error: the assembly is validated
// against the pipeline's declared list instead of trusting any implicit
// merge order.
func Vector(user domain.User, loc domain.Location, names []string) ([]float64, error) {
	row := make([]float64, len(names))

	for i, name := range names {
		v, ok := featureValue(user, loc, name)
		if !ok {
			return nil, fmt.Errorf("unknown feature %q", name)
		}
		row[i] = v
	}

	return row, nil
}

// Matrix assembles one row per location for a single user.
func Matrix(user domain.User, locs []domain.Location, names []string) ([][]float64, error) {
	X := make([][]float64, len(locs))

	for i, loc := range locs {
		row, err := Vector(user, loc, names)
		if err != nil {
			return nil, err
		}
		X[i] = row
	}

	return X, nil
}

func featureValue(user domain.User, loc domain.Location, name string) (float64, bool) {
	switch name {
	case "people_num":
		return float64(user.PeopleNum), true
	case "children_num":
		return float64(user.ChildrenNum), true
	case "age_avg":
		return user.AgeAvg, true
	case "age_std":
		return user.AgeStd, true
	case "age_min":
		return user.AgeMin, true
	case "age_max":
		return user.AgeMax, true
	case "budget":
		return user.Budget, true
	case "nights":
		return float64(user.Nights), true
	case "pool":
		return b2f(user.Pool), true
	case "spa":
		return b2f(user.Spa), true
	case "pet_friendly":
		return b2f(user.PetFriendly), true
	case "lake":
		return b2f(user.Lake), true
	case "mountain":
		return b2f(user.Mountain), true
	case "sport":
		return b2f(user.Sport), true
	case "children":
		return b2f(loc.Children), true
	case "breakfast":
		return b2f(loc.Breakfast), true
	case "lunch":
		return b2f(loc.Lunch), true
	case "dinner":
		return b2f(loc.Dinner), true
	case "price":
		return loc.Price, true
	case "has_pool":
		return b2f(loc.HasPool), true
	case "has_spa":
		return b2f(loc.HasSpa), true
	case "animals":
		return b2f(loc.Animals), true
	case "near_lake":
		return b2f(loc.NearLake), true
	case "near_mountains":
		return b2f(loc.NearMountains), true
	case "has_sport":
		return b2f(loc.HasSport), true
	case "family_rating":
		return loc.FamilyRating, true
	case "outdoor_rating":
		return loc.OutdoorRating, true
	case "food_rating":
		return loc.FoodRating, true
	case "leisure_rating":
		return loc.LeisureRating, true
	case "service_rating":
		return loc.ServiceRating, true
	case "user_score":
		return loc.UserScore, true
	}

	return 0, false
}

func b2f(b bool) float64 {
	if b {
		return 1.0
	}
	return 0.0
}
