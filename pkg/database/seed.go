package database

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"stayRank/domain"
	postgresRepo "stayRank/internal/repository/postgres"
	"stayRank/pkg/config"
	"stayRank/pkg/logger"

	"gorm.io/gorm"
)

// Seed populates an empty database: the location catalog from the TSV file
// and a baseline model row pointing at the pre-trained artifact directory, so
// inference has a champion to serve from the first request.
func Seed(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	locationRepo := postgresRepo.NewLocationRepository(db)
	modelRepo := postgresRepo.NewModelRepository(db)

	nLocations, err := locationRepo.Count(ctx)
	if err != nil {
		return err
	}

	if nLocations == 0 {
		logger.Info("no locations found, seeding catalog", "file", cfg.Training.CatalogFile)

		locs, err := readCatalog(cfg.Training.CatalogFile)
		if err != nil {
			return err
		}

		if err := locationRepo.BulkCreate(ctx, locs); err != nil {
			return err
		}

		logger.Info("catalog seeded", "locations", len(locs))
	}

	nModels, err := modelRepo.Count(ctx)
	if err != nil {
		return err
	}

	if nModels == 0 {
		logger.Info("no models found, registering baseline model")

		baseline := domain.Model{
			TaskID:      "baseline_model",
			Status:      domain.ModelStatusSucceeded,
			Path:        filepath.Join(cfg.Training.ArtifactRoot, "original"),
			UsageWeight: 1.0,
		}
		if err := modelRepo.Create(ctx, &baseline); err != nil {
			return err
		}
	}

	return nil
}

// readCatalog parses the tab-separated locations file. Columns: children,
// breakfast, lunch, dinner, price, has_pool, has_spa, animals, near_lake,
// near_mountains, has_sport, family_rating, outdoor_rating, food_rating,
// leisure_rating, service_rating, user_score. Booleans are 0/1.
func readCatalog(path string) ([]domain.Location, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = '\t'

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("catalog file %s has no data rows", path)
	}

	header := records[0]
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}

	field := func(row []string, name string) (string, error) {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return "", fmt.Errorf("catalog file missing column %q", name)
		}
		return row[i], nil
	}

	boolField := func(row []string, name string) (bool, error) {
		s, err := field(row, name)
		if err != nil {
			return false, err
		}
		return s == "1" || s == "true" || s == "True", nil
	}

	floatField := func(row []string, name string) (float64, error) {
		s, err := field(row, name)
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("catalog column %q: %w", name, err)
		}
		return v, nil
	}

	locs := make([]domain.Location, 0, len(records)-1)
	for _, row := range records[1:] {
		var loc domain.Location
		var err error

		// Coordinates are optional in older catalog exports.
		if _, ok := col["lat"]; ok {
			if loc.Lat, err = floatField(row, "lat"); err != nil {
				return nil, err
			}
			if loc.Lon, err = floatField(row, "lon"); err != nil {
				return nil, err
			}
		}

		if loc.Children, err = boolField(row, "children"); err != nil {
			return nil, err
		}
		if loc.Breakfast, err = boolField(row, "breakfast"); err != nil {
			return nil, err
		}
		if loc.Lunch, err = boolField(row, "lunch"); err != nil {
			return nil, err
		}
		if loc.Dinner, err = boolField(row, "dinner"); err != nil {
			return nil, err
		}
		if loc.Price, err = floatField(row, "price"); err != nil {
			return nil, err
		}
		if loc.HasPool, err = boolField(row, "has_pool"); err != nil {
			return nil, err
		}
		if loc.HasSpa, err = boolField(row, "has_spa"); err != nil {
			return nil, err
		}
		if loc.Animals, err = boolField(row, "animals"); err != nil {
			return nil, err
		}
		if loc.NearLake, err = boolField(row, "near_lake"); err != nil {
			return nil, err
		}
		if loc.NearMountains, err = boolField(row, "near_mountains"); err != nil {
			return nil, err
		}
		if loc.HasSport, err = boolField(row, "has_sport"); err != nil {
			return nil, err
		}
		if loc.FamilyRating, err = floatField(row, "family_rating"); err != nil {
			return nil, err
		}
		if loc.OutdoorRating, err = floatField(row, "outdoor_rating"); err != nil {
			return nil, err
		}
		if loc.FoodRating, err = floatField(row, "food_rating"); err != nil {
			return nil, err
		}
		if loc.LeisureRating, err = floatField(row, "leisure_rating"); err != nil {
			return nil, err
		}
		if loc.ServiceRating, err = floatField(row, "service_rating"); err != nil {
			return nil, err
		}
		if loc.UserScore, err = floatField(row, "user_score"); err != nil {
			return nil, err
		}

		locs = append(locs, loc)
	}

	return locs, nil
}
