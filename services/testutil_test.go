package services

import (
	"testing"

	"parkirin/database"
	"parkirin/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB 每個測試用獨立的 in-memory SQLite，直接掛到 database.DB
func setupTestDB(t *testing.T) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Vehicle{},
		&models.VehicleCategory{},
		&models.ParkingArea{},
		&models.ParkingTransaction{},
		&models.ActivityLog{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	database.DB = db
}

func seedCategory(t *testing.T, name, key string, entryFee, hourlyFee int64) *models.VehicleCategory {
	t.Helper()

	category := models.VehicleCategory{
		Name:        name,
		CategoryKey: key,
		EntryFee:    entryFee,
		HourlyFee:   hourlyFee,
	}
	if err := database.DB.Create(&category).Error; err != nil {
		t.Fatalf("failed to seed category %s: %v", key, err)
	}
	return &category
}

func seedArea(t *testing.T, name string, capacity int, supportedKeys []string) *models.ParkingArea {
	t.Helper()

	area := models.ParkingArea{
		Name:     name,
		Capacity: capacity,
		Status:   models.AreaStatusActive,
	}
	if supportedKeys != nil {
		if err := area.SetSupportedCategoryKeys(supportedKeys); err != nil {
			t.Fatalf("failed to encode supported categories: %v", err)
		}
	}
	if err := database.DB.Create(&area).Error; err != nil {
		t.Fatalf("failed to seed area %s: %v", name, err)
	}
	return &area
}
