package services

import (
	"errors"
	"fmt"

	"parkirin/database"
	"parkirin/models"

	"gorm.io/gorm"
)

// AreaOccupancy 列出營運中區域的即時佔用統計，可依類別鍵過濾。
// occupied 是該區域未結束交易的筆數；remaining 永遠不為負，
// 即使並發讓佔用短暫超過容量
func AreaOccupancy(categoryKey string) ([]models.AreaOccupancyResponse, error) {
	var areas []models.ParkingArea
	if err := database.DB.
		Where("status = ?", models.AreaStatusActive).
		Order("area_id").
		Find(&areas).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch active areas: %w", err)
	}

	results := make([]models.AreaOccupancyResponse, 0, len(areas))
	for _, area := range areas {
		if categoryKey != "" && !area.Supports(categoryKey) {
			continue
		}

		occupied, err := countOpenInArea(area.AreaID)
		if err != nil {
			return nil, err
		}

		remaining := area.Capacity - occupied
		if remaining < 0 {
			remaining = 0
		}

		results = append(results, models.AreaOccupancyResponse{
			AreaID:              area.AreaID,
			Name:                area.Name,
			Capacity:            area.Capacity,
			Occupied:            occupied,
			Remaining:           remaining,
			SupportedCategories: area.SupportedCategoryKeys(),
			Status:              area.Status,
		})
	}

	return results, nil
}

// GetAreaOccupancyByID 單一區域的佔用統計
func GetAreaOccupancyByID(areaID int) (*models.AreaOccupancyResponse, error) {
	var area models.ParkingArea
	if err := database.DB.First(&area, areaID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: area parkir tidak ditemukan", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch area %d: %w", areaID, err)
	}

	occupied, err := countOpenInArea(area.AreaID)
	if err != nil {
		return nil, err
	}

	remaining := area.Capacity - occupied
	if remaining < 0 {
		remaining = 0
	}

	return &models.AreaOccupancyResponse{
		AreaID:              area.AreaID,
		Name:                area.Name,
		Capacity:            area.Capacity,
		Occupied:            occupied,
		Remaining:           remaining,
		SupportedCategories: area.SupportedCategoryKeys(),
		Status:              area.Status,
	}, nil
}

// CategoryOccupancy 依計費類別統計未結束交易數（跨所有區域）
func CategoryOccupancy(categoryKey string) (int, error) {
	var category models.VehicleCategory
	if err := database.DB.Where("category_key = ?", categoryKey).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("%w: jenis parkir tidak ditemukan", ErrNotFound)
		}
		return 0, fmt.Errorf("failed to resolve category key %s: %w", categoryKey, err)
	}

	var occupied int64
	if err := database.DB.Model(&models.ParkingTransaction{}).
		Where("category_id = ? AND exit_time IS NULL", category.CategoryID).
		Count(&occupied).Error; err != nil {
		return 0, fmt.Errorf("failed to count open transactions for category %s: %w", categoryKey, err)
	}

	return int(occupied), nil
}

func countOpenInArea(areaID int) (int, error) {
	var occupied int64
	if err := database.DB.Model(&models.ParkingTransaction{}).
		Where("area_id = ? AND exit_time IS NULL", areaID).
		Count(&occupied).Error; err != nil {
		return 0, fmt.Errorf("failed to count occupancy for area %d: %w", areaID, err)
	}
	return int(occupied), nil
}
