package services

import (
	"errors"
	"fmt"

	"parkirin/database"
	"parkirin/models"

	"gorm.io/gorm"
)

// AreaInput 區域建立/更新輸入
type AreaInput struct {
	Name                string
	Capacity            *int
	SupportedCategories []string
	Status              string
}

func validAreaStatus(status string) bool {
	switch status {
	case models.AreaStatusActive, models.AreaStatusInactive, models.AreaStatusMaintenance:
		return true
	default:
		return false
	}
}

// ListAreas 分頁列出所有區域
func ListAreas(page, limit int) ([]models.ParkingArea, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	var total int64
	if err := database.DB.Model(&models.ParkingArea{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count areas: %w", err)
	}

	var areas []models.ParkingArea
	if err := database.DB.
		Order("area_id DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&areas).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch areas: %w", err)
	}

	return areas, total, nil
}

// GetAreaByID 查詢單一區域
func GetAreaByID(areaID int) (*models.ParkingArea, error) {
	var area models.ParkingArea
	if err := database.DB.First(&area, areaID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: area parkir tidak ditemukan", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch area %d: %w", areaID, err)
	}
	return &area, nil
}

// AreasByCategory 列出支援指定類別鍵的營運中區域
func AreasByCategory(categoryKey string) ([]models.ParkingArea, error) {
	if categoryKey == "" {
		return nil, fmt.Errorf("%w: jenis parkir harus diisi", ErrValidation)
	}

	var areas []models.ParkingArea
	if err := database.DB.
		Where("status = ?", models.AreaStatusActive).
		Order("area_id").
		Find(&areas).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch areas: %w", err)
	}

	// 支援類別存成 JSON 字串，過濾在應用層做
	filtered := make([]models.ParkingArea, 0, len(areas))
	for _, area := range areas {
		if area.Supports(categoryKey) {
			filtered = append(filtered, area)
		}
	}
	return filtered, nil
}

// CreateArea 新增區域
func CreateArea(actor Actor, input AreaInput) (*models.ParkingArea, error) {
	if input.Name == "" || input.Capacity == nil {
		return nil, fmt.Errorf("%w: nama area dan kapasitas wajib diisi", ErrValidation)
	}
	if *input.Capacity < 0 {
		return nil, fmt.Errorf("%w: kapasitas tidak boleh negatif", ErrValidation)
	}

	status := input.Status
	if status == "" {
		status = models.AreaStatusActive
	}
	if !validAreaStatus(status) {
		return nil, fmt.Errorf("%w: status area tidak valid", ErrValidation)
	}

	area := models.ParkingArea{
		Name:     input.Name,
		Capacity: *input.Capacity,
		Status:   status,
	}
	keys := input.SupportedCategories
	if len(keys) == 0 {
		keys = []string{models.DefaultSupportedCategory}
	}
	if err := area.SetSupportedCategoryKeys(keys); err != nil {
		return nil, fmt.Errorf("failed to encode supported categories: %w", err)
	}

	if err := database.DB.Create(&area).Error; err != nil {
		return nil, fmt.Errorf("failed to create area: %w", err)
	}

	recordActivity(actor, "Menambahkan area parkir %s oleh %s", area.Name, actor.Name())
	return &area, nil
}

// UpdateArea 更新區域，欄位為選填、省略即不動
func UpdateArea(actor Actor, areaID int, input AreaInput) (*models.ParkingArea, error) {
	area, err := GetAreaByID(areaID)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		area.Name = input.Name
	}
	if input.Capacity != nil {
		if *input.Capacity < 0 {
			return nil, fmt.Errorf("%w: kapasitas tidak boleh negatif", ErrValidation)
		}
		area.Capacity = *input.Capacity
	}
	if input.Status != "" {
		if !validAreaStatus(input.Status) {
			return nil, fmt.Errorf("%w: status area tidak valid", ErrValidation)
		}
		area.Status = input.Status
	}
	if input.SupportedCategories != nil {
		if len(input.SupportedCategories) == 0 {
			return nil, fmt.Errorf("%w: daftar jenis parkir tidak boleh kosong", ErrValidation)
		}
		if err := area.SetSupportedCategoryKeys(input.SupportedCategories); err != nil {
			return nil, fmt.Errorf("failed to encode supported categories: %w", err)
		}
	}

	if err := database.DB.Save(area).Error; err != nil {
		return nil, fmt.Errorf("failed to update area %d: %w", areaID, err)
	}

	recordActivity(actor, "Update area parkir %s oleh %s", area.Name, actor.Name())
	return area, nil
}

// DeleteArea 刪除區域；有交易紀錄引用時拒絕，保住歷史資料的參照
func DeleteArea(actor Actor, areaID int) error {
	area, err := GetAreaByID(areaID)
	if err != nil {
		return err
	}

	var referenced int64
	if err := database.DB.Model(&models.ParkingTransaction{}).
		Where("area_id = ?", areaID).
		Count(&referenced).Error; err != nil {
		return fmt.Errorf("failed to count transactions for area %d: %w", areaID, err)
	}
	if referenced > 0 {
		return fmt.Errorf("%w: tidak dapat menghapus area yang memiliki riwayat transaksi", ErrInvalidState)
	}

	if err := database.DB.Delete(area).Error; err != nil {
		return fmt.Errorf("failed to delete area %d: %w", areaID, err)
	}

	recordActivity(actor, "Menghapus area parkir %s oleh %s", area.Name, actor.Name())
	return nil
}
