package services

import (
	"errors"
	"fmt"

	"parkirin/database"
	"parkirin/models"

	"gorm.io/gorm"
)

// CategoryInput 計費類別建立/更新輸入，費用單位為 Rupiah
type CategoryInput struct {
	Name        string
	CategoryKey string
	Description string
	Capacity    *int
	EntryFee    *int64
	HourlyFee   *int64
}

// ListCategories 分頁列出計費類別
func ListCategories(page, limit int) ([]models.VehicleCategory, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	var total int64
	if err := database.DB.Model(&models.VehicleCategory{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count categories: %w", err)
	}

	var categories []models.VehicleCategory
	if err := database.DB.
		Order("category_id DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&categories).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch categories: %w", err)
	}

	return categories, total, nil
}

// GetCategoryByID 查詢單一類別
func GetCategoryByID(categoryID int) (*models.VehicleCategory, error) {
	var category models.VehicleCategory
	if err := database.DB.First(&category, categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: jenis parkir tidak ditemukan", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch category %d: %w", categoryID, err)
	}
	return &category, nil
}

// CreateCategory 新增計費類別；CategoryKey 是穩定查詢鍵，必填且唯一
func CreateCategory(actor Actor, input CategoryInput) (*models.VehicleCategory, error) {
	if input.Name == "" || input.CategoryKey == "" {
		return nil, fmt.Errorf("%w: nama jenis dan category_key wajib diisi", ErrValidation)
	}
	if (input.EntryFee != nil && *input.EntryFee < 0) || (input.HourlyFee != nil && *input.HourlyFee < 0) {
		return nil, fmt.Errorf("%w: tarif tidak boleh negatif", ErrValidation)
	}

	category := models.VehicleCategory{
		Name:        input.Name,
		CategoryKey: input.CategoryKey,
		Description: input.Description,
	}
	if input.Capacity != nil {
		category.Capacity = *input.Capacity
	}
	if input.EntryFee != nil {
		category.EntryFee = *input.EntryFee
	}
	if input.HourlyFee != nil {
		category.HourlyFee = *input.HourlyFee
	}

	if err := database.DB.Create(&category).Error; err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	recordActivity(actor, "Menambahkan jenis parkir %s oleh %s", category.Name, actor.Name())
	return &category, nil
}

// UpdateCategory 更新類別，欄位為選填
func UpdateCategory(actor Actor, categoryID int, input CategoryInput) (*models.VehicleCategory, error) {
	category, err := GetCategoryByID(categoryID)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		category.Name = input.Name
	}
	if input.CategoryKey != "" {
		category.CategoryKey = input.CategoryKey
	}
	if input.Description != "" {
		category.Description = input.Description
	}
	if input.Capacity != nil {
		category.Capacity = *input.Capacity
	}
	if input.EntryFee != nil {
		if *input.EntryFee < 0 {
			return nil, fmt.Errorf("%w: tarif tidak boleh negatif", ErrValidation)
		}
		category.EntryFee = *input.EntryFee
	}
	if input.HourlyFee != nil {
		if *input.HourlyFee < 0 {
			return nil, fmt.Errorf("%w: tarif tidak boleh negatif", ErrValidation)
		}
		category.HourlyFee = *input.HourlyFee
	}

	if err := database.DB.Save(category).Error; err != nil {
		return nil, fmt.Errorf("failed to update category %d: %w", categoryID, err)
	}

	recordActivity(actor, "Update jenis parkir %s oleh %s", category.Name, actor.Name())
	return category, nil
}

// DeleteCategory 刪除類別；有交易紀錄引用時拒絕
func DeleteCategory(actor Actor, categoryID int) error {
	category, err := GetCategoryByID(categoryID)
	if err != nil {
		return err
	}

	var referenced int64
	if err := database.DB.Model(&models.ParkingTransaction{}).
		Where("category_id = ?", categoryID).
		Count(&referenced).Error; err != nil {
		return fmt.Errorf("failed to count transactions for category %d: %w", categoryID, err)
	}
	if referenced > 0 {
		return fmt.Errorf("%w: tidak dapat menghapus jenis parkir yang memiliki riwayat transaksi", ErrInvalidState)
	}

	if err := database.DB.Delete(category).Error; err != nil {
		return fmt.Errorf("failed to delete category %d: %w", categoryID, err)
	}

	recordActivity(actor, "Menghapus jenis parkir %s oleh %s", category.Name, actor.Name())
	return nil
}
