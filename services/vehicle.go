package services

import (
	"errors"
	"fmt"

	"parkirin/database"
	"parkirin/models"

	"gorm.io/gorm"
)

// VehicleInput 車輛描述資料更新輸入；車牌與類別在 check-in 時決定
type VehicleInput struct {
	CategoryKey string
	Color       string
	Model       string
	Year        *int
}

// ListVehicles 分頁列出車輛
func ListVehicles(page, limit int) ([]models.Vehicle, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	var total int64
	if err := database.DB.Model(&models.Vehicle{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count vehicles: %w", err)
	}

	var vehicles []models.Vehicle
	if err := database.DB.
		Order("vehicle_id DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&vehicles).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch vehicles: %w", err)
	}

	return vehicles, total, nil
}

// GetVehicleByPlate 依正規化車牌查詢車輛
func GetVehicleByPlate(plate string) (*models.Vehicle, error) {
	normalized := models.NormalizePlate(plate)
	if normalized == "" {
		return nil, fmt.Errorf("%w: nomor plat harus diisi", ErrValidation)
	}

	var vehicle models.Vehicle
	if err := database.DB.Where("plate = ?", normalized).First(&vehicle).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: kendaraan tidak ditemukan", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch vehicle %s: %w", normalized, err)
	}
	return &vehicle, nil
}

// UpdateVehicle 更新車輛描述資料
func UpdateVehicle(actor Actor, plate string, input VehicleInput) (*models.Vehicle, error) {
	vehicle, err := GetVehicleByPlate(plate)
	if err != nil {
		return nil, err
	}

	if input.CategoryKey != "" {
		vehicle.CategoryKey = input.CategoryKey
	}
	if input.Color != "" {
		vehicle.Color = input.Color
	}
	if input.Model != "" {
		vehicle.Model = input.Model
	}
	if input.Year != nil {
		vehicle.Year = *input.Year
	}

	if err := database.DB.Save(vehicle).Error; err != nil {
		return nil, fmt.Errorf("failed to update vehicle %s: %w", vehicle.Plate, err)
	}

	recordActivity(actor, "Update data kendaraan %s oleh %s", vehicle.Plate, actor.Name())
	return vehicle, nil
}

// DeleteVehicle 刪除車輛；有交易紀錄（含已結束）就拒絕
func DeleteVehicle(actor Actor, plate string) error {
	vehicle, err := GetVehicleByPlate(plate)
	if err != nil {
		return err
	}

	var referenced int64
	if err := database.DB.Model(&models.ParkingTransaction{}).
		Where("vehicle_id = ?", vehicle.VehicleID).
		Count(&referenced).Error; err != nil {
		return fmt.Errorf("failed to count transactions for vehicle %d: %w", vehicle.VehicleID, err)
	}
	if referenced > 0 {
		return fmt.Errorf("%w: tidak dapat menghapus kendaraan yang memiliki riwayat transaksi", ErrInvalidState)
	}

	if err := database.DB.Delete(vehicle).Error; err != nil {
		return fmt.Errorf("failed to delete vehicle %d: %w", vehicle.VehicleID, err)
	}

	recordActivity(actor, "Menghapus kendaraan %s oleh %s", vehicle.Plate, actor.Name())
	return nil
}
