package models

import (
	"encoding/json"
	"time"
)

// 區域營運狀態
const (
	AreaStatusActive      = "aktif"
	AreaStatusInactive    = "nonaktif"
	AreaStatusMaintenance = "perbaikan"
)

// DefaultSupportedCategory 舊資料沒有宣告支援類別時的相容預設值
const DefaultSupportedCategory = "mobil"

// ParkingArea 實體停車區，有自己的容量與支援的計費類別
type ParkingArea struct {
	AreaID              int       `json:"area_id" gorm:"primaryKey;autoIncrement;column:area_id;type:INT"`
	Name                string    `json:"name" gorm:"size:100;not null" binding:"required"`
	Capacity            int       `json:"capacity" gorm:"not null;default:0" binding:"gte=0"`
	SupportedCategories string    `json:"-" gorm:"size:255;column:supported_categories"` // 類別鍵，存為 JSON 字串
	Status              string    `json:"status" gorm:"type:varchar(20);default:'aktif'"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// TableName 指定表名
func (ParkingArea) TableName() string {
	return "parking_area"
}

// SupportedCategoryKeys 解析支援的類別鍵；空值或壞資料時回傳相容預設值
func (a *ParkingArea) SupportedCategoryKeys() []string {
	if a.SupportedCategories == "" {
		return []string{DefaultSupportedCategory}
	}
	var keys []string
	if err := json.Unmarshal([]byte(a.SupportedCategories), &keys); err != nil || len(keys) == 0 {
		return []string{DefaultSupportedCategory}
	}
	return keys
}

// SetSupportedCategoryKeys 將類別鍵編碼存回 JSON 字串欄位
func (a *ParkingArea) SetSupportedCategoryKeys(keys []string) error {
	encoded, err := json.Marshal(keys)
	if err != nil {
		return err
	}
	a.SupportedCategories = string(encoded)
	return nil
}

// Supports 檢查區域是否支援指定的類別鍵
func (a *ParkingArea) Supports(categoryKey string) bool {
	for _, key := range a.SupportedCategoryKeys() {
		if key == categoryKey {
			return true
		}
	}
	return false
}

type ParkingAreaResponse struct {
	AreaID              int      `json:"area_id"`
	Name                string   `json:"name"`
	Capacity            int      `json:"capacity"`
	SupportedCategories []string `json:"supported_categories"`
	Status              string   `json:"status"`
}

func (a *ParkingArea) ToResponse() ParkingAreaResponse {
	return ParkingAreaResponse{
		AreaID:              a.AreaID,
		Name:                a.Name,
		Capacity:            a.Capacity,
		SupportedCategories: a.SupportedCategoryKeys(),
		Status:              a.Status,
	}
}

// AreaOccupancyResponse 區域即時佔用統計
type AreaOccupancyResponse struct {
	AreaID              int      `json:"area_id"`
	Name                string   `json:"name"`
	Capacity            int      `json:"capacity"`
	Occupied            int      `json:"occupied"`
	Remaining           int      `json:"remaining"`
	SupportedCategories []string `json:"supported_categories"`
	Status              string   `json:"status"`
}
