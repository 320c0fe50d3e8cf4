package models

import (
	"strings"
	"time"
)

// Vehicle 車輛表：以正規化後的車牌為唯一鍵，首次 check-in 時自動建立
type Vehicle struct {
	VehicleID   int       `json:"vehicle_id" gorm:"primaryKey;autoIncrement;column:vehicle_id;type:INT"`
	Plate       string    `json:"plate" gorm:"size:20;uniqueIndex;not null;column:plate" binding:"required"`
	CategoryKey string    `json:"category_key" gorm:"size:30;column:category_key"` // 預設計費類別鍵
	Color       string    `json:"color,omitempty" gorm:"size:20"`
	Model       string    `json:"model,omitempty" gorm:"size:50"`
	Year        int       `json:"year,omitempty" gorm:"default:0"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName 指定表名
func (Vehicle) TableName() string {
	return "vehicle"
}

// NormalizePlate 車牌正規化：去除前後空白並轉大寫，比對一律用這個形式
func NormalizePlate(plate string) string {
	return strings.ToUpper(strings.TrimSpace(plate))
}

type VehicleResponse struct {
	VehicleID   int    `json:"vehicle_id"`
	Plate       string `json:"plate"`
	CategoryKey string `json:"category_key"`
	Color       string `json:"color,omitempty"`
	Model       string `json:"model,omitempty"`
	Year        int    `json:"year,omitempty"`
	CreatedAt   string `json:"created_at"`
}

func (v *Vehicle) ToResponse() VehicleResponse {
	return VehicleResponse{
		VehicleID:   v.VehicleID,
		Plate:       v.Plate,
		CategoryKey: v.CategoryKey,
		Color:       v.Color,
		Model:       v.Model,
		Year:        v.Year,
		CreatedAt:   v.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
