package models

import "time"

// VehicleCategory 停車計費類別（例如 mobil、motor），與實體停車區分開。
// CategoryKey 是穩定的查詢鍵，取代舊系統以數字 id 寫死的對應表
type VehicleCategory struct {
	CategoryID  int       `json:"category_id" gorm:"primaryKey;autoIncrement;column:category_id;type:INT"`
	Name        string    `json:"name" gorm:"size:50;not null" binding:"required"`
	CategoryKey string    `json:"category_key" gorm:"size:30;uniqueIndex;not null" binding:"required"`
	Description string    `json:"description,omitempty" gorm:"size:255"`
	Capacity    int       `json:"capacity" gorm:"default:0"`
	EntryFee    int64     `json:"entry_fee" gorm:"not null;default:0"`  // 首小時費用（Rupiah）
	HourlyFee   int64     `json:"hourly_fee" gorm:"not null;default:0"` // 之後每小時費用（Rupiah）
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName 指定表名
func (VehicleCategory) TableName() string {
	return "vehicle_category"
}
