package models

import "time"

// 付款狀態：核心只用 unpaid / paid 兩態
const (
	PaymentStatusUnpaid = "unpaid"
	PaymentStatusPaid   = "paid"
)

// 付款方式
const (
	PaymentMethodCash = "tunai"
	PaymentMethodQRIS = "qris"
)

// NormalizePaymentStatus 邊界相容層：把舊系統的同義值（belum_bayar/lunas/pending）
// 轉成核心的兩態枚舉。回傳 false 表示不是可接受的值
func NormalizePaymentStatus(status string) (string, bool) {
	switch status {
	case PaymentStatusUnpaid, "belum_bayar", "pending":
		return PaymentStatusUnpaid, true
	case PaymentStatusPaid, "lunas":
		return PaymentStatusPaid, true
	default:
		return "", false
	}
}

// ParkingTransaction 停車交易（一次停車 session）：
// check-in 建立（open），check-out 關閉一次，之後只允許修正付款狀態。
// OpenMarker 在 session 開啟時等於 VehicleID、關閉後設為 NULL，
// 搭配唯一索引讓「一台車同時只有一筆 open 交易」由資料庫保證
type ParkingTransaction struct {
	TransactionID   int        `json:"transaction_id" gorm:"primaryKey;autoIncrement;column:transaction_id;type:INT"`
	VehicleID       int        `json:"vehicle_id" gorm:"index;not null;type:INT"`
	CategoryID      int        `json:"category_id" gorm:"index;not null;type:INT"`
	AreaID          *int       `json:"area_id" gorm:"index;type:INT;default:null"`
	EntryTime       time.Time  `json:"entry_time" gorm:"type:datetime;not null"`
	ExitTime        *time.Time `json:"exit_time" gorm:"type:datetime;default:null"`
	DurationMinutes *int       `json:"duration_minutes" gorm:"default:null"` // 計費分鐘數 = 進位小時 × 60
	Amount          *int64     `json:"amount" gorm:"default:null"`           // 只由 check-out 計算寫入
	PaymentMethod   *string    `json:"payment_method" gorm:"type:varchar(10);default:null"`
	PaymentStatus   string     `json:"payment_status" gorm:"type:varchar(20);not null;default:'unpaid'"`
	OpenMarker      *int       `json:"-" gorm:"uniqueIndex:idx_open_vehicle;column:open_marker;default:null"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	Vehicle  Vehicle         `json:"-" gorm:"foreignKey:VehicleID;references:VehicleID"`
	Category VehicleCategory `json:"-" gorm:"foreignKey:CategoryID;references:CategoryID"`
	Area     *ParkingArea    `json:"-" gorm:"foreignKey:AreaID;references:AreaID"`
}

// TableName 指定表名
func (ParkingTransaction) TableName() string {
	return "parking_transaction"
}

// IsOpen 尚未 check-out
func (t *ParkingTransaction) IsOpen() bool {
	return t.ExitTime == nil
}

// TransactionResponse 給前端的交易視圖，附上車牌與類別/區域名稱
type TransactionResponse struct {
	TransactionID   int        `json:"transaction_id"`
	Plate           string     `json:"plate"`
	CategoryName    string     `json:"category_name"`
	CategoryKey     string     `json:"category_key"`
	AreaName        *string    `json:"area_name"`
	EntryTime       time.Time  `json:"entry_time"`
	ExitTime        *time.Time `json:"exit_time"`
	DurationMinutes *int       `json:"duration_minutes"`
	Amount          *int64     `json:"amount"`
	PaymentMethod   *string    `json:"payment_method"`
	PaymentStatus   string     `json:"payment_status"`
}

func (t *ParkingTransaction) ToResponse() TransactionResponse {
	var areaName *string
	if t.Area != nil {
		areaName = &t.Area.Name
	}
	return TransactionResponse{
		TransactionID:   t.TransactionID,
		Plate:           t.Vehicle.Plate,
		CategoryName:    t.Category.Name,
		CategoryKey:     t.Category.CategoryKey,
		AreaName:        areaName,
		EntryTime:       t.EntryTime,
		ExitTime:        t.ExitTime,
		DurationMinutes: t.DurationMinutes,
		Amount:          t.Amount,
		PaymentMethod:   t.PaymentMethod,
		PaymentStatus:   t.PaymentStatus,
	}
}

// ActiveTransactionResponse 依車牌查詢未結束交易時的精簡視圖
type ActiveTransactionResponse struct {
	TransactionID int       `json:"transaction_id"`
	Plate         string    `json:"plate"`
	CategoryName  string    `json:"category_name"`
	EntryTime     time.Time `json:"entry_time"`
	AreaName      string    `json:"area_name"`
}

func (t *ParkingTransaction) ToActiveResponse() ActiveTransactionResponse {
	areaName := "N/A"
	if t.Area != nil {
		areaName = t.Area.Name
	}
	return ActiveTransactionResponse{
		TransactionID: t.TransactionID,
		Plate:         t.Vehicle.Plate,
		CategoryName:  t.Category.Name,
		EntryTime:     t.EntryTime,
		AreaName:      areaName,
	}
}
