package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"parkirin/database"
	"parkirin/models"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CheckInInput check-in 請求內容；EntryTime 省略時使用當下時間
type CheckInInput struct {
	Plate      string
	CategoryID int
	AreaID     *int
	EntryTime  *time.Time
}

// CheckOutInput check-out 請求內容。金額一律由伺服器重新計算，
// 這裡刻意沒有金額欄位，呼叫端傳了也不會被使用
type CheckOutInput struct {
	ExitTime      *time.Time
	PaymentMethod string
}

// lockForUpdate 在 MySQL 上鎖定查到的 row；SQLite（測試）寫入本來就是
// 整庫序列化，不需要 row lock
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "mysql" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// CheckIn 開啟一筆停車交易。整個流程跑在同一個資料庫事務裡：
// 先鎖定區域 row 做容量檢查、再鎖定車輛 row 擋重複 check-in，
// 任何一步失敗都 rollback，不留下部分寫入
func CheckIn(actor Actor, input CheckInInput) (*models.ParkingTransaction, error) {
	plate := models.NormalizePlate(input.Plate)
	if plate == "" {
		return nil, fmt.Errorf("%w: nomor plat wajib diisi", ErrValidation)
	}
	if input.CategoryID <= 0 {
		return nil, fmt.Errorf("%w: jenis parkir wajib diisi", ErrValidation)
	}

	tx := database.DB.Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	var category models.VehicleCategory
	if err := tx.First(&category, input.CategoryID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: jenis parkir tidak ditemukan", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to resolve category %d: %w", input.CategoryID, err)
	}

	// 區域為選填；有指定才做支援類別與容量檢查
	if input.AreaID != nil {
		var area models.ParkingArea
		if err := lockForUpdate(tx).First(&area, *input.AreaID).Error; err != nil {
			tx.Rollback()
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: area parkir tidak ditemukan", ErrNotFound)
			}
			return nil, fmt.Errorf("failed to resolve area %d: %w", *input.AreaID, err)
		}

		if area.Status != models.AreaStatusActive {
			tx.Rollback()
			return nil, fmt.Errorf("%w: area %s sedang tidak beroperasi", ErrValidation, area.Name)
		}

		if !area.Supports(category.CategoryKey) {
			tx.Rollback()
			return nil, fmt.Errorf("%w: area %s tidak mendukung parkir jenis %s",
				ErrUnsupportedCategory, area.Name, category.Name)
		}

		// 容量檢查：area row 已鎖定，同一區域的並發 check-in 在此序列化
		var occupied int64
		if err := tx.Model(&models.ParkingTransaction{}).
			Where("area_id = ? AND exit_time IS NULL", area.AreaID).
			Count(&occupied).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to count occupancy for area %d: %w", area.AreaID, err)
		}
		if occupied >= int64(area.Capacity) {
			tx.Rollback()
			return nil, fmt.Errorf("%w: area %s (%d/%d)", ErrAreaFull, area.Name, occupied, area.Capacity)
		}
	}

	// 依正規化車牌 find-or-create；鎖定已存在的車輛 row，
	// 讓同車牌的並發 check-in 也序列化
	var vehicle models.Vehicle
	err := lockForUpdate(tx).Where("plate = ?", plate).First(&vehicle).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		vehicle = models.Vehicle{
			Plate:       plate,
			CategoryKey: category.CategoryKey,
		}
		if err := tx.Create(&vehicle).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to register vehicle %s: %w", plate, err)
		}
	} else if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to look up vehicle %s: %w", plate, err)
	}

	// 一台車同時只能有一筆 open 交易
	var openCount int64
	if err := tx.Model(&models.ParkingTransaction{}).
		Where("vehicle_id = ? AND exit_time IS NULL", vehicle.VehicleID).
		Count(&openCount).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to check open transactions for vehicle %d: %w", vehicle.VehicleID, err)
	}
	if openCount > 0 {
		tx.Rollback()
		return nil, ErrAlreadyCheckedIn
	}

	entryTime := time.Now()
	if input.EntryTime != nil {
		entryTime = *input.EntryTime
	}

	trx := models.ParkingTransaction{
		VehicleID:     vehicle.VehicleID,
		CategoryID:    category.CategoryID,
		AreaID:        input.AreaID,
		EntryTime:     entryTime,
		PaymentStatus: models.PaymentStatusUnpaid,
		OpenMarker:    &vehicle.VehicleID,
	}
	if err := tx.Create(&trx).Error; err != nil {
		tx.Rollback()
		// open_marker 唯一索引擋下搶在鎖之前的並發重複 check-in
		if mysqlErr, ok := err.(*mysql.MySQLError); ok && mysqlErr.Number == 1062 {
			return nil, ErrAlreadyCheckedIn
		}
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit check-in: %w", err)
	}

	log.Printf("Check-in: plate=%s trx=%d category=%s", plate, trx.TransactionID, category.CategoryKey)
	recordActivity(actor, "Check-in kendaraan %s (trx %d) oleh %s", plate, trx.TransactionID, actor.Name())

	return GetTransactionByID(trx.TransactionID)
}

// CheckOut 結束一筆停車交易：計費小時數由實際停車時長向上進位，
// 儲存的分鐘數與金額都從同一個進位值推導。金額永遠由伺服器計算
func CheckOut(actor Actor, transactionID int, input CheckOutInput) (*models.ParkingTransaction, error) {
	trx, err := GetTransactionByID(transactionID)
	if err != nil {
		return nil, err
	}

	if !trx.IsOpen() {
		return nil, ErrAlreadyCheckedOut
	}

	exitTime := time.Now()
	if input.ExitTime != nil {
		exitTime = *input.ExitTime
	}

	elapsed := exitTime.Sub(trx.EntryTime)
	hours, err := BilledHours(elapsed)
	if err != nil {
		return nil, fmt.Errorf("%w: waktu keluar mendahului waktu masuk", ErrInvalidDuration)
	}

	amount, err := ComputeFare(trx.Category.EntryFee, trx.Category.HourlyFee, elapsed)
	if err != nil {
		return nil, err
	}

	method := input.PaymentMethod
	if method == "" {
		method = models.PaymentMethodCash
	}
	if method != models.PaymentMethodCash && method != models.PaymentMethodQRIS {
		return nil, fmt.Errorf("%w: metode pembayaran tidak valid", ErrValidation)
	}

	durationMinutes := hours * 60 // 計費分鐘數，不是實際經過分鐘數

	updates := map[string]interface{}{
		"exit_time":        exitTime,
		"duration_minutes": durationMinutes,
		"amount":           amount,
		"payment_method":   method,
		"payment_status":   models.PaymentStatusPaid,
		"open_marker":      nil,
	}
	if err := closeOpenTransaction(trx.TransactionID, updates); err != nil {
		return nil, err
	}

	log.Printf("Check-out: trx=%d plate=%s hours=%d amount=%d", trx.TransactionID, trx.Vehicle.Plate, hours, amount)
	recordActivity(actor, "Check-out transaksi %d untuk kendaraan %s — total: %d oleh %s",
		trx.TransactionID, trx.Vehicle.Plate, amount, actor.Name())

	return GetTransactionByID(trx.TransactionID)
}

// closeOpenTransaction 寫入結帳欄位，條件限定交易仍然 open：
// exit_time 一旦寫入就不會被第二次 check-out 覆蓋，
// 搶輸的那一方拿到 ErrAlreadyCheckedOut
func closeOpenTransaction(transactionID int, updates map[string]interface{}) error {
	res := database.DB.Model(&models.ParkingTransaction{}).
		Where("transaction_id = ? AND exit_time IS NULL", transactionID).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to close transaction %d: %w", transactionID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrAlreadyCheckedOut
	}
	return nil
}

// UpdatePaymentStatus 修正付款狀態；接受核心兩態與舊同義值
func UpdatePaymentStatus(actor Actor, transactionID int, status string) (*models.ParkingTransaction, error) {
	normalized, ok := models.NormalizePaymentStatus(status)
	if !ok {
		return nil, fmt.Errorf("%w: status pembayaran tidak valid", ErrValidation)
	}

	trx, err := GetTransactionByID(transactionID)
	if err != nil {
		return nil, err
	}

	if err := database.DB.Model(&models.ParkingTransaction{}).
		Where("transaction_id = ?", trx.TransactionID).
		Update("payment_status", normalized).Error; err != nil {
		return nil, fmt.Errorf("failed to update payment status for transaction %d: %w", trx.TransactionID, err)
	}

	recordActivity(actor, "Update status pembayaran transaksi %d → %s oleh %s",
		trx.TransactionID, normalized, actor.Name())

	return GetTransactionByID(trx.TransactionID)
}

// DeleteTransaction 刪除交易：只允許刪除還沒 check-out 的交易，
// 已結束的交易是財務稽核軌跡
func DeleteTransaction(actor Actor, transactionID int) error {
	trx, err := GetTransactionByID(transactionID)
	if err != nil {
		return err
	}

	if !trx.IsOpen() {
		return fmt.Errorf("%w: tidak dapat menghapus transaksi yang sudah check-out", ErrInvalidState)
	}

	if err := database.DB.Delete(&models.ParkingTransaction{}, trx.TransactionID).Error; err != nil {
		return fmt.Errorf("failed to delete transaction %d: %w", trx.TransactionID, err)
	}

	recordActivity(actor, "Menghapus transaksi %d untuk kendaraan %s oleh %s",
		trx.TransactionID, trx.Vehicle.Plate, actor.Name())

	return nil
}

// GetTransactionByID 查詢單筆交易並帶出關聯
func GetTransactionByID(transactionID int) (*models.ParkingTransaction, error) {
	var trx models.ParkingTransaction
	if err := database.DB.
		Preload("Vehicle").
		Preload("Category").
		Preload("Area").
		First(&trx, transactionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: transaksi tidak ditemukan", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch transaction %d: %w", transactionID, err)
	}
	return &trx, nil
}

// ListTransactions 分頁列出交易，可依付款狀態過濾（接受舊同義值）
func ListTransactions(page, limit int, status string) ([]models.ParkingTransaction, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	query := database.DB.Model(&models.ParkingTransaction{})
	if status != "" {
		normalized, ok := models.NormalizePaymentStatus(status)
		if !ok {
			return nil, 0, fmt.Errorf("%w: status pembayaran tidak valid", ErrValidation)
		}
		query = query.Where("payment_status = ?", normalized)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	var transactions []models.ParkingTransaction
	if err := query.
		Preload("Vehicle").
		Preload("Category").
		Preload("Area").
		Order("transaction_id DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&transactions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch transactions: %w", err)
	}

	return transactions, total, nil
}

// GetActiveTransactionsByPlate 依車牌查詢未結束的交易
func GetActiveTransactionsByPlate(plate string) ([]models.ParkingTransaction, error) {
	normalized := models.NormalizePlate(plate)
	if normalized == "" {
		return nil, fmt.Errorf("%w: nomor plat harus diisi", ErrValidation)
	}

	var transactions []models.ParkingTransaction
	if err := database.DB.
		Joins("JOIN vehicle ON vehicle.vehicle_id = parking_transaction.vehicle_id").
		Where("vehicle.plate = ? AND parking_transaction.exit_time IS NULL", normalized).
		Preload("Vehicle").
		Preload("Category").
		Preload("Area").
		Order("parking_transaction.entry_time DESC").
		Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch active transactions for plate %s: %w", normalized, err)
	}

	if len(transactions) == 0 {
		return nil, fmt.Errorf("%w: tidak ada transaksi aktif untuk nomor plat ini", ErrNotFound)
	}

	return transactions, nil
}
