package services

import (
	"testing"
	"time"

	"parkirin/database"
	"parkirin/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countRows(t *testing.T, model interface{}) int64 {
	t.Helper()
	var count int64
	require.NoError(t, database.DB.Model(model).Count(&count).Error)
	return count
}

func TestCheckInCreatesVehicleAndOpenTransaction(t *testing.T) {
	setupTestDB(t)
	category := seedCategory(t, "Parkir Mobil", "mobil", 5000, 2000)

	trx, err := CheckIn(Actor{}, CheckInInput{
		Plate:      "  b 1234 xy  ",
		CategoryID: category.CategoryID,
	})
	require.NoError(t, err)

	assert.Equal(t, "B 1234 XY", trx.Vehicle.Plate)
	assert.Equal(t, "mobil", trx.Vehicle.CategoryKey)
	assert.Equal(t, models.PaymentStatusUnpaid, trx.PaymentStatus)
	assert.True(t, trx.IsOpen())
	assert.Nil(t, trx.Amount)
	assert.Nil(t, trx.DurationMinutes)

	// 活動紀錄走同步 best-effort 路徑（測試沒有啟動 Notifier）
	assert.Equal(t, int64(1), countRows(t, &models.ActivityLog{}))
}

func TestCheckInDuplicateRejected(t *testing.T) {
	setupTestDB(t)
	category := seedCategory(t, "Parkir Mobil", "mobil", 5000, 2000)

	_, err := CheckIn(Actor{}, CheckInInput{Plate: "B 1234 XY", CategoryID: category.CategoryID})
	require.NoError(t, err)

	_, err = CheckIn(Actor{}, CheckInInput{Plate: "b 1234 xy", CategoryID: category.CategoryID})
	assert.ErrorIs(t, err, ErrAlreadyCheckedIn)

	// 第二次呼叫不能留下任何新 row
	assert.Equal(t, int64(1), countRows(t, &models.ParkingTransaction{}))
	assert.Equal(t, int64(1), countRows(t, &models.Vehicle{}))
}

func TestCheckInValidation(t *testing.T) {
	setupTestDB(t)
	category := seedCategory(t, "Parkir Mobil", "mobil", 5000, 2000)

	_, err := CheckIn(Actor{}, CheckInInput{Plate: "   ", CategoryID: category.CategoryID})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = CheckIn(Actor{}, CheckInInput{Plate: "B 1 A", CategoryID: 0})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = CheckIn(Actor{}, CheckInInput{Plate: "B 1 A", CategoryID: 999})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCheckInUnknownAreaRejected(t *testing.T) {
	setupTestDB(t)
	category := seedCategory(t, "Parkir Mobil", "mobil", 5000, 2000)

	areaID := 42
	_, err := CheckIn(Actor{}, CheckInInput{Plate: "B 1 A", CategoryID: category.CategoryID, AreaID: &areaID})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCheckInUnsupportedCategoryLeavesNoSideEffects(t *testing.T) {
	setupTestDB(t)
	category := seedCategory(t, "Parkir Mobil", "mobil", 5000, 2000)
	area := seedArea(t, "Area Motor", 10, []string{"motor"})

	_, err := CheckIn(Actor{}, CheckInInput{
		Plate:      "B 1234 XY",
		CategoryID: category.CategoryID,
		AreaID:     &area.AreaID,
	})
	assert.ErrorIs(t, err, ErrUnsupportedCategory)

	// 區域驗證在車輛建立之前，失敗不能留下車輛或交易
	assert.Equal(t, int64(0), countRows(t, &models.Vehicle{}))
	assert.Equal(t, int64(0), countRows(t, &models.ParkingTransaction{}))
}

func TestCheckInAreaFullRejected(t *testing.T) {
	setupTestDB(t)
	category := seedCategory(t, "Parkir Mobil", "mobil", 5000, 2000)
	area := seedArea(t, "Area-1", 1, []string{"mobil"})

	_, err := CheckIn(Actor{}, CheckInInput{
		Plate:      "B 1234 XY",
		CategoryID: category.CategoryID,
		AreaID:     &area.AreaID,
	})
	require.NoError(t, err)

	occ, err := GetAreaOccupancyByID(area.AreaID)
	require.NoError(t, err)
	assert.Equal(t, 1, occ.Occupied)
	assert.Equal(t, 0, occ.Remaining)

	_, err = CheckIn(Actor{}, CheckInInput{
		Plate:      "B 5678 ZZ",
		CategoryID: category.CategoryID,
		AreaID:     &area.AreaID,
	})
	assert.ErrorIs(t, err, ErrAreaFull)
	assert.Equal(t, int64(1), countRows(t, &models.ParkingTransaction{}))
}

func TestCheckInInactiveAreaRejected(t *testing.T) {
	setupTestDB(t)
	category := seedCategory(t, "Parkir Mobil", "mobil", 5000, 2000)
	area := seedArea(t, "Area Tutup", 10, []string{"mobil"})
	require.NoError(t, database.DB.Model(area).Update("status", models.AreaStatusMaintenance).Error)

	_, err := CheckIn(Actor{}, CheckInInput{
		Plate:      "B 1234 XY",
		CategoryID: category.CategoryID,
		AreaID:     &area.AreaID,
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCheckOutFirstHourFlat(t *testing.T) {
	setupTestDB(t)
	category := seedCategory(t, "Parkir Mobil", "mobil", 5000, 2000)

	entry := time.Date(2026, 3, 10, 10, 0, 0, 0, time.Local)
	trx, err := CheckIn(Actor{}, CheckInInput{Plate: "B 1 A", CategoryID: category.CategoryID, EntryTime: &entry})
	require.NoError(t, err)

	exit := entry // 同一時刻 check-out 也要收一小時
	closed, err := CheckOut(Actor{}, trx.TransactionID, CheckOutInput{ExitTime: &exit})
	require.NoError(t, err)

	require.NotNil(t, closed.DurationMinutes)
	assert.Equal(t, 60, *closed.DurationMinutes)
	require.NotNil(t, closed.Amount)
	assert.Equal(t, int64(5000), *closed.Amount)
	require.NotNil(t, closed.PaymentMethod)
	assert.Equal(t, models.PaymentMethodCash, *closed.PaymentMethod)
	assert.Equal(t, models.PaymentStatusPaid, closed.PaymentStatus)
	assert.False(t, closed.IsOpen())
}

func TestCheckOutBillsWholeHours(t *testing.T) {
	setupTestDB(t)
	category := seedCategory(t, "Parkir Mobil", "mobil", 5000, 2000)

	entry := time.Date(2026, 3, 10, 10, 0, 0, 0, time.Local)
	trx, err := CheckIn(Actor{}, CheckInInput{Plate: "B 1 A", CategoryID: category.CategoryID, EntryTime: &entry})
	require.NoError(t, err)

	// 10:00 → 13:01 = 3 小時 1 分鐘，計費 4 小時
	exit := time.Date(2026, 3, 10, 13, 1, 0, 0, time.Local)
	closed, err := CheckOut(Actor{}, trx.TransactionID, CheckOutInput{ExitTime: &exit, PaymentMethod: models.PaymentMethodQRIS})
	require.NoError(t, err)

	// 儲存的分鐘數是計費小時 × 60，不是實際經過的 181 分鐘
	assert.Equal(t, 240, *closed.DurationMinutes)
	assert.Equal(t, int64(11000), *closed.Amount)
	assert.Equal(t, models.PaymentMethodQRIS, *closed.PaymentMethod)
}

func TestCheckOutTwiceRejectedAndUnchanged(t *testing.T) {
	setupTestDB(t)
	category := seedCategory(t, "Parkir Mobil", "mobil", 5000, 2000)

	entry := time.Date(2026, 3, 10, 10, 0, 0, 0, time.Local)
	trx, err := CheckIn(Actor{}, CheckInInput{Plate: "B 1 A", CategoryID: category.CategoryID, EntryTime: &entry})
	require.NoError(t, err)

	exit := entry.Add(30 * time.Minute)
	closed, err := CheckOut(Actor{}, trx.TransactionID, CheckOutInput{ExitTime: &exit})
	require.NoError(t, err)

	later := entry.Add(5 * time.Hour)
	_, err = CheckOut(Actor{}, trx.TransactionID, CheckOutInput{ExitTime: &later})
	assert.ErrorIs(t, err, ErrAlreadyCheckedOut)

	// 第二次呼叫不能動到已結束的紀錄
	unchanged, err := GetTransactionByID(trx.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, *closed.Amount, *unchanged.Amount)
	assert.Equal(t, *closed.DurationMinutes, *unchanged.DurationMinutes)
	assert.True(t, closed.ExitTime.Equal(*unchanged.ExitTime))
}

func TestCloseOpenTransactionRefusesClosedRow(t *testing.T) {
	setupTestDB(t)
	category := seedCategory(t, "Parkir Mobil", "mobil", 5000, 2000)

	entry := time.Date(2026, 3, 10, 10, 0, 0, 0, time.Local)
	trx, err := CheckIn(Actor{}, CheckInInput{Plate: "B 1 A", CategoryID: category.CategoryID, EntryTime: &entry})
	require.NoError(t, err)

	exit := entry.Add(30 * time.Minute)
	closed, err := CheckOut(Actor{}, trx.TransactionID, CheckOutInput{ExitTime: &exit})
	require.NoError(t, err)

	// 模擬並發 check-out 搶輸的一方：讀到 open 的快照，
	// 寫入時交易已被另一方關閉 — 寫入必須整筆落空
	late := exit.Add(2 * time.Hour)
	err = closeOpenTransaction(trx.TransactionID, map[string]interface{}{
		"exit_time":        late,
		"duration_minutes": 180,
		"amount":           int64(9000),
		"payment_method":   models.PaymentMethodQRIS,
		"payment_status":   models.PaymentStatusPaid,
		"open_marker":      nil,
	})
	assert.ErrorIs(t, err, ErrAlreadyCheckedOut)

	unchanged, err := GetTransactionByID(trx.TransactionID)
	require.NoError(t, err)
	require.NotNil(t, unchanged.ExitTime)
	assert.True(t, closed.ExitTime.Equal(*unchanged.ExitTime))
	assert.Equal(t, int64(5000), *unchanged.Amount)
	assert.Equal(t, 60, *unchanged.DurationMinutes)
	assert.Equal(t, models.PaymentMethodCash, *unchanged.PaymentMethod)
}

func TestCheckOutExitBeforeEntryRejected(t *testing.T) {
	setupTestDB(t)
	category := seedCategory(t, "Parkir Mobil", "mobil", 5000, 2000)

	entry := time.Date(2026, 3, 10, 10, 0, 0, 0, time.Local)
	trx, err := CheckIn(Actor{}, CheckInInput{Plate: "B 1 A", CategoryID: category.CategoryID, EntryTime: &entry})
	require.NoError(t, err)

	exit := entry.Add(-time.Minute)
	_, err = CheckOut(Actor{}, trx.TransactionID, CheckOutInput{ExitTime: &exit})
	assert.ErrorIs(t, err, ErrInvalidDuration)

	// 失敗不能留下部分寫入
	reloaded, err := GetTransactionByID(trx.TransactionID)
	require.NoError(t, err)
	assert.True(t, reloaded.IsOpen())
	assert.Nil(t, reloaded.Amount)
}

func TestCheckOutInvalidPaymentMethodRejected(t *testing.T) {
	setupTestDB(t)
	category := seedCategory(t, "Parkir Mobil", "mobil", 5000, 2000)

	trx, err := CheckIn(Actor{}, CheckInInput{Plate: "B 1 A", CategoryID: category.CategoryID})
	require.NoError(t, err)

	_, err = CheckOut(Actor{}, trx.TransactionID, CheckOutInput{PaymentMethod: "kredit"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCheckOutNotFound(t *testing.T) {
	setupTestDB(t)

	_, err := CheckOut(Actor{}, 999, CheckOutInput{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdatePaymentStatusAcceptsLegacySynonyms(t *testing.T) {
	setupTestDB(t)
	category := seedCategory(t, "Parkir Mobil", "mobil", 5000, 2000)

	trx, err := CheckIn(Actor{}, CheckInInput{Plate: "B 1 A", CategoryID: category.CategoryID})
	require.NoError(t, err)

	updated, err := UpdatePaymentStatus(Actor{}, trx.TransactionID, "lunas")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, updated.PaymentStatus)

	updated, err = UpdatePaymentStatus(Actor{}, trx.TransactionID, "pending")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusUnpaid, updated.PaymentStatus)

	_, err = UpdatePaymentStatus(Actor{}, trx.TransactionID, "cicilan")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDeleteTransactionOnlyWhileOpen(t *testing.T) {
	setupTestDB(t)
	category := seedCategory(t, "Parkir Mobil", "mobil", 5000, 2000)

	trx, err := CheckIn(Actor{}, CheckInInput{Plate: "B 1 A", CategoryID: category.CategoryID})
	require.NoError(t, err)
	require.NoError(t, DeleteTransaction(Actor{}, trx.TransactionID))
	assert.Equal(t, int64(0), countRows(t, &models.ParkingTransaction{}))

	trx, err = CheckIn(Actor{}, CheckInInput{Plate: "B 1 A", CategoryID: category.CategoryID})
	require.NoError(t, err)
	_, err = CheckOut(Actor{}, trx.TransactionID, CheckOutInput{})
	require.NoError(t, err)

	err = DeleteTransaction(Actor{}, trx.TransactionID)
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, int64(1), countRows(t, &models.ParkingTransaction{}))
}

func TestOneOpenTransactionPerVehicleAfterCheckOut(t *testing.T) {
	setupTestDB(t)
	category := seedCategory(t, "Parkir Mobil", "mobil", 5000, 2000)

	// check-out 之後同一台車可以再 check-in
	trx, err := CheckIn(Actor{}, CheckInInput{Plate: "B 1 A", CategoryID: category.CategoryID})
	require.NoError(t, err)
	_, err = CheckOut(Actor{}, trx.TransactionID, CheckOutInput{})
	require.NoError(t, err)

	again, err := CheckIn(Actor{}, CheckInInput{Plate: "B 1 A", CategoryID: category.CategoryID})
	require.NoError(t, err)

	var open int64
	require.NoError(t, database.DB.Model(&models.ParkingTransaction{}).
		Where("vehicle_id = ? AND exit_time IS NULL", again.VehicleID).
		Count(&open).Error)
	assert.Equal(t, int64(1), open)
}

func TestGetActiveTransactionsByPlate(t *testing.T) {
	setupTestDB(t)
	category := seedCategory(t, "Parkir Mobil", "mobil", 5000, 2000)

	trx, err := CheckIn(Actor{}, CheckInInput{Plate: "B 1234 XY", CategoryID: category.CategoryID})
	require.NoError(t, err)

	active, err := GetActiveTransactionsByPlate("b 1234 xy")
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, trx.TransactionID, active[0].TransactionID)

	_, err = CheckOut(Actor{}, trx.TransactionID, CheckOutInput{})
	require.NoError(t, err)

	_, err = GetActiveTransactionsByPlate("B 1234 XY")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListTransactionsFilterByStatus(t *testing.T) {
	setupTestDB(t)
	category := seedCategory(t, "Parkir Mobil", "mobil", 5000, 2000)

	first, err := CheckIn(Actor{}, CheckInInput{Plate: "B 1 A", CategoryID: category.CategoryID})
	require.NoError(t, err)
	_, err = CheckOut(Actor{}, first.TransactionID, CheckOutInput{})
	require.NoError(t, err)

	_, err = CheckIn(Actor{}, CheckInInput{Plate: "B 2 B", CategoryID: category.CategoryID})
	require.NoError(t, err)

	// 舊同義值也能當過濾條件
	paid, total, err := ListTransactions(1, 10, "lunas")
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, paid, 1)
	assert.Equal(t, models.PaymentStatusPaid, paid[0].PaymentStatus)

	_, _, err = ListTransactions(1, 10, "cicilan")
	assert.ErrorIs(t, err, ErrValidation)
}
