package services

import (
	"testing"
	"time"

	"parkirin/database"
	"parkirin/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAreaOccupancyCountsOnlyOpenTransactions(t *testing.T) {
	setupTestDB(t)
	category := seedCategory(t, "Parkir Mobil", "mobil", 5000, 2000)
	area := seedArea(t, "Area-1", 5, []string{"mobil"})

	first, err := CheckIn(Actor{}, CheckInInput{Plate: "B 1 A", CategoryID: category.CategoryID, AreaID: &area.AreaID})
	require.NoError(t, err)
	_, err = CheckIn(Actor{}, CheckInInput{Plate: "B 2 B", CategoryID: category.CategoryID, AreaID: &area.AreaID})
	require.NoError(t, err)

	_, err = CheckOut(Actor{}, first.TransactionID, CheckOutInput{})
	require.NoError(t, err)

	occ, err := GetAreaOccupancyByID(area.AreaID)
	require.NoError(t, err)
	assert.Equal(t, 5, occ.Capacity)
	assert.Equal(t, 1, occ.Occupied)
	assert.Equal(t, 4, occ.Remaining)
}

func TestAreaOccupancyRemainingNeverNegative(t *testing.T) {
	setupTestDB(t)
	category := seedCategory(t, "Parkir Mobil", "mobil", 5000, 2000)
	area := seedArea(t, "Area-1", 1, []string{"mobil"})

	// 直接塞 row 模擬併發超賣的瞬間狀態
	for i, plate := range []string{"B 1 A", "B 2 B"} {
		vehicle := models.Vehicle{Plate: plate, CategoryKey: "mobil"}
		require.NoError(t, database.DB.Create(&vehicle).Error)
		trx := models.ParkingTransaction{
			VehicleID:     vehicle.VehicleID,
			CategoryID:    category.CategoryID,
			AreaID:        &area.AreaID,
			EntryTime:     time.Now().Add(time.Duration(-i) * time.Hour),
			PaymentStatus: models.PaymentStatusUnpaid,
			OpenMarker:    &vehicle.VehicleID,
		}
		require.NoError(t, database.DB.Create(&trx).Error)
	}

	occ, err := GetAreaOccupancyByID(area.AreaID)
	require.NoError(t, err)
	assert.Equal(t, 2, occ.Occupied)
	assert.Equal(t, 0, occ.Remaining)
}

func TestAreaOccupancyFiltersByCategoryKey(t *testing.T) {
	setupTestDB(t)
	seedArea(t, "Area Mobil", 10, []string{"mobil"})
	seedArea(t, "Area Motor", 20, []string{"motor"})

	results, err := AreaOccupancy("motor")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Area Motor", results[0].Name)

	all, err := AreaOccupancy("")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestAreaOccupancySkipsInactiveAreas(t *testing.T) {
	setupTestDB(t)
	area := seedArea(t, "Area Tutup", 10, []string{"mobil"})
	require.NoError(t, database.DB.Model(area).Update("status", models.AreaStatusInactive).Error)

	results, err := AreaOccupancy("")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestAreaWithoutDeclaredCategoriesDefaultsToMobil(t *testing.T) {
	setupTestDB(t)
	// 舊資料：沒有 supported_categories 的區域，相容上視為支援 mobil
	area := seedArea(t, "Area Lama", 10, nil)

	assert.Equal(t, []string{models.DefaultSupportedCategory}, area.SupportedCategoryKeys())

	results, err := AreaOccupancy("mobil")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Area Lama", results[0].Name)
}

func TestCategoryOccupancy(t *testing.T) {
	setupTestDB(t)
	mobil := seedCategory(t, "Parkir Mobil", "mobil", 5000, 2000)
	motor := seedCategory(t, "Parkir Motor", "motor", 2000, 1000)

	_, err := CheckIn(Actor{}, CheckInInput{Plate: "B 1 A", CategoryID: mobil.CategoryID})
	require.NoError(t, err)
	_, err = CheckIn(Actor{}, CheckInInput{Plate: "B 2 B", CategoryID: mobil.CategoryID})
	require.NoError(t, err)
	_, err = CheckIn(Actor{}, CheckInInput{Plate: "B 3 C", CategoryID: motor.CategoryID})
	require.NoError(t, err)

	occupied, err := CategoryOccupancy("mobil")
	require.NoError(t, err)
	assert.Equal(t, 2, occupied)

	occupied, err = CategoryOccupancy("motor")
	require.NoError(t, err)
	assert.Equal(t, 1, occupied)

	_, err = CategoryOccupancy("truk")
	assert.ErrorIs(t, err, ErrNotFound)
}
