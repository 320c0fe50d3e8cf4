package services

import (
	"testing"

	"parkirin/database"
	"parkirin/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAreaDefaultsAndValidation(t *testing.T) {
	setupTestDB(t)

	capacity := 10
	area, err := CreateArea(Actor{}, AreaInput{Name: "Area-1", Capacity: &capacity})
	require.NoError(t, err)
	assert.Equal(t, models.AreaStatusActive, area.Status)
	assert.Equal(t, []string{models.DefaultSupportedCategory}, area.SupportedCategoryKeys())

	_, err = CreateArea(Actor{}, AreaInput{Name: "Tanpa Kapasitas"})
	assert.ErrorIs(t, err, ErrValidation)

	negative := -1
	_, err = CreateArea(Actor{}, AreaInput{Name: "Negatif", Capacity: &negative})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = CreateArea(Actor{}, AreaInput{Name: "Status Aneh", Capacity: &capacity, Status: "tutup"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDeleteAreaRejectedWhileReferenced(t *testing.T) {
	setupTestDB(t)
	category := seedCategory(t, "Parkir Mobil", "mobil", 5000, 2000)
	area := seedArea(t, "Area-1", 5, []string{"mobil"})

	trx, err := CheckIn(Actor{}, CheckInInput{Plate: "B 1 A", CategoryID: category.CategoryID, AreaID: &area.AreaID})
	require.NoError(t, err)

	// 已結束的交易一樣算引用
	_, err = CheckOut(Actor{}, trx.TransactionID, CheckOutInput{})
	require.NoError(t, err)

	err = DeleteArea(Actor{}, area.AreaID)
	assert.ErrorIs(t, err, ErrInvalidState)

	empty := seedArea(t, "Area Kosong", 5, []string{"mobil"})
	require.NoError(t, DeleteArea(Actor{}, empty.AreaID))
}

func TestAreasByCategoryFiltersSupport(t *testing.T) {
	setupTestDB(t)
	seedArea(t, "Area Mobil", 10, []string{"mobil"})
	seedArea(t, "Area Campur", 10, []string{"mobil", "motor"})
	seedArea(t, "Area Motor", 10, []string{"motor"})

	areas, err := AreasByCategory("mobil")
	require.NoError(t, err)
	assert.Len(t, areas, 2)

	_, err = AreasByCategory("")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDeleteCategoryRejectedWhileReferenced(t *testing.T) {
	setupTestDB(t)
	category := seedCategory(t, "Parkir Mobil", "mobil", 5000, 2000)

	_, err := CheckIn(Actor{}, CheckInInput{Plate: "B 1 A", CategoryID: category.CategoryID})
	require.NoError(t, err)

	err = DeleteCategory(Actor{}, category.CategoryID)
	assert.ErrorIs(t, err, ErrInvalidState)

	unused := seedCategory(t, "Parkir Motor", "motor", 2000, 1000)
	require.NoError(t, DeleteCategory(Actor{}, unused.CategoryID))
}

func TestCreateCategoryValidation(t *testing.T) {
	setupTestDB(t)

	_, err := CreateCategory(Actor{}, CategoryInput{Name: "Tanpa Key"})
	assert.ErrorIs(t, err, ErrValidation)

	fee := int64(-1)
	_, err = CreateCategory(Actor{}, CategoryInput{Name: "Negatif", CategoryKey: "negatif", EntryFee: &fee})
	assert.ErrorIs(t, err, ErrValidation)

	entry, hourly := int64(5000), int64(2000)
	category, err := CreateCategory(Actor{}, CategoryInput{
		Name:        "Parkir Mobil",
		CategoryKey: "mobil",
		EntryFee:    &entry,
		HourlyFee:   &hourly,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5000), category.EntryFee)
}

func TestDeleteVehicleRejectedWithHistory(t *testing.T) {
	setupTestDB(t)
	category := seedCategory(t, "Parkir Mobil", "mobil", 5000, 2000)

	trx, err := CheckIn(Actor{}, CheckInInput{Plate: "B 1234 XY", CategoryID: category.CategoryID})
	require.NoError(t, err)
	_, err = CheckOut(Actor{}, trx.TransactionID, CheckOutInput{})
	require.NoError(t, err)

	// 有交易歷史的車輛不能刪除
	err = DeleteVehicle(Actor{}, "B 1234 XY")
	assert.ErrorIs(t, err, ErrInvalidState)

	orphan := models.Vehicle{Plate: "B 9 Z", CategoryKey: "mobil"}
	require.NoError(t, database.DB.Create(&orphan).Error)
	require.NoError(t, DeleteVehicle(Actor{}, "b 9 z"))
}

func TestUpdateVehicleMetadata(t *testing.T) {
	setupTestDB(t)
	category := seedCategory(t, "Parkir Mobil", "mobil", 5000, 2000)

	_, err := CheckIn(Actor{}, CheckInInput{Plate: "B 1234 XY", CategoryID: category.CategoryID})
	require.NoError(t, err)

	year := 2020
	vehicle, err := UpdateVehicle(Actor{}, "b 1234 xy", VehicleInput{Color: "Hitam", Model: "Avanza", Year: &year})
	require.NoError(t, err)
	assert.Equal(t, "Hitam", vehicle.Color)
	assert.Equal(t, "Avanza", vehicle.Model)
	assert.Equal(t, 2020, vehicle.Year)
}
