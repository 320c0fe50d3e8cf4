package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePlate(t *testing.T) {
	assert.Equal(t, "B 1234 XY", NormalizePlate("  b 1234 xy  "))
	assert.Equal(t, "B 1234 XY", NormalizePlate("B 1234 XY"))
	assert.Equal(t, "", NormalizePlate("   "))
}

func TestNormalizePaymentStatus(t *testing.T) {
	tests := []struct {
		in    string
		want  string
		valid bool
	}{
		{"unpaid", PaymentStatusUnpaid, true},
		{"paid", PaymentStatusPaid, true},
		{"belum_bayar", PaymentStatusUnpaid, true},
		{"lunas", PaymentStatusPaid, true},
		{"pending", PaymentStatusUnpaid, true},
		{"cicilan", "", false},
		{"", "", false},
		{"PAID", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := NormalizePaymentStatus(tt.in)
			assert.Equal(t, tt.valid, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParkingAreaSupportedCategoryKeys(t *testing.T) {
	var area ParkingArea

	// 空值走相容預設
	assert.Equal(t, []string{DefaultSupportedCategory}, area.SupportedCategoryKeys())
	assert.True(t, area.Supports("mobil"))
	assert.False(t, area.Supports("motor"))

	assert.NoError(t, area.SetSupportedCategoryKeys([]string{"motor", "truk"}))
	assert.Equal(t, []string{"motor", "truk"}, area.SupportedCategoryKeys())
	assert.True(t, area.Supports("truk"))
	assert.False(t, area.Supports("mobil"))

	// 壞掉的 JSON 一樣退回預設
	area.SupportedCategories = "{not-json"
	assert.Equal(t, []string{DefaultSupportedCategory}, area.SupportedCategoryKeys())
}
