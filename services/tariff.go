package services

import (
	"math"
	"time"
)

// BilledHours 把停車時長換算為計費小時數：不足一小時進位為一小時，
// 不滿一分鐘的停留也至少收一小時
func BilledHours(elapsed time.Duration) (int, error) {
	if elapsed < 0 {
		return 0, ErrInvalidDuration
	}
	hours := int(math.Ceil(elapsed.Minutes() / 60.0))
	if hours < 1 {
		hours = 1
	}
	return hours, nil
}

// ComputeFare 計算停車費：首小時收 entryFee，之後每小時加 hourlyFee
func ComputeFare(entryFee, hourlyFee int64, elapsed time.Duration) (int64, error) {
	hours, err := BilledHours(elapsed)
	if err != nil {
		return 0, err
	}
	return entryFee + int64(hours-1)*hourlyFee, nil
}
