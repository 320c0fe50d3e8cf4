package services

import "errors"

// 服務層錯誤分類，handlers 用 errors.Is 對應 HTTP 狀態碼。
// 錯誤訊息一律可直接顯示給使用者
var (
	// ErrValidation 缺少或格式錯誤的必要輸入
	ErrValidation = errors.New("input tidak valid")

	// ErrNotFound 指定的交易/區域/類別不存在
	ErrNotFound = errors.New("data tidak ditemukan")

	// ErrUnsupportedCategory 區域存在但不支援要求的類別
	ErrUnsupportedCategory = errors.New("area tidak mendukung jenis parkir")

	// ErrAlreadyCheckedIn 車輛已有未結束的交易
	ErrAlreadyCheckedIn = errors.New("kendaraan sudah melakukan check-in, lakukan check-out terlebih dahulu")

	// ErrAlreadyCheckedOut 交易已經結束，不能重複 check-out
	ErrAlreadyCheckedOut = errors.New("kendaraan sudah melakukan check-out")

	// ErrAreaFull 區域容量已滿
	ErrAreaFull = errors.New("area parkir sudah penuh")

	// ErrInvalidState 不允許的狀態轉換（例如刪除已結束的交易）
	ErrInvalidState = errors.New("operasi tidak diizinkan pada status transaksi ini")

	// ErrInvalidDuration 停車時長為負值
	ErrInvalidDuration = errors.New("durasi parkir tidak valid")
)
