package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"parkirin/models"
	"parkirin/services"

	"github.com/gin-gonic/gin"
)

// CheckInRequest check-in 請求；entry_time 省略時使用伺服器時間
type CheckInRequest struct {
	Plate      string `json:"plate" binding:"required"`
	CategoryID int    `json:"category_id" binding:"required,gt=0"`
	AreaID     *int   `json:"area_id"`
	EntryTime  string `json:"entry_time"`
}

// CheckOutRequest check-out 請求。金額由伺服器計算，不接受呼叫端提供
type CheckOutRequest struct {
	ExitTime      string `json:"exit_time"`
	PaymentMethod string `json:"payment_method"`
}

type PaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required"`
}

// parseTime 解析時間字串：接受 RFC 3339 或不帶時區的 'YYYY-MM-DDThh:mm:ss'（視為本地時間）
func parseTime(timeStr string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, timeStr)
	if err == nil {
		return t, nil
	}
	t, err = time.ParseInLocation("2006-01-02T15:04:05", timeStr, time.Local)
	if err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("waktu harus dalam format 'YYYY-MM-DDThh:mm:ss' atau RFC 3339")
}

// ListTransactions 分頁列出交易，可用 ?status= 過濾付款狀態
func ListTransactions(c *gin.Context) {
	page, limit := pageParams(c, 10)
	status := c.Query("status")

	transactions, total, err := services.ListTransactions(page, limit, status)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	responses := make([]models.TransactionResponse, len(transactions))
	for i := range transactions {
		responses[i] = transactions[i].ToResponse()
	}

	PaginatedResponse(c, http.StatusOK, "Transaksi retrieved", responses, total, page, limit, len(responses))
}

// GetTransaction 查詢單筆交易
func GetTransaction(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "ID transaksi tidak valid", nil)
		return
	}

	trx, err := services.GetTransactionByID(id)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Transaksi retrieved", trx.ToResponse())
}

// GetActiveTransactions 依車牌查詢未結束的交易；
// ?plate= 為主，舊客戶端的 ?nomor_plat= 仍然接受
func GetActiveTransactions(c *gin.Context) {
	plate := c.Query("plate")
	if plate == "" {
		plate = c.Query("nomor_plat")
	}

	transactions, err := services.GetActiveTransactionsByPlate(plate)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	responses := make([]models.ActiveTransactionResponse, len(transactions))
	for i := range transactions {
		responses[i] = transactions[i].ToActiveResponse()
	}

	SuccessResponse(c, http.StatusOK, "Transaksi aktif retrieved", responses)
}

// CheckIn 開啟停車交易
func CheckIn(c *gin.Context) {
	var req CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("Invalid check-in input: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Nomor plat dan jenis parkir wajib diisi", err.Error())
		return
	}

	input := services.CheckInInput{
		Plate:      req.Plate,
		CategoryID: req.CategoryID,
		AreaID:     req.AreaID,
	}
	if req.EntryTime != "" {
		entryTime, err := parseTime(req.EntryTime)
		if err != nil {
			ErrorResponse(c, http.StatusBadRequest, err.Error(), nil)
			return
		}
		input.EntryTime = &entryTime
	}

	trx, err := services.CheckIn(actorFromContext(c), input)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "Check-in berhasil", trx.ToResponse())
}

// CheckOut 結束停車交易並計費
func CheckOut(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "ID transaksi tidak valid", nil)
		return
	}

	var req CheckOutRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		log.Printf("Invalid check-out input: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Input check-out tidak valid", err.Error())
		return
	}

	input := services.CheckOutInput{
		PaymentMethod: req.PaymentMethod,
	}
	if req.ExitTime != "" {
		exitTime, err := parseTime(req.ExitTime)
		if err != nil {
			ErrorResponse(c, http.StatusBadRequest, err.Error(), nil)
			return
		}
		input.ExitTime = &exitTime
	}

	trx, err := services.CheckOut(actorFromContext(c), id, input)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Check-out berhasil", trx.ToResponse())
}

// UpdatePaymentStatus 修正付款狀態
func UpdatePaymentStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "ID transaksi tidak valid", nil)
		return
	}

	var req PaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Status pembayaran wajib diisi", err.Error())
		return
	}

	trx, err := services.UpdatePaymentStatus(actorFromContext(c), id, req.PaymentStatus)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Status pembayaran berhasil diupdate", trx.ToResponse())
}

// DeleteTransaction 刪除尚未結束的交易
func DeleteTransaction(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "ID transaksi tidak valid", nil)
		return
	}

	if err := services.DeleteTransaction(actorFromContext(c), id); err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Transaksi berhasil dihapus", nil)
}
