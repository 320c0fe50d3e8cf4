package handlers

import (
	"net/http"

	"parkirin/models"
	"parkirin/services"

	"github.com/gin-gonic/gin"
)

type VehicleRequest struct {
	CategoryKey string `json:"category_key"`
	Color       string `json:"color"`
	Model       string `json:"model"`
	Year        *int   `json:"year"`
}

// ListVehicles 分頁列出車輛
func ListVehicles(c *gin.Context) {
	page, limit := pageParams(c, 10)

	vehicles, total, err := services.ListVehicles(page, limit)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	responses := make([]models.VehicleResponse, len(vehicles))
	for i := range vehicles {
		responses[i] = vehicles[i].ToResponse()
	}

	PaginatedResponse(c, http.StatusOK, "Kendaraan retrieved", responses, total, page, limit, len(responses))
}

// GetVehicle 依車牌查詢車輛
func GetVehicle(c *gin.Context) {
	vehicle, err := services.GetVehicleByPlate(c.Param("plate"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Kendaraan retrieved", vehicle.ToResponse())
}

// UpdateVehicle 更新車輛描述資料
func UpdateVehicle(c *gin.Context) {
	var req VehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Input kendaraan tidak valid", err.Error())
		return
	}

	vehicle, err := services.UpdateVehicle(actorFromContext(c), c.Param("plate"), services.VehicleInput{
		CategoryKey: req.CategoryKey,
		Color:       req.Color,
		Model:       req.Model,
		Year:        req.Year,
	})
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Kendaraan berhasil diupdate", vehicle.ToResponse())
}

// DeleteVehicle 刪除車輛（沒有交易紀錄時才允許）
func DeleteVehicle(c *gin.Context) {
	if err := services.DeleteVehicle(actorFromContext(c), c.Param("plate")); err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Kendaraan berhasil dihapus", nil)
}
