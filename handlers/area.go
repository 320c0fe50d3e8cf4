package handlers

import (
	"net/http"
	"strconv"

	"parkirin/models"
	"parkirin/services"

	"github.com/gin-gonic/gin"
)

type AreaRequest struct {
	Name                string   `json:"name"`
	Capacity            *int     `json:"capacity"`
	SupportedCategories []string `json:"supported_categories"`
	Status              string   `json:"status"`
}

func (r AreaRequest) toInput() services.AreaInput {
	return services.AreaInput{
		Name:                r.Name,
		Capacity:            r.Capacity,
		SupportedCategories: r.SupportedCategories,
		Status:              r.Status,
	}
}

// ListAreas 分頁列出停車區域
func ListAreas(c *gin.Context) {
	page, limit := pageParams(c, 10)

	areas, total, err := services.ListAreas(page, limit)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	responses := make([]models.ParkingAreaResponse, len(areas))
	for i := range areas {
		responses[i] = areas[i].ToResponse()
	}

	PaginatedResponse(c, http.StatusOK, "Area retrieved", responses, total, page, limit, len(responses))
}

// GetArea 查詢單一區域
func GetArea(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "ID area tidak valid", nil)
		return
	}

	area, err := services.GetAreaByID(id)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Area retrieved", area.ToResponse())
}

// GetAreasByCategory 列出支援指定類別鍵的區域，?category_key=
func GetAreasByCategory(c *gin.Context) {
	categoryKey := c.Query("category_key")

	areas, err := services.AreasByCategory(categoryKey)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	responses := make([]models.ParkingAreaResponse, len(areas))
	for i := range areas {
		responses[i] = areas[i].ToResponse()
	}

	SuccessResponse(c, http.StatusOK, "Area retrieved", responses)
}

// GetAreaOccupancy 區域即時佔用統計，可用 ?category_key= 過濾
func GetAreaOccupancy(c *gin.Context) {
	categoryKey := c.Query("category_key")

	results, err := services.AreaOccupancy(categoryKey)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Area occupancy retrieved", results)
}

// GetAreaOccupancyByID 單一區域的佔用統計
func GetAreaOccupancyByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "ID area tidak valid", nil)
		return
	}

	result, err := services.GetAreaOccupancyByID(id)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Area occupancy retrieved", result)
}

// CreateArea 新增區域
func CreateArea(c *gin.Context) {
	var req AreaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Input area tidak valid", err.Error())
		return
	}

	area, err := services.CreateArea(actorFromContext(c), req.toInput())
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "Area berhasil ditambahkan", area.ToResponse())
}

// UpdateArea 更新區域
func UpdateArea(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "ID area tidak valid", nil)
		return
	}

	var req AreaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Input area tidak valid", err.Error())
		return
	}

	area, err := services.UpdateArea(actorFromContext(c), id, req.toInput())
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Area berhasil diupdate", area.ToResponse())
}

// DeleteArea 刪除區域
func DeleteArea(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "ID area tidak valid", nil)
		return
	}

	if err := services.DeleteArea(actorFromContext(c), id); err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Area berhasil dihapus", nil)
}
