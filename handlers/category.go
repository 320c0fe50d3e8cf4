package handlers

import (
	"net/http"
	"strconv"

	"parkirin/services"

	"github.com/gin-gonic/gin"
)

type CategoryRequest struct {
	Name        string `json:"name"`
	CategoryKey string `json:"category_key"`
	Description string `json:"description"`
	Capacity    *int   `json:"capacity"`
	EntryFee    *int64 `json:"entry_fee"`
	HourlyFee   *int64 `json:"hourly_fee"`
}

func (r CategoryRequest) toInput() services.CategoryInput {
	return services.CategoryInput{
		Name:        r.Name,
		CategoryKey: r.CategoryKey,
		Description: r.Description,
		Capacity:    r.Capacity,
		EntryFee:    r.EntryFee,
		HourlyFee:   r.HourlyFee,
	}
}

// ListCategories 分頁列出計費類別
func ListCategories(c *gin.Context) {
	page, limit := pageParams(c, 10)

	categories, total, err := services.ListCategories(page, limit)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	PaginatedResponse(c, http.StatusOK, "Jenis parkir retrieved", categories, total, page, limit, len(categories))
}

// GetCategory 查詢單一類別
func GetCategory(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "ID jenis parkir tidak valid", nil)
		return
	}

	category, err := services.GetCategoryByID(id)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Jenis parkir retrieved", category)
}

// GetCategoryOccupancy 依類別鍵統計跨區域未結束交易數，?category_key=
func GetCategoryOccupancy(c *gin.Context) {
	categoryKey := c.Query("category_key")
	if categoryKey == "" {
		ErrorResponse(c, http.StatusBadRequest, "category_key harus diisi", nil)
		return
	}

	occupied, err := services.CategoryOccupancy(categoryKey)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Jenis parkir occupancy retrieved", gin.H{
		"category_key": categoryKey,
		"occupied":     occupied,
	})
}

// CreateCategory 新增計費類別
func CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Input jenis parkir tidak valid", err.Error())
		return
	}

	category, err := services.CreateCategory(actorFromContext(c), req.toInput())
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "Jenis parkir berhasil ditambahkan", category)
}

// UpdateCategory 更新計費類別
func UpdateCategory(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "ID jenis parkir tidak valid", nil)
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Input jenis parkir tidak valid", err.Error())
		return
	}

	category, err := services.UpdateCategory(actorFromContext(c), id, req.toInput())
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Jenis parkir berhasil diupdate", category)
}

// DeleteCategory 刪除計費類別
func DeleteCategory(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "ID jenis parkir tidak valid", nil)
		return
	}

	if err := services.DeleteCategory(actorFromContext(c), id); err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Jenis parkir berhasil dihapus", nil)
}
