package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"parkirin/services"

	"github.com/gin-gonic/gin"
)

// APIResponse 統一的 API 回應結構
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

// Pagination 列表端點的分頁資訊
type Pagination struct {
	Total   int64 `json:"total"`
	Page    int   `json:"page"`
	Pages   int   `json:"pages"`
	PerPage int   `json:"perPage"`
}

// PaginatedAPIResponse 帶分頁的回應結構
type PaginatedAPIResponse struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

// SuccessResponse 返回成功的回應
func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse 返回失敗的回應
func ErrorResponse(c *gin.Context, statusCode int, message string, errs interface{}) {
	c.JSON(statusCode, APIResponse{
		Success: false,
		Message: message,
		Errors:  errs,
	})
}

// pageParams 解析分頁查詢參數；非數字或小於 1 的值回落到預設，
// 之後服務層與分頁回應都使用同一組夾住後的值
func pageParams(c *gin.Context, defaultLimit int) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit < 1 {
		limit = defaultLimit
	}
	return page, limit
}

// PaginatedResponse 返回帶分頁的成功回應
func PaginatedResponse(c *gin.Context, statusCode int, message string, data interface{}, total int64, page, limit, perPage int) {
	if limit < 1 {
		limit = 1
	}
	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}
	if pages < 1 {
		pages = 1
	}
	c.JSON(statusCode, PaginatedAPIResponse{
		Success: true,
		Message: message,
		Data:    data,
		Pagination: Pagination{
			Total:   total,
			Page:    page,
			Pages:   pages,
			PerPage: perPage,
		},
	})
}

// HandleServiceError 把服務層的錯誤分類翻成 HTTP 狀態碼。
// 服務層錯誤訊息可直接顯示；未分類的錯誤一律 500 並只記 log
func HandleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		ErrorResponse(c, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrUnsupportedCategory),
		errors.Is(err, services.ErrAlreadyCheckedIn),
		errors.Is(err, services.ErrAlreadyCheckedOut),
		errors.Is(err, services.ErrAreaFull),
		errors.Is(err, services.ErrInvalidState),
		errors.Is(err, services.ErrInvalidDuration):
		ErrorResponse(c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, services.ErrInvalidCredentials):
		ErrorResponse(c, http.StatusUnauthorized, err.Error(), nil)
	default:
		log.Printf("Internal error: %v", err)
		ErrorResponse(c, http.StatusInternalServerError, "terjadi kesalahan pada server", nil)
	}
}

// actorFromContext 從 gin context 取出 middleware 放入的身分；
// 沒有登入資訊時回傳空 Actor（視為系統動作）
func actorFromContext(c *gin.Context) services.Actor {
	actor := services.Actor{}
	if userID, exists := c.Get("user_id"); exists {
		if id, ok := userID.(int); ok {
			actor.UserID = &id
		}
	}
	if username, exists := c.Get("username"); exists {
		if name, ok := username.(string); ok {
			actor.Username = name
		}
	}
	if role, exists := c.Get("role"); exists {
		if r, ok := role.(string); ok {
			actor.Role = r
		}
	}
	return actor
}
