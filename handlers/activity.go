package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"parkirin/models"
	"parkirin/services"

	"github.com/gin-gonic/gin"
)

type PurgeLogsRequest struct {
	DaysOld int `json:"days_old"`
}

// ListActivityLogs 分頁列出活動紀錄，可用 ?user_id= 過濾
func ListActivityLogs(c *gin.Context) {
	page, limit := pageParams(c, 20)

	var userID *int
	if raw := c.Query("user_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			ErrorResponse(c, http.StatusBadRequest, "user_id tidak valid", nil)
			return
		}
		userID = &id
	}

	logs, total, err := services.ListActivityLogs(page, limit, userID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	responses := make([]models.ActivityLogResponse, len(logs))
	for i := range logs {
		responses[i] = logs[i].ToResponse()
	}

	PaginatedResponse(c, http.StatusOK, "Logs retrieved", responses, total, page, limit, len(responses))
}

// PurgeActivityLogs 保留期限清理，預設刪除 30 天以前的紀錄
func PurgeActivityLogs(c *gin.Context) {
	req := PurgeLogsRequest{DaysOld: 30}
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		ErrorResponse(c, http.StatusBadRequest, "Input tidak valid", err.Error())
		return
	}

	deleted, err := services.PurgeOldActivityLogs(req.DaysOld)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, fmt.Sprintf("%d log records berhasil dihapus", deleted),
		gin.H{"deleted": deleted})
}
