package services

import (
	"fmt"
	"log"
	"time"

	"parkirin/database"
	"parkirin/models"
)

// Actor 操作者身分（由邊界層的 JWT middleware 提供），只用於活動紀錄歸屬
type Actor struct {
	UserID   *int
	Username string
	Role     string
}

// Name 顯示用名稱，匿名或系統動作時回傳 "sistem"
func (a Actor) Name() string {
	if a.Username == "" {
		return "sistem"
	}
	return a.Username
}

// Notifier 非同步活動紀錄器：Record 絕不阻塞、絕不把失敗回傳給呼叫端。
// 佇列滿或寫入失敗只記 log 後丟棄
type Notifier struct {
	queue chan models.ActivityLog
	done  chan struct{}
}

// 未啟動 Notifier 時（例如測試）改走同步 best-effort 寫入
var defaultNotifier *Notifier

// InitNotifier 建立並啟動預設的活動紀錄器
func InitNotifier(buffer int) *Notifier {
	n := &Notifier{
		queue: make(chan models.ActivityLog, buffer),
		done:  make(chan struct{}),
	}
	go n.run()
	defaultNotifier = n
	return n
}

func (n *Notifier) run() {
	for entry := range n.queue {
		if err := database.DB.Create(&entry).Error; err != nil {
			log.Printf("[activity] failed to write log entry: %v", err)
		}
	}
	close(n.done)
}

// Stop 關閉佇列並等待已排入的紀錄寫完
func (n *Notifier) Stop() {
	close(n.queue)
	<-n.done
}

// Record 排入一筆活動紀錄；佇列滿時丟棄
func (n *Notifier) Record(actor Actor, format string, args ...interface{}) {
	entry := models.ActivityLog{
		UserID:      actor.UserID,
		Description: fmt.Sprintf(format, args...),
		ActionTime:  time.Now(),
	}
	select {
	case n.queue <- entry:
	default:
		log.Printf("[activity] queue full, dropping entry: %s", entry.Description)
	}
}

// recordActivity 服務層統一入口：有 Notifier 走非同步，否則同步 best-effort。
// 無論哪條路徑，失敗都不影響觸發它的操作
func recordActivity(actor Actor, format string, args ...interface{}) {
	if defaultNotifier != nil {
		defaultNotifier.Record(actor, format, args...)
		return
	}
	entry := models.ActivityLog{
		UserID:      actor.UserID,
		Description: fmt.Sprintf(format, args...),
		ActionTime:  time.Now(),
	}
	if err := database.DB.Create(&entry).Error; err != nil {
		log.Printf("[activity] failed to write log entry: %v", err)
	}
}

// ListActivityLogs 分頁列出活動紀錄，可依使用者過濾
func ListActivityLogs(page, limit int, userID *int) ([]models.ActivityLog, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	query := database.DB.Model(&models.ActivityLog{})
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count activity logs: %w", err)
	}

	var logs []models.ActivityLog
	if err := query.
		Preload("User").
		Order("action_time DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&logs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch activity logs: %w", err)
	}

	return logs, total, nil
}

// PurgeOldActivityLogs 保留期限清理：刪除超過 daysOld 天的紀錄，回傳刪除筆數
func PurgeOldActivityLogs(daysOld int) (int64, error) {
	if daysOld < 1 {
		return 0, fmt.Errorf("%w: days_old harus lebih dari 0", ErrValidation)
	}

	threshold := time.Now().AddDate(0, 0, -daysOld)
	result := database.DB.Where("action_time < ?", threshold).Delete(&models.ActivityLog{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to purge activity logs: %w", result.Error)
	}

	log.Printf("Purged %d activity log entries older than %d days", result.RowsAffected, daysOld)
	return result.RowsAffected, nil
}
