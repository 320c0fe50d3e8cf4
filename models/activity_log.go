package models

import "time"

// ActivityLog 活動紀錄：append-only，只有保留期限清理會刪除
type ActivityLog struct {
	LogID       int       `json:"log_id" gorm:"primaryKey;autoIncrement;column:log_id;type:INT"`
	UserID      *int      `json:"user_id" gorm:"index;type:INT;default:null"` // NULL 代表系統動作
	Description string    `json:"description" gorm:"size:255;not null"`
	ActionTime  time.Time `json:"action_time" gorm:"type:datetime;not null;autoCreateTime;column:action_time"`

	User *User `json:"-" gorm:"foreignKey:UserID;references:UserID"`
}

// TableName 指定表名
func (ActivityLog) TableName() string {
	return "activity_log"
}

type ActivityLogResponse struct {
	LogID       int                 `json:"log_id"`
	UserID      *int                `json:"user_id"`
	Description string              `json:"description"`
	ActionTime  time.Time           `json:"action_time"`
	User        *SimpleUserResponse `json:"user,omitempty"`
}

func (l *ActivityLog) ToResponse() ActivityLogResponse {
	resp := ActivityLogResponse{
		LogID:       l.LogID,
		UserID:      l.UserID,
		Description: l.Description,
		ActionTime:  l.ActionTime,
	}
	if l.User != nil {
		user := l.User.ToSimpleResponse()
		resp.User = &user
	}
	return resp
}
