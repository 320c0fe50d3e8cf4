package models

import "time"

// User 系統使用者：登入與活動紀錄歸屬用
type User struct {
	UserID    int       `json:"user_id" gorm:"primaryKey;autoIncrement;column:user_id;type:INT"`
	Username  string    `json:"username" gorm:"size:50;uniqueIndex;not null" binding:"required"`
	Password  string    `json:"-" gorm:"size:100;not null"` // bcrypt hash，不輸出
	FullName  string    `json:"full_name" gorm:"size:100"`
	Role      string    `json:"role" gorm:"type:varchar(20);default:'petugas'"` // admin / petugas
	Status    string    `json:"status" gorm:"type:varchar(20);default:'aktif'"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 指定表名
func (User) TableName() string {
	return "user"
}

type SimpleUserResponse struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

func (u *User) ToSimpleResponse() SimpleUserResponse {
	return SimpleUserResponse{
		UserID:   u.UserID,
		Username: u.Username,
		FullName: u.FullName,
		Role:     u.Role,
	}
}
