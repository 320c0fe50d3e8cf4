package services

import (
	"errors"
	"fmt"
	"log"

	"parkirin/database"
	"parkirin/models"
	"parkirin/utils"

	"gorm.io/gorm"
)

// ErrInvalidCredentials 帳號或密碼錯誤；故意不區分哪一個錯
var ErrInvalidCredentials = errors.New("username atau password salah")

// Login 驗證帳號密碼並簽發 token。核心工作流程只吃 Actor，
// 這裡是提供身分情境的邊界層
func Login(username, password string) (string, *models.User, error) {
	if username == "" || password == "" {
		return "", nil, fmt.Errorf("%w: username dan password wajib diisi", ErrValidation)
	}

	var user models.User
	if err := database.DB.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to look up user %s: %w", username, err)
	}

	if user.Status != "aktif" {
		return "", nil, fmt.Errorf("%w: akun tidak aktif", ErrValidation)
	}

	if !utils.CheckPasswordHash(password, user.Password) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(user.UserID, user.Username, user.Role)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token for user %s: %w", username, err)
	}

	log.Printf("User %s logged in (role: %s)", user.Username, user.Role)
	recordActivity(Actor{UserID: &user.UserID, Username: user.Username, Role: user.Role},
		"Login oleh %s", user.Username)

	return token, &user, nil
}
