package main

import (
	"log"
	"os"

	"parkirin/database"
	"parkirin/models"
	"parkirin/routes"
	"parkirin/services"
	"parkirin/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

func main() {
	// 載入 .env 檔案
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, using default environment variables: %v", err)
	}

	// 初始化 JWTSecret
	utils.InitJWTSecret()

	// 初始化資料庫
	database.InitDB()

	// 執行資料庫遷移
	database.DB.AutoMigrate(
		&models.User{},
		&models.Vehicle{},
		&models.VehicleCategory{},
		&models.ParkingArea{},
		&models.ParkingTransaction{},
		&models.ActivityLog{},
	)
	log.Println("Database migration completed")

	// 確保預設管理員與預設計費類別存在
	ensureAdminExists()
	seedDefaultCategories()

	// 啟動非同步活動紀錄器
	notifier := services.InitNotifier(256)
	defer notifier.Stop()

	// 設置 Gin 模式
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "" {
		ginMode = gin.ReleaseMode
	}
	gin.SetMode(ginMode)
	log.Printf("Gin mode set to %s", ginMode)

	// 初始化 Gin 路由器
	r := gin.Default()

	// 創建一個 API 路由組
	api := r.Group("/api")
	{
		routes.Path(api)
	}

	// 啟動定時任務
	c := cron.New()

	// 活動紀錄保留期限清理（每天 03:00 執行）
	_, err := c.AddFunc("0 3 * * *", func() {
		log.Println("Purging old activity logs...")
		if _, err := services.PurgeOldActivityLogs(90); err != nil {
			log.Printf("Failed to purge old activity logs: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("Failed to schedule activity log purge cron job: %v", err)
	}

	c.Start()
	log.Println("Cron jobs started")

	// 啟動伺服器
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Starting server on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// ensureAdminExists 檢查並創建預設管理員
func ensureAdminExists() {
	var admin models.User
	if err := database.DB.Where("role = ?", "admin").First(&admin).Error; err == nil {
		log.Printf("Admin already exists: username=%s", admin.Username)
		return
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin1234"
		log.Println("ADMIN_PASSWORD not set, using insecure development default")
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		log.Fatalf("Failed to hash admin password: %v", err)
	}

	admin = models.User{
		Username: "admin",
		Password: hashedPassword,
		FullName: "Administrator",
		Role:     "admin",
		Status:   "aktif",
	}
	if err := database.DB.Create(&admin).Error; err != nil {
		log.Fatalf("Failed to create default admin: %v", err)
	}

	log.Printf("Default admin created: username=%s", admin.Username)
}

// seedDefaultCategories 確保預設計費類別存在（空資料庫時）
func seedDefaultCategories() {
	var count int64
	if err := database.DB.Model(&models.VehicleCategory{}).Count(&count).Error; err != nil {
		log.Fatalf("Failed to count vehicle categories: %v", err)
	}
	if count > 0 {
		return
	}

	defaults := []models.VehicleCategory{
		{Name: "Parkir Mobil", CategoryKey: "mobil", EntryFee: 5000, HourlyFee: 2000},
		{Name: "Parkir Motor", CategoryKey: "motor", EntryFee: 2000, HourlyFee: 1000},
		{Name: "Parkir Mobil Khusus", CategoryKey: "mobil_khusus", EntryFee: 10000, HourlyFee: 5000},
	}
	for _, category := range defaults {
		if err := database.DB.Create(&category).Error; err != nil {
			log.Fatalf("Failed to seed category %s: %v", category.CategoryKey, err)
		}
	}
	log.Printf("Seeded %d default vehicle categories", len(defaults))
}
