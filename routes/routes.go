package routes

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"parkirin/handlers"
	"parkirin/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware 驗證 JWT token，並提取 user_id、username 和 role。
// 核心服務只消費這裡放進 context 的身分，不做授權判斷
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Authorization header wajib diisi",
			})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Format Authorization harus 'Bearer <token>'",
			})
			c.Abort()
			return
		}

		// 明確要求檢查 exp 字段
		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return utils.JWTSecret, nil
		}, jwt.WithExpirationRequired())

		if err != nil {
			log.Printf("Token parsing error: %v", err)
			message := "Token tidak valid"
			if errors.Is(err, jwt.ErrTokenExpired) {
				message = "Token sudah kedaluwarsa"
			}
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": message,
			})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Token tidak valid",
			})
			c.Abort()
			return
		}

		userID, ok := claims["user_id"].(float64)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Token tidak memuat user_id",
			})
			c.Abort()
			return
		}

		role, ok := claims["role"].(string)
		if !ok || (role != "admin" && role != "petugas") {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Token tidak memuat role yang valid",
			})
			c.Abort()
			return
		}

		c.Set("user_id", int(userID))
		if username, ok := claims["username"].(string); ok {
			c.Set("username", username)
		}
		c.Set("role", role)

		c.Next()
	}
}

// RoleMiddleware 檢查角色是否符合要求；admin 可以訪問所有端點
func RoleMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Informasi role tidak ditemukan",
			})
			c.Abort()
			return
		}

		roleStr, ok := role.(string)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Role tidak valid",
			})
			c.Abort()
			return
		}

		if roleStr == "admin" {
			c.Next()
			return
		}

		for _, allowed := range allowedRoles {
			if roleStr == allowed {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"message": "Akses ditolak",
		})
		c.Abort()
	}
}

// Path 註冊所有 API 路由
func Path(api *gin.RouterGroup) {
	// 公開端點
	api.POST("/auth/login", handlers.Login)

	authed := api.Group("")
	authed.Use(AuthMiddleware())
	{
		// 交易生命週期
		authed.GET("/transactions", handlers.ListTransactions)
		authed.GET("/transactions/active", handlers.GetActiveTransactions)
		authed.GET("/transactions/:id", handlers.GetTransaction)
		authed.POST("/transactions/checkin", handlers.CheckIn)
		authed.PUT("/transactions/:id/checkout", handlers.CheckOut)
		authed.PUT("/transactions/:id/payment-status", handlers.UpdatePaymentStatus)
		authed.DELETE("/transactions/:id", handlers.DeleteTransaction)

		// 停車區域
		authed.GET("/areas", handlers.ListAreas)
		authed.GET("/areas/occupancy", handlers.GetAreaOccupancy)
		authed.GET("/areas/by-category", handlers.GetAreasByCategory)
		authed.GET("/areas/:id", handlers.GetArea)
		authed.GET("/areas/:id/occupancy", handlers.GetAreaOccupancyByID)
		authed.POST("/areas", RoleMiddleware("admin"), handlers.CreateArea)
		authed.PUT("/areas/:id", RoleMiddleware("admin"), handlers.UpdateArea)
		authed.DELETE("/areas/:id", RoleMiddleware("admin"), handlers.DeleteArea)

		// 計費類別
		authed.GET("/categories", handlers.ListCategories)
		authed.GET("/categories/occupancy", handlers.GetCategoryOccupancy)
		authed.GET("/categories/:id", handlers.GetCategory)
		authed.POST("/categories", RoleMiddleware("admin"), handlers.CreateCategory)
		authed.PUT("/categories/:id", RoleMiddleware("admin"), handlers.UpdateCategory)
		authed.DELETE("/categories/:id", RoleMiddleware("admin"), handlers.DeleteCategory)

		// 車輛
		authed.GET("/vehicles", handlers.ListVehicles)
		authed.GET("/vehicles/:plate", handlers.GetVehicle)
		authed.PUT("/vehicles/:plate", handlers.UpdateVehicle)
		authed.DELETE("/vehicles/:plate", RoleMiddleware("admin"), handlers.DeleteVehicle)

		// 活動紀錄（僅 admin）
		authed.GET("/logs", RoleMiddleware("admin"), handlers.ListActivityLogs)
		authed.POST("/logs/purge", RoleMiddleware("admin"), handlers.PurgeActivityLogs)
	}
}
