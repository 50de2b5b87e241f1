package main

import (
	"net/http"
	"os"
	"strings"

	"civic-reporter-api/config"
	"civic-reporter-api/controllers"
	"civic-reporter-api/models"
	"civic-reporter-api/routes"
	"civic-reporter-api/store"
	"civic-reporter-api/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	envErr := godotenv.Load()

	logger, err := utils.InitLogger()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if envErr != nil {
		utils.Log.Info("No .env file found")
	}

	db := config.ConnectDB()
	config.ConnectRedis()

	userStore := store.NewMongoUserStore(db)
	issueStore := store.NewMongoIssueStore(db)

	if err := userStore.EnsureIndexes(config.Ctx); err != nil {
		utils.Log.Warn("Failed to ensure user indexes", zap.Error(err))
	}

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		utils.Log.Fatal("Failed to create upload directory", zap.Error(err))
	}

	statusPolicy := models.StatusPolicy{Strict: os.Getenv("STRICT_STATUS") == "1"}

	authController := controllers.NewAuthController(userStore)
	issueController := controllers.NewIssueController(issueStore, statusPolicy, uploadDir)

	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		corsConfig.AllowOrigins = strings.Split(origins, ",")
		corsConfig.AllowCredentials = true
	} else {
		corsConfig.AllowAllOrigins = true
	}
	r.Use(cors.New(corsConfig))

	r.Static("/uploads", uploadDir)

	routes.AuthRoutes(r, authController)
	routes.IssueRoutes(r, issueController)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	utils.Log.Info("Starting server", zap.String("port", port))
	if err := r.Run(":" + port); err != nil {
		utils.Log.Fatal("Failed to start server", zap.Error(err))
	}
}
