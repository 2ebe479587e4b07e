package main

import (
	"net/http"

	"github.com/azhagarpy/quize-app/internal/auth"
	"github.com/azhagarpy/quize-app/internal/cache"
	"github.com/azhagarpy/quize-app/internal/config"
	"github.com/azhagarpy/quize-app/internal/database"
	"github.com/azhagarpy/quize-app/internal/handler"
	"github.com/azhagarpy/quize-app/internal/hub"
	"github.com/azhagarpy/quize-app/internal/quiz"
	"github.com/azhagarpy/quize-app/internal/repository"

	"github.com/gin-gonic/gin"
	goredis "github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func init() {
	config.LoadConfig()
}

// @title           Quize API
// @version         1.0
// @description     Multiplayer quiz rooms, live game sessions, and rank progression.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	// Connect to the database
	database.Connect(config.AppConfig.DatabaseURL)

	// The leaderboard cache is optional; without Redis the store alone serves
	// leaderboards.
	var leaderboards quiz.LeaderboardCache
	if config.AppConfig.RedisAddr != "" {
		redisClient := goredis.NewClient(&goredis.Options{Addr: config.AppConfig.RedisAddr})
		leaderboards = cache.NewLeaderboardCache(redisClient, "qv:")
		logrus.WithField("addr", config.AppConfig.RedisAddr).Info("Leaderboard cache enabled")
	} else {
		logrus.Warn("REDIS_ADDR not set, leaderboard caching disabled")
	}

	store := repository.NewGormStore(database.DB)
	rooms := quiz.NewRoomService(store, hub.GlobalHub)
	sessions := quiz.NewSessionService(store, hub.GlobalHub, leaderboards)
	handler.Setup(rooms, sessions, hub.GlobalHub)

	router := gin.Default()

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// API v1 routes
	apiV1 := router.Group("/api/v1")
	{
		// Auth routes
		authRoutes := apiV1.Group("/auth")
		{
			authRoutes.POST("/register", handler.RegisterUser)
			authRoutes.POST("/login", handler.LoginUser)
		}

		// User routes (protected)
		userRoutes := apiV1.Group("/users")
		userRoutes.Use(auth.AuthMiddleware())
		{
			userRoutes.GET("/me", handler.GetMe)
			userRoutes.GET("/me/relations", handler.GetRelations)
			userRoutes.GET("/:id", handler.GetUserByID)

			// Friendship routes
			userRoutes.POST("/:id/request", handler.SendRequest)
			userRoutes.POST("/:id/accept", handler.AcceptRequest)
			userRoutes.POST("/:id/decline", handler.DeclineRequest)
			userRoutes.POST("/:id/remove", handler.RemoveRelation)
		}

		// Room routes (protected)
		roomRoutes := apiV1.Group("/rooms")
		roomRoutes.Use(auth.AuthMiddleware())
		{
			roomRoutes.POST("", handler.CreateRoom)
			roomRoutes.POST("/join", handler.JoinRoom)
			roomRoutes.GET("/:id", handler.GetRoom)
			roomRoutes.GET("/:id/code.png", handler.RoomCodeQR)
			roomRoutes.POST("/:id/ready", handler.ToggleReady)
			roomRoutes.POST("/:id/start", handler.StartGame)
			roomRoutes.POST("/:id/leave", handler.LeaveRoom)
			roomRoutes.GET("/:id/messages", handler.GetMessages)
			roomRoutes.POST("/:id/messages", handler.SendMessage)
			roomRoutes.GET("/:id/events", handler.RoomEvents)
		}

		// Session routes (protected)
		sessionRoutes := apiV1.Group("/sessions")
		sessionRoutes.Use(auth.AuthMiddleware())
		{
			sessionRoutes.POST("", handler.CreateSoloSession)
			sessionRoutes.GET("/:id", handler.GetSession)
			sessionRoutes.POST("/:id/answers", handler.SubmitAnswer)
			sessionRoutes.GET("/:id/leaderboard", handler.GetLeaderboard)
			sessionRoutes.GET("/:id/events", handler.SessionEvents)
		}

		// Admin routes (protected by auth and admin check)
		adminRoutes := apiV1.Group("/admin")
		adminRoutes.Use(auth.AuthMiddleware(), auth.AdminMiddleware())
		{
			questions := adminRoutes.Group("/questions")
			{
				questions.POST("", handler.CreateQuestion)
				questions.GET("", handler.GetQuestions)
				questions.PUT("/:id", handler.UpdateQuestion)
				questions.DELETE("/:id", handler.DeleteQuestion)
			}
		}
	}

	addr := ":" + config.AppConfig.Port
	logrus.WithField("addr", addr).Info("Server is running")
	logrus.Fatal(router.Run(addr))
}
