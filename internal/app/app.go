package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/liuxiankun1234/fmock/internal/ratelimit"
	"github.com/liuxiankun1234/fmock/internal/repo/persistent"
	"github.com/liuxiankun1234/fmock/internal/usecase"
	"github.com/liuxiankun1234/fmock/pkg/config"
	"github.com/liuxiankun1234/fmock/pkg/jwt"
	"github.com/liuxiankun1234/fmock/pkg/logger"
	"github.com/liuxiankun1234/fmock/pkg/middleware"

	apphttp "github.com/liuxiankun1234/fmock/internal/controller/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "github.com/liuxiankun1234/fmock/docs" // Swagger docs
)

func Run(cfg *config.Config, log *logger.Logger, db *gorm.DB, redisClient *redis.Client) {
	jwtService := jwt.NewService(cfg.JWTSecret)

	// Initialize repositories
	postRepo := persistent.NewPostRepository(db)
	commentRepo := persistent.NewCommentRepository(db)
	reactionRepo := persistent.NewReactionRepository(db)
	followRepo := persistent.NewFollowRepository(db)

	// Initialize the engagement core
	gate := ratelimit.NewGate(ratelimit.NewRedisKeyStore(redisClient))
	cooldown := time.Duration(cfg.PostCooldownSeconds) * time.Second
	engagementUseCase := usecase.NewEngagementUseCase(reactionRepo, followRepo, postRepo, gate, redisClient, cooldown, log)

	// Initialize use cases
	postUseCase := usecase.NewPostUseCase(postRepo, engagementUseCase, log)
	commentUseCase := usecase.NewCommentUseCase(commentRepo, postRepo, engagementUseCase, log)

	// Initialize HTTP handlers
	postHandler := apphttp.NewPostHandler(postUseCase, log)
	commentHandler := apphttp.NewCommentHandler(commentUseCase, log)
	actionHandler := apphttp.NewActionHandler(postUseCase, commentUseCase, engagementUseCase, log)

	// Setup router
	r := gin.Default()

	// CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000", "*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(jwtService))
	api.Use(middleware.RateLimitMiddleware(redisClient, 100, time.Minute))

	{
		api.POST("/posts", postHandler.CreatePost)
		api.GET("/posts", postHandler.ListPosts)
		api.GET("/posts/:id", postHandler.GetPost)
		api.PUT("/posts/:id", postHandler.UpdatePost)
		api.DELETE("/posts/:id", postHandler.DeletePost)
		api.GET("/users/:user_id/posts", postHandler.GetUserPosts)

		api.POST("/posts/:id/comments", commentHandler.CreateComment)
		api.GET("/posts/:id/comments", commentHandler.GetPostComments)
		api.DELETE("/comments/:id", commentHandler.DeleteComment)

		api.POST("/posts/:id/like", actionHandler.LikePost)
		api.POST("/posts/:id/dislike", actionHandler.DislikePost)
		api.GET("/posts/:id/status", actionHandler.PostStatus)
		api.POST("/comments/:id/like", actionHandler.LikeComment)
		api.POST("/comments/:id/dislike", actionHandler.DislikeComment)
		api.GET("/comments/:id/status", actionHandler.CommentStatus)
		api.POST("/posts/:id/follow", actionHandler.FollowPost)
		api.DELETE("/follows/:post_id", actionHandler.UnfollowPost)
		api.GET("/follows", actionHandler.GetFollowedPosts)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		log.Info("FMock API starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down FMock API...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Close database connection
	sqlDB, err := db.DB()
	if err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Error("Error closing database: %v", err)
		}
	}

	// Close Redis connection
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing Redis: %v", err)
		}
	}

	// Shutdown server
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
		panic(err)
	}

	log.Info("FMock API exited")
}
