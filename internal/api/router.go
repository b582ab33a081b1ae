package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/publishing-api/internal/assets"
	"github.com/publishing-api/internal/auth"
	"github.com/publishing-api/internal/service"
	"github.com/rs/zerolog"
)

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, store assets.Store, authn auth.Authenticator, log zerolog.Logger) *gin.Engine {
	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware())

	// Handlers
	articleHandler := NewArticleHandler(services, log)
	commentHandler := NewCommentHandler(services, log)
	notificationHandler := NewNotificationHandler(services, log)
	profileHandler := NewProfileHandler(services, log)
	categoryHandler := NewCategoryHandler(services, log)
	assetHandler := NewAssetHandler(store, log)

	requireAuth := authMiddleware(authn, true)
	optionalAuth := authMiddleware(authn, false)

	// Health check
	router.GET("/health", healthCheck)

	// Uploaded images, for either asset backend
	router.GET("/uploads/:bucket/:filename", assetHandler.Serve)
	router.HEAD("/uploads/:bucket/:filename", assetHandler.Serve)

	// API v1
	v1 := router.Group("/v1")
	{
		articles := v1.Group("/articles")
		{
			articles.GET("", articleHandler.List)
			articles.GET("/:id", optionalAuth, articleHandler.Get)
			articles.POST("", requireAuth, articleHandler.Create)
			articles.PUT("/:id", requireAuth, articleHandler.Update)
			articles.DELETE("/:id", requireAuth, articleHandler.Delete)
			articles.POST("/:id/view", optionalAuth, articleHandler.RecordView)

			articles.GET("/:id/comments", commentHandler.List)
			articles.POST("/:id/comments", requireAuth, commentHandler.Create)
		}

		categories := v1.Group("/categories")
		{
			categories.GET("", categoryHandler.List)
			categories.GET("/:id", categoryHandler.Get)
			categories.POST("", requireAuth, categoryHandler.Create)
			categories.PUT("/:id", requireAuth, categoryHandler.Update)
			categories.DELETE("/:id", requireAuth, categoryHandler.Delete)
		}

		comments := v1.Group("/comments", requireAuth)
		{
			comments.PUT("/:id", commentHandler.Update)
			comments.DELETE("/:id", commentHandler.Delete)
		}

		notifications := v1.Group("/notifications", requireAuth)
		{
			notifications.GET("", notificationHandler.List)
			notifications.POST("", notificationHandler.Create)
			notifications.GET("/unread-count", notificationHandler.UnreadCount)
			notifications.PUT("/read-all", notificationHandler.MarkAllRead)
			notifications.PUT("/:id/read", notificationHandler.MarkRead)
			notifications.DELETE("/:id", notificationHandler.Delete)
		}

		profile := v1.Group("/profile", requireAuth)
		{
			profile.PUT("/image", profileHandler.UpdateImage)
			profile.DELETE("/image", profileHandler.RemoveImage)
		}
	}

	return router
}

// healthCheck returns the health status
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   "publishing-api",
	})
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Str("path", c.Request.URL.Path).Msg("Panic recovered")
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		if p := principalFrom(c); p != nil {
			event = event.Int64("user_id", p.UserID)
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}

// corsMiddleware handles CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
