package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/iamasit07/connect4-rules/internal/transport/http/middleware"
)

type RouterConfig struct {
	Games          *GameHandler
	WebSocket      gin.HandlerFunc
	JWTSecret      string
	AllowedOrigins []string
	Logger         *zap.Logger
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger.Named("http")

	router := gin.New()
	router.Use(middleware.RequestLogger(logger), gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.AllowedOrigins, logger))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		protected.GET("/games", cfg.Games.List)
		protected.POST("/games", cfg.Games.Create)
		protected.GET("/games/:id", cfg.Games.Get)
		protected.GET("/games/:id/history", cfg.Games.History)
		protected.POST("/games/:id/accept", cfg.Games.Accept)
		protected.POST("/games/:id/reject", cfg.Games.Reject)
		protected.POST("/games/:id/moves", cfg.Games.Move)
		protected.POST("/transitions/validate", Validate)
	}

	// authenticated from the query string inside the handler
	if cfg.WebSocket != nil {
		router.GET("/ws", cfg.WebSocket)
	}
	return router
}
