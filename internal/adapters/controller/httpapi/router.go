package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func NewRouter(sessions SessionService, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(RequestID())
	router.Use(Recovery(logger))
	router.Use(Logger(logger))

	SetupRoutes(router, NewSessionHandler(sessions, logger))
	return router
}

func SetupRoutes(router *gin.Engine, h *SessionHandler) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	{
		sessions := v1.Group("/sessions")
		sessions.POST("", h.Create)
		sessions.GET("/:id", h.Get)
		sessions.POST("/:id/intents", h.Dispatch)
		sessions.DELETE("/:id", h.Close)
	}
}
