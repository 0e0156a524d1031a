package api

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes initializes all API endpoints
func (s *Server) SetupRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		api.GET("/status", s.GetStatus)
		api.GET("/launches", s.ListLaunches)
		api.GET("/launches/:id", s.GetLaunch)
		api.POST("/launch", s.TriggerLaunch)
	}
	router.GET("/ws", s.HandleWebSocket)
}
