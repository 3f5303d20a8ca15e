package controller

import (
	"github.com/gin-gonic/gin"

	"termquest/middleware"
)

func SetupRoutes(r *gin.Engine, terminals TerminalManager) {
	sc := NewSessionController(terminals)

	r.GET("/terminal", sc.StartTerminal)

	api := r.Group("/api/sessions")
	{
		api.POST("", sc.CreateSession)

		session := api.Group("/:id", middleware.GetTerminal(terminals))
		session.GET("", sc.GetSession)
		session.POST("/exec", sc.Exec)
		session.GET("/history", sc.History)
		session.GET("/complete", sc.Complete)
		session.PUT("/sublocation", sc.SetSubLocation)
		session.DELETE("", sc.DeleteSession)
	}
}
