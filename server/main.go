package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"termquest/controller"
	"termquest/logging"
	"termquest/metrics"
)

func SetupRoutes(r *gin.Engine, terminals controller.TerminalManager) {
	r.Use(gin.Recovery(), logging.Middleware(), metrics.Middleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	controller.SetupRoutes(r, terminals)
}
