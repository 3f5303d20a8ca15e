package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"termquest/content"
	"termquest/logging"
	"termquest/server"
	"termquest/terminal"
)

func main() {
	var port uint
	var logLevel, logFormat string

	flag.UintVar(&port, "port", 1234, "The port to listen on")
	flag.StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flag.StringVar(&logFormat, "log-format", "json", "Log format: json, console")
	flag.Parse()

	if err := logging.Init(logging.Config{Level: logLevel, Format: logFormat}); err != nil {
		logging.InitDefault()
		logging.S().Warnf("failed to init logger, using defaults: %v", err)
	}
	defer logging.Sync()
	logger := logging.S()

	if logLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	c, err := content.Load(content.EnvPath())
	if err != nil {
		logger.Fatalf("failed to load content: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	manager := terminal.NewManager(c, terminal.Options{})
	go manager.Run(ctx, time.Minute)

	if err := server.Start(ctx, port, manager); err != nil {
		logger.Fatalf("server error: %v", err)
	}
}
