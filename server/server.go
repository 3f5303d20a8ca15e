package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"termquest/controller"
	"termquest/logging"
)

const shutdownTimeout = 10 * time.Second

func NewEngine(terminals controller.TerminalManager) *gin.Engine {
	r := gin.New()
	SetupRoutes(r, terminals)
	return r
}

// Start serves on port until ctx is cancelled, then shuts down gracefully.
func Start(ctx context.Context, port uint, terminals controller.TerminalManager) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: NewEngine(terminals),
	}

	errChan := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()
	logging.S().Infof("started on port %d", port)

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logging.S().Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
