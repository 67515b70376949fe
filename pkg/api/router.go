package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jakechorley/roster-engine/internal/config"
)

const shutdownTimeout = 10 * time.Second

// NewRouter builds the gin engine with CORS, request logging and every route
func NewRouter(cfg *config.Config, logger *zap.Logger, now func() time.Time) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(logger))

	if len(cfg.Server.AllowedOrigins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = cfg.Server.AllowedOrigins
		corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
		corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type"}
		engine.Use(cors.New(corsConfig))
	}

	h := NewHandler(cfg, logger, now)

	engine.GET("/health", h.Health)

	api := engine.Group("/api")
	{
		api.POST("/score", h.Score)
		api.POST("/allocate", h.Allocate)
		api.POST("/price", h.Price)
		api.POST("/timesheets/validate", h.ValidateTimesheet)
		api.GET("/presets", h.Presets)
		api.GET("/jurisdictions/:award", h.Jurisdiction)
	}

	return engine
}

// requestLogger logs each request once it has been served
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			logger.Warn("Request failed", fields...)
			return
		}
		logger.Debug("Request served", fields...)
	}
}

// Serve runs the HTTP server until ctx is cancelled, then shuts it down gracefully
func Serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           NewRouter(cfg, logger, time.Now),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
