// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the dispatcher over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pdiddy/answer-engine/pkg/types"
)

// Answerer produces an answer for a question and optional upload.
// *dispatch.Dispatcher satisfies it.
type Answerer interface {
	Answer(ctx context.Context, q types.Question, file *types.UploadedFile) types.Result
}

// Server holds the state for the HTTP surface.
type Server struct {
	answerer Answerer
	cfg      types.ServerConfig
	logger   *zap.Logger
	router   *gin.Engine
}

// NewServer creates a new Server instance.
func NewServer(answerer Answerer, cfg types.ServerConfig, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = types.DefaultConfig().Server.MaxUploadBytes
	}
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	r := gin.New()
	r.MaxMultipartMemory = cfg.MaxUploadBytes
	s := &Server{
		answerer: answerer,
		cfg:      cfg,
		logger:   logger,
		router:   r,
	}
	r.Use(requestID(), accessLog(logger), gin.CustomRecovery(s.recovered))
	s.setupRoutes()
	return s
}

// Handler returns the HTTP handler serving every route.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.healthCheck)
	s.router.POST("/api/", s.handleAnswer)
	s.router.POST("/api", s.handleAnswer)
}

// Health check
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) recovered(c *gin.Context, err any) {
	s.logger.Error("handler panicked", zap.Any("panic", err), zap.String("request_id", c.GetString(requestIDKey)))
	c.AbortWithStatusJSON(http.StatusInternalServerError, answerResponse{Answer: "Internal server error"})
}
