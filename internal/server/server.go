// Package server exposes the pipeline over HTTP.
//
//	GET  /healthz          liveness
//	POST /v1/extract       multipart "image" -> result JSON
//	POST /v1/parse         raw model text -> result JSON
//	POST /v1/script        record JSON object -> fill script
//	GET  /v1/history       recent runs, ?limit=n
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gardar/formscribe/internal/history"
	"github.com/gardar/formscribe/pkg/pipeline"
	"github.com/gardar/formscribe/pkg/record"
	"github.com/gardar/formscribe/pkg/vision"
)

// MaxImageBytes bounds uploaded images.
const MaxImageBytes = 20 << 20

// MaxBodyBytes bounds the raw text and record bodies of /v1/parse and /v1/script.
const MaxBodyBytes = 1 << 20

// History lists recent runs.
type History interface {
	Recent(ctx context.Context, limit int) ([]history.Entry, error)
}

// Server holds the HTTP handlers.
type Server struct {
	pipeline *pipeline.Pipeline
	history  History
	logger   *zap.Logger
	engine   *gin.Engine
}

// New builds the router. hist may be nil, which disables /v1/history.
func New(p *pipeline.Pipeline, hist History, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	gin.SetMode(gin.ReleaseMode)

	s := &Server{pipeline: p, history: hist, logger: logger, engine: gin.New()}
	s.engine.Use(gin.Recovery(), s.logRequests)
	s.engine.MaxMultipartMemory = MaxImageBytes

	s.engine.GET("/healthz", s.Health)
	v1 := s.engine.Group("/v1")
	v1.POST("/extract", s.Extract)
	v1.POST("/parse", s.Parse)
	v1.POST("/script", s.Script)
	v1.GET("/history", s.History)
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.engine, ReadHeaderTimeout: 10 * time.Second}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to serve: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down: %w", err)
		}
		return nil
	}
}

func (s *Server) logRequests(c *gin.Context) {
	start := time.Now()
	c.Next()
	s.logger.Info("http request",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Int("status", c.Writer.Status()),
		zap.Duration("latency", time.Since(start)),
	)
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) Extract(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing image file"})
		return
	}
	if file.Size > MaxImageBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image too large"})
		return
	}

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	img, err := vision.NewImage(file.Filename, data)
	if err != nil {
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": err.Error()})
		return
	}

	res, err := s.pipeline.Run(c.Request.Context(), img)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.PureJSON(http.StatusOK, res)
}

// readBody reads the request body up to MaxBodyBytes. It writes the error response itself
// and reports whether the handler should continue.
func readBody(c *gin.Context) ([]byte, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)
	body, err := c.GetRawData()
	if err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return nil, false
	}
	return body, true
}

func (s *Server) Parse(c *gin.Context) {
	body, ok := readBody(c)
	if !ok {
		return
	}

	res, err := s.pipeline.Process(c.Request.Context(), "api", string(body))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.PureJSON(http.StatusOK, res)
}

func (s *Server) Script(c *gin.Context) {
	body, ok := readBody(c)
	if !ok {
		return
	}
	rec := record.New()
	if err := json.Unmarshal(body, rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(s.pipeline.Script(rec)))
}

func (s *Server) History(c *gin.Context) {
	if s.history == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "history disabled"})
		return
	}

	limit := history.DefaultLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}

	entries, err := s.history.Recent(c.Request.Context(), limit)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.PureJSON(http.StatusOK, entries)
}

// fail maps pipeline errors to a status code and logs them.
func (s *Server) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, pipeline.ErrNoExtractor):
		status = http.StatusServiceUnavailable
	case errors.Is(err, vision.ErrRetriesExhausted):
		status = http.StatusServiceUnavailable
	case errors.Is(err, vision.ErrNoContent):
		status = http.StatusBadGateway
	}
	s.logger.Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	c.JSON(status, gin.H{"error": err.Error()})
}
