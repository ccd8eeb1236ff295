// Package gin exposes the extraction pipeline over HTTP using the gin
// framework.
package gin

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/fwojciec/harvest"
	"github.com/gin-gonic/gin"
)

// ShutdownTimeout bounds graceful shutdown in ListenAndServe.
const ShutdownTimeout = 5 * time.Second

// Server serves extraction and classification endpoints.
type Server struct {
	Processor harvest.Processor
	Gate      harvest.Gate

	// RunService enables the run history endpoints when set.
	RunService harvest.RunService

	engine *gin.Engine
}

// NewServer creates a Server with its routes registered.
func NewServer(processor harvest.Processor, gate harvest.Gate, opts ...Option) *Server {
	s := &Server{Processor: processor, Gate: gate}
	for _, opt := range opts {
		opt(s)
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	v1 := r.Group("/v1")
	v1.GET("/health", s.handleHealth)
	v1.POST("/extract", s.handleExtract)
	v1.POST("/classify", s.handleClassify)
	if s.RunService != nil {
		v1.GET("/runs", s.handleListRuns)
		v1.GET("/runs/:id", s.handleGetRun)
	}

	s.engine = r
	return s
}

// Option configures a Server.
type Option func(*Server)

// WithRunService enables the run history endpoints.
func WithRunService(svc harvest.RunService) Option {
	return func(s *Server) {
		s.RunService = svc
	}
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondError writes an application error with the matching HTTP status.
func respondError(c *gin.Context, err error) {
	code := harvest.ErrorCode(err)
	status := http.StatusInternalServerError
	switch code {
	case harvest.EINVALID:
		status = http.StatusBadRequest
	case harvest.ENOTFOUND:
		status = http.StatusNotFound
	case harvest.ECONFLICT:
		status = http.StatusConflict
	}
	c.JSON(status, errorResponse{Code: code, Message: harvest.ErrorMessage(err)})
}
