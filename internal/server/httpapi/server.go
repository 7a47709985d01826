// Package httpapi exposes the NoteGuard core over HTTP/JSON.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/studyvault/noteguard/internal/logging"
	"github.com/studyvault/noteguard/internal/server/payments"
	"github.com/studyvault/noteguard/internal/server/progress"
	"github.com/studyvault/noteguard/internal/server/sessions"
	"github.com/studyvault/noteguard/internal/server/users"
	"github.com/studyvault/noteguard/internal/server/watermarks"
)

type Server struct {
	addr     string
	logger   logging.Logger
	sessions *sessions.Service
	signer   *watermarks.Signer
	users    users.Repository
	progress *progress.Service
	payments *payments.Service

	httpServer *http.Server
}

func NewServer(addr string, logger logging.Logger,
	ss *sessions.Service, signer *watermarks.Signer, ur users.Repository,
	ps *progress.Service, pay *payments.Service) *Server {

	s := &Server{
		addr:     addr,
		logger:   logger,
		sessions: ss,
		signer:   signer,
		users:    ur,
		progress: ps,
		payments: pay,
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	v1 := router.Group("/v1")
	{
		v1.GET("/healthz", s.healthz)

		v1.POST("/sessions", s.requireUser(), s.issueSession)
		v1.GET("/progress/:noteId", s.requireUser(), s.getProgress)
		v1.POST("/orders", s.requireUser(), s.createOrder)

		v1.GET("/watermark", s.requireSession(), s.getWatermark)
		v1.POST("/progress", s.requireSession(), s.reportProgress)

		v1.GET("/orders/:merchantTransactionId", s.getOrderStatus)
		v1.POST("/provider/webhook", s.providerWebhook)
	}

	s.httpServer = &http.Server{Addr: addr, Handler: router}

	return s
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {

	errCh := make(chan error, 1)

	go func() {
		s.logger.Info(ctx, "http server listening", "addr", s.addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.httpServer.Shutdown(shutdownCtx)
}
