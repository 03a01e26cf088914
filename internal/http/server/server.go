// Package server encapsula el http.Server con timeouts sanos y el
// shutdown ordenado.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/xenocrypt01/smile-report-dash/internal/observability/logger"
)

// Server envuelve el http.Server de la API.
type Server struct {
	srv *http.Server
}

// New crea el servidor con timeouts de producción.
func New(addr string, handler http.Handler) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadTimeout:       10 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
	}
}

// Run sirve hasta que el contexto se cancele y después drena conexiones
// con una ventana de gracia.
func (s *Server) Run(ctx context.Context) error {
	log := logger.Named("http")

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", logger.String("addr", s.srv.Addr))
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return s.srv.Shutdown(shutdownCtx)
}
