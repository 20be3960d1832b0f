// Package app assembles the shelter HTTP server from its parts.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/strayhq/shelter/internal/platform/timeouts"
	"github.com/strayhq/shelter/internal/shelter/api/rest"
	"github.com/strayhq/shelter/internal/shelter/domain"
	"github.com/strayhq/shelter/internal/shelter/storage/sqlite"
)

// Config defines the inputs for the shelter server process.
type Config struct {
	HTTPAddr string
	DBPath   string
}

// Server hosts the shelter API over HTTP.
type Server struct {
	httpAddr   string
	httpServer *http.Server
	store      *sqlite.Store
}

// NewServer opens the store and wires services to the HTTP routes.
func NewServer(cfg Config) (*Server, error) {
	if cfg.HTTPAddr == "" {
		return nil, errors.New("http addr is required")
	}
	store, err := openStore(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	handler := rest.NewHandler(
		domain.NewCatService(store),
		domain.NewUserService(store),
		domain.NewPostService(store),
	)

	return &Server{
		httpAddr: cfg.HTTPAddr,
		store:    store,
		httpServer: &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           handler.Router(),
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
	}, nil
}

// ListenAndServe serves HTTP until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("shelter server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	serveErr := make(chan error, 1)
	log.Printf("shelter listening on %s", s.httpAddr)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// Close releases the store held by the server.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			log.Printf("close shelter store: %v", err)
		}
	}
}

func openStore(path string) (*sqlite.Store, error) {
	if path == "" {
		path = filepath.Join("data", "shelter.db")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := sqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open shelter sqlite store: %w", err)
	}
	return store, nil
}
