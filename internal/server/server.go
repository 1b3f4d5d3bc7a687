package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"tokenrelay/internal/config"
	"tokenrelay/internal/logging"
	"tokenrelay/internal/modules/auth"
	"tokenrelay/internal/pkg/jwt"
	"tokenrelay/internal/pkg/secret"
	"tokenrelay/internal/repository"
)

type Server struct {
	cfg        *config.Config
	log        logging.Logger
	httpServer *http.Server
	closeStore func() error
}

// New opens the credential store and builds the HTTP server. Call Close when
// done, whether or not ListenAndServe ran.
func New(ctx context.Context, cfg *config.Config, log logging.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	scheme, err := secret.ParseScheme(cfg.SecretScheme)
	if err != nil {
		return nil, err
	}
	matcher, err := secret.NewMatcher(scheme)
	if err != nil {
		return nil, err
	}

	codec, err := jwt.New(jwt.Config{
		AccessSecret:  cfg.AccessSecret,
		RenewalSecret: cfg.RenewalSecret,
		AccessTTL:     cfg.AccessTTL,
		RenewalTTL:    cfg.RenewalTTL,
	})
	if err != nil {
		return nil, err
	}

	store, closeStore, err := repository.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open credential store: %w", err)
	}

	gin.SetMode(cfg.GinMode)

	authService := auth.NewService(store, codec, matcher, log)
	router := NewRouter(RouterDeps{
		Auth:   auth.NewHandler(authService),
		Guard:  auth.NewGuard(codec),
		Logger: log,
	})

	return &Server{
		cfg: cfg,
		log: log,
		httpServer: &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           router,
			ReadHeaderTimeout: cfg.ReadTimeout,
			ReadTimeout:       cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
		},
		closeStore: closeStore,
	}, nil
}

// ListenAndServe runs the HTTP server until the context ends.
func (s *Server) ListenAndServe(ctx context.Context) error {
	serveErr := make(chan error, 1)
	s.log.Info(ctx, "server listening", "addr", s.cfg.HTTPAddr, "env", s.cfg.AppEnv)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		s.log.Info(context.Background(), "server stopped")
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Close releases the credential store.
func (s *Server) Close() error {
	if s.closeStore == nil {
		return nil
	}
	return s.closeStore()
}
