// Package api implements app.Runner for the API server process.
package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	apphttp "github.com/chainsafe/dao-governance/pkg/app/http"
	"github.com/chainsafe/dao-governance/pkg/auth"
	"github.com/chainsafe/dao-governance/pkg/config"
	"github.com/chainsafe/dao-governance/pkg/council"
	daoservice "github.com/chainsafe/dao-governance/pkg/dao/service"
	"github.com/chainsafe/dao-governance/pkg/daostore"
	"github.com/chainsafe/dao-governance/pkg/pgutil"
)

// Server holds cfg to init the api server.
type Server struct {
	cfg *config.Config
}

// NewServer initializes new api server.
func NewServer(cfg *config.Config) *Server {
	return &Server{cfg: cfg}
}

// stores bundles the persistence backends selected by database.driver.
type stores struct {
	daos    daostore.Store
	council council.Store
	close   func() error
}

func (s *Server) Run() error {
	if s.cfg == nil {
		return fmt.Errorf("api server config is nil")
	}
	cfg := s.cfg

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("setup logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting DAO governance server",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
		zap.String("database_driver", cfg.Database.Driver),
	)

	st, err := s.openStores(ctx, logger)
	if err != nil {
		return err
	}
	defer func() { _ = st.close() }()

	router, err := s.setupRouter(ctx, st, logger)
	if err != nil {
		return err
	}

	return apphttp.ServeAndWait(ctx, router, logger, &cfg.Server)
}

func (s *Server) openStores(ctx context.Context, logger *zap.Logger) (*stores, error) {
	limits := s.cfg.DAO.Limits()
	if err := limits.Validate(); err != nil {
		return nil, fmt.Errorf("dao limits: %w", err)
	}

	if s.cfg.Database.Driver == config.DriverMemory {
		logger.Warn("Using in-memory storage, state is lost on exit")
		return &stores{
			daos:    daostore.NewMemoryStore(limits),
			council: council.NewMemoryStore(),
			close:   func() error { return nil },
		}, nil
	}

	db, err := pgutil.ConnectDB(ctx, &s.cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	return &stores{
		daos:    daostore.NewStore(db, limits),
		council: council.NewStore(db),
		close:   db.Close,
	}, nil
}

func (s *Server) setupRouter(ctx context.Context, st *stores, logger *zap.Logger) (chi.Router, error) {
	pallet, err := s.cfg.DAO.Pallet()
	if err != nil {
		return nil, fmt.Errorf("dao pallet id: %w", err)
	}

	svc := daoservice.NewService(
		st.daos,
		council.NewProvider(st.council, logger),
		daoservice.Options{
			Pallet:   pallet,
			Limits:   s.cfg.DAO.Limits(),
			Defaults: s.cfg.DAO.PolicyDefaults(),
		},
		logger,
	)
	if _, err := svc.Count(ctx); err != nil {
		return nil, fmt.Errorf("read dao count: %w", err)
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	if s.cfg.Monitoring.Enabled {
		r.Handle(s.cfg.Monitoring.MetricsPath, promhttp.Handler())
		logger.Info("Metrics endpoint enabled", zap.String("path", s.cfg.Monitoring.MetricsPath))
	}

	authn := auth.Middleware(auth.NewJWTValidator(s.cfg.Auth.JWTSecret, s.cfg.Auth.Issuer))
	daos := daoservice.NewProvider(st.daos, pallet)
	daoservice.RegisterRoutes(r, daoservice.NewLog(svc, logger), daos, authn, logger)

	return r, nil
}
