package container

import (
	"context"
	"errors"
	"net/http"
	_ "net/http/pprof"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"gosppt/adapters/excel"
	"gosppt/adapters/memory"
	"gosppt/adapters/postgres"
	"gosppt/adapters/rng"
	"gosppt/app"
	"gosppt/internal/api"
	"gosppt/internal/config"
	apperrors "gosppt/internal/errors"
	"gosppt/internal/migration"
	"gosppt/ports"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	// Infrastructure
	DB *sqlx.DB

	// Adapters
	RNG      ports.RNGPort
	Reader   ports.TableReader
	Exporter ports.ResultExporter
	Results  ports.ResultRepository

	// Services
	Engine *app.SPPTService
}

// New creates the container with in-memory result storage. Call
// InitWithDatabase to switch to PostgreSQL.
func New(cfg *config.Config, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, apperrors.ConfigInvalid("config cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Container{
		Config:   cfg,
		Logger:   logger,
		RNG:      rng.NewPCGAdapter(),
		Reader:   excel.NewDataReader(logger),
		Exporter: excel.NewResultWriter(logger),
		Results:  memory.NewResultRepository(),
	}
	c.Engine = app.NewSPPTService(c.RNG, logger)
	return c, nil
}

// InitWithDatabase connects to DATABASE_URL, runs migrations and stores
// results in PostgreSQL. Without a URL it keeps the in-memory store.
func (c *Container) InitWithDatabase(ctx context.Context) error {
	url := c.Config.Database.URL
	if url == "" {
		c.Logger.Info("no DATABASE_URL configured, keeping results in memory")
		return nil
	}

	db, err := sqlx.ConnectContext(ctx, "postgres", url)
	if err != nil {
		return apperrors.WithCode(apperrors.CodeDatabaseError, err)
	}
	if err := migration.NewRunner().Run(ctx, db); err != nil {
		db.Close()
		return apperrors.Wrap(err, "database migration failed")
	}

	c.DB = db
	c.Results = postgres.NewResultRepository(db)
	c.Logger.Info("result store initialized", zap.String("backend", "postgres"))
	return nil
}

// Server builds the HTTP API over the container's components.
func (c *Container) Server() *api.Server {
	return api.NewServer(api.Deps{
		Engine:       c.Engine,
		Results:      c.Results,
		Exporter:     c.Exporter,
		Logger:       c.Logger,
		Defaults:     c.Config.Options(),
		MaxBodyBytes: c.Config.Server.MaxBodyBytes,
	})
}

// ListenAndServe runs the API (and pprof when enabled) until ctx is cancelled,
// then shuts the server down gracefully.
func (c *Container) ListenAndServe(ctx context.Context) error {
	cfg := c.Config.Server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      c.Server(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if c.Config.Profiling.Enabled {
		go func() {
			c.Logger.Info("pprof server starting", zap.String("port", c.Config.Profiling.Port))
			if err := http.ListenAndServe(":"+c.Config.Profiling.Port, nil); err != nil {
				c.Logger.Warn("pprof server failed", zap.Error(err))
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("sppt server starting", zap.String("port", cfg.Port))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		c.Logger.Info("sppt server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// Shutdown releases infrastructure resources
func (c *Container) Shutdown(ctx context.Context) error {
	defer c.Logger.Sync()
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
