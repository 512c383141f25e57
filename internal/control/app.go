package control

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"go.uber.org/multierr"

	"github.com/vietddude/movies/internal/core/config"
	"github.com/vietddude/movies/internal/core/domain"
	"github.com/vietddude/movies/internal/health"
	"github.com/vietddude/movies/internal/infra/redis"
	"github.com/vietddude/movies/internal/infra/storage"
	"github.com/vietddude/movies/internal/infra/storage/memory"
	"github.com/vietddude/movies/internal/infra/storage/postgres"
	"github.com/vietddude/movies/internal/infra/upstream"
	"github.com/vietddude/movies/internal/movieinfo"
	"github.com/vietddude/movies/internal/movies"
	"github.com/vietddude/movies/internal/review"
	"github.com/vietddude/movies/internal/stream"
)

// App is the main application struct that manages the service lifecycle.
type App struct {
	cfg         *config.AppConfig
	monitor     *health.Monitor
	server      *health.Server
	grpcServer  *health.GRPCServer
	db          *postgres.DB
	redisClient *redis.Client
	relays      []func(ctx context.Context) error
	closers     []func() error
	log         *slog.Logger

	listener net.Listener
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewApp creates a new App with every service its role needs.
func NewApp(cfg *config.AppConfig, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	a := &App{
		cfg:     cfg,
		monitor: health.NewMonitor(5 * time.Second),
		log:     logger,
	}
	a.server = health.NewServer(a.monitor, cfg.Server.Port)
	if cfg.Server.GRPCPort > 0 {
		a.grpcServer = health.NewGRPCServer(cfg.Server.GRPCPort)
	}

	if err := a.wire(); err != nil {
		// Release whatever was opened before the failure
		_ = a.closeResources()
		return nil, err
	}
	return a, nil
}

func (a *App) wire() error {
	cfg := a.cfg
	servesRecords := cfg.Role.Serves(config.RoleMovieInfo) || cfg.Role.Serves(config.RoleReview)

	// 1. Initialize Redis
	if cfg.Redis.Enabled() && servesRecords {
		client, err := redis.NewClient(cfg.Redis)
		if err != nil {
			return err
		}
		a.redisClient = client
		a.monitor.AddCheck("redis", client.Ping, true)
		a.log.Info("Stream relay enabled", "redis", cfg.Redis.URL)
	}

	// 2. Initialize Storage
	var movieInfoRepo storage.MovieInfoRepository
	var reviewRepo storage.ReviewRepository

	if servesRecords {
		if cfg.Database.Enabled() {
			db, err := postgres.NewDB(context.Background(), cfg.Database)
			if err != nil {
				return err
			}
			a.db = db

			if err := postgres.Migrate(context.Background(), db, "up"); err != nil {
				return err
			}
			a.monitor.AddCheck("database", db.Health, true)

			movieInfoRepo = postgres.NewMovieInfoRepo(db)
			reviewRepo = postgres.NewReviewRepo(db)
			a.log.Info("Using PostgreSQL storage", "driver", cfg.Database.Driver)
		} else {
			store := memory.NewMemoryStorage()
			movieInfoRepo = memory.NewMovieInfoRepo(store)
			reviewRepo = memory.NewReviewRepo(store)
			a.log.Info("Using in-memory storage")
		}
	}

	// 3. Record services
	if cfg.Role.Serves(config.RoleMovieInfo) {
		hub, publisher := wireStream[domain.MovieInfo](a, "movie-info")
		service := movieinfo.NewService(movieInfoRepo, publisher, a.log)
		movieinfo.NewHandler(service, hub, a.log).Register(a.server.Mux)
	}
	if cfg.Role.Serves(config.RoleReview) {
		hub, publisher := wireStream[domain.Review](a, "review")
		service := review.NewService(reviewRepo, publisher, a.log)
		review.NewHandler(service, hub, a.log).Register(a.server.Mux)
	}

	// 4. Aggregation
	if cfg.Role.Serves(config.RoleMovies) {
		spec := upstream.NewRetrySpec(cfg.Retry.MaxAttempts, cfg.Retry.Delay)
		var movieInfoSpec *upstream.RetrySpec
		if cfg.Retry.RetryMovieInfo() {
			movieInfoSpec = spec
		}

		infoClient := upstream.NewMovieInfoClient(cfg.Clients.MoviesInfoURL, cfg.Clients.Timeout, movieInfoSpec, a.log)
		a.closers = append(a.closers, infoClient.Close)

		reviewClient, err := upstream.NewReviewClient(cfg.Clients.ReviewsURL, cfg.Clients.Timeout, spec, a.log)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, reviewClient.Close)

		aggregator := movies.NewAggregator(infoClient, reviewClient, a.log)
		movies.NewHandler(aggregator, infoClient, a.log).Register(a.server.Mux)

		a.log.Info("Aggregation enabled",
			"moviesInfoUrl", cfg.Clients.MoviesInfoURL,
			"reviewsUrl", cfg.Clients.ReviewsURL,
			"maxAttempts", spec.MaxAttempts,
			"delay", spec.Delay,
		)
	}

	return nil
}

// wireStream creates the hub of a stream and the publisher its create path
// writes to: the hub itself, or a Redis relay when one is configured.
func wireStream[T any](a *App, name string) (*stream.Hub[T], stream.Publisher[T]) {
	hub := stream.NewHub[T](name, a.cfg.Stream.BufferSize)
	a.monitor.AddStream(hub)

	if a.redisClient == nil {
		return hub, stream.Local(hub)
	}

	relay := stream.NewRelay(hub, a.redisClient, a.cfg.Stream.Channel(name), a.log)
	a.relays = append(a.relays, relay.Run)
	return hub, relay
}

// Addr returns the HTTP listen address once started.
func (a *App) Addr() string {
	if a.listener == nil {
		return ""
	}
	return a.listener.Addr().String()
}

// Start binds the HTTP port and launches servers and background loops.
func (a *App) Start(ctx context.Context) error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", a.cfg.Server.Port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", a.cfg.Server.Port, err)
	}
	a.listener = lis

	runCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	// Start HTTP Server
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.server.Serve(lis); err != nil {
			a.log.Error("HTTP server failed", "error", err)
		}
	}()
	a.log.Info("HTTP server listening", "addr", lis.Addr().String(), "role", a.cfg.Role)

	// Start gRPC Health Server
	if a.grpcServer != nil {
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			if err := a.grpcServer.Start(); err != nil {
				a.log.Error("gRPC health server failed", "error", err)
			}
		}()
	}

	// Start DB Metrics Collector
	if a.db != nil {
		a.db.StartMetricsCollector(runCtx)
	}

	// Start Relays
	for _, run := range a.relays {
		a.wg.Add(1)
		go func(run func(context.Context) error) {
			defer a.wg.Done()
			if err := run(runCtx); err != nil {
				a.log.Error("Stream relay failed", "error", err)
			}
		}(run)
	}

	return nil
}

// Stop shuts the servers down and releases every resource.
func (a *App) Stop(ctx context.Context) error {
	a.log.Info("Stopping movies service...")

	var err error
	if a.cancel != nil {
		a.cancel()
	}
	if a.grpcServer != nil {
		a.grpcServer.Stop()
	}
	if a.listener != nil {
		// Open NDJSON streams end when their request context does
		err = multierr.Append(err, a.server.Stop(ctx))
	}

	a.wg.Wait()
	return multierr.Append(err, a.closeResources())
}

func (a *App) closeResources() error {
	var err error
	for _, closeFn := range a.closers {
		err = multierr.Append(err, closeFn())
	}
	if a.redisClient != nil {
		err = multierr.Append(err, a.redisClient.Close())
	}
	if a.db != nil {
		err = multierr.Append(err, a.db.Close())
	}
	return err
}
