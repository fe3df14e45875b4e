package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	apirest "github.com/kasuganosora/lunchbox/api/rest"
	"github.com/kasuganosora/lunchbox/api/sse"
	"github.com/kasuganosora/lunchbox/audit"
	"github.com/kasuganosora/lunchbox/cache"
	"github.com/kasuganosora/lunchbox/config"
	"github.com/kasuganosora/lunchbox/game/lunchbox"
	"github.com/kasuganosora/lunchbox/game/notify"
	"github.com/kasuganosora/lunchbox/game/sim"
	"github.com/kasuganosora/lunchbox/game/state"
	mw "github.com/kasuganosora/lunchbox/middleware"
	"github.com/kasuganosora/lunchbox/scheduler"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API with a simulated host",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger()
			if err != nil {
				return fmt.Errorf("logger: %w", err)
			}
			defer logger.Sync()

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(runCtx, cfg, logger)
		},
	}
}

// routerDeps collects what the HTTP surface needs.
type routerDeps struct {
	cfg       *config.Config
	manager   *lunchbox.Manager
	world     *sim.World
	history   apirest.History
	recent    apirest.RecentEvents
	pubsub    cache.PubSub
	scheduler *scheduler.Scheduler
	logger    *zap.Logger
}

func newRouter(ctx context.Context, d routerDeps) *gin.Engine {
	r := gin.New()
	r.Use(mw.TraceID(), mw.Logger(d.logger), mw.Recovery(d.logger))
	r.Use(mw.RateLimit(ctx, rate.Limit(d.cfg.Security.RateLimitRPS), d.cfg.Security.RateLimitBurst))

	r.GET("/health", apirest.Health)

	guard := []gin.HandlerFunc{
		mw.IPWhitelist(d.cfg.Security.AllowedIPs, d.logger),
		mw.AdminKey(d.cfg.Server.AdminKey),
	}

	containerH := apirest.NewContainerHandler(d.manager, d.world, d.history, d.recent, d.logger)
	adminH := apirest.NewAdminHandler(d.manager, d.world, d.scheduler)

	api := r.Group("/api", guard...)
	{
		api.GET("/lunchboxes", containerH.Types)
		api.GET("/containers", containerH.List)
		api.GET("/containers/:id", containerH.Detail)
		api.GET("/containers/:id/history", containerH.History)
		api.GET("/events/recent", containerH.RecentEvents)
		api.GET("/admin/metrics", adminH.Metrics)
	}

	sseH := sse.NewHandler(d.pubsub, d.logger)
	r.GET("/sse/events", append(guard, sseH.ServeSSE)...)

	return r
}

func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	if cfg.Server.AdminKey == "" {
		logger.Warn("server.admin_key is not set; API endpoints are disabled")
	}

	// ---- Database ----
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer closeDB(db)
	logger.Info("DB initialized", zap.String("mode", cfg.Database.Mode))
	repo := state.NewRepository(db, logger)

	// ---- Audit ----
	auditSvc := audit.New(db, logger)
	defer auditSvc.Stop(context.Background())

	// ---- Cache / PubSub ----
	c, err := cache.NewCache(cfg.Cache)
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	pubsub, err := cache.NewPubSub(cfg.Cache)
	if err != nil {
		return fmt.Errorf("pubsub: %w", err)
	}
	publisher := notify.NewPublisher(pubsub, c, logger)
	defer publisher.Close()
	logger.Info("Cache initialized", zap.Bool("redis", cfg.Cache.RedisAddr != ""))

	// ---- Lunchboxes ----
	reg, err := buildRegistry(cfg)
	if err != nil {
		return err
	}
	food := sim.NewFoodSystem(reg)
	manager, err := buildManager(cfg, reg, food, []lunchbox.Observer{auditSvc, publisher}, logger)
	if err != nil {
		return err
	}

	// ---- Scheduler ----
	sched := scheduler.New(logger)
	defer sched.Stop()

	world := sim.NewWorld(true)
	host := newDemoHost(cfg.Sim, world, food, reg, manager, repo, sched, logger)
	if err := host.seed(ctx); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	sched.AddTicker("hunger_decay", cfg.Sim.TickInterval, host.decay)
	sched.AddTicker("persist", cfg.Sim.PersistInterval, host.persistAll)

	// ---- HTTP ----
	if !cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	r := newRouter(ctx, routerDeps{
		cfg:       cfg,
		manager:   manager,
		world:     world,
		history:   auditSvc,
		recent:    publisher,
		pubsub:    pubsub,
		scheduler: sched,
		logger:    logger,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: r}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("server shutdown", zap.Error(err))
		}
	}

	sched.Remove("hunger_decay")
	host.persistAll(context.Background())
	return nil
}
