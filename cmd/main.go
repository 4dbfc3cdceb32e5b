package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/kdduha/regression-plot/docs"
	"github.com/kdduha/regression-plot/internal/cache"
	"github.com/kdduha/regression-plot/internal/config"
	"github.com/kdduha/regression-plot/internal/handler"
	"github.com/kdduha/regression-plot/internal/logger"
	"github.com/kdduha/regression-plot/internal/metrics"
	"github.com/kdduha/regression-plot/internal/service"
)

// @title Regression Plot API
// @version 1.0
// @description Fits ordinary least squares regressions and renders them as Plotly HTML or PNG.
// @BasePath /
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	l := logger.New(cfg.Log)
	regressionService, err := service.NewRegressionService(l, cfg.Render)
	if err != nil {
		l.Fatalf("service error: %v", err)
	}

	if cfg.CacheEnable {
		redisCache, err := cache.NewRedisCache(
			cfg.RedisConfig.Addr,
			cfg.RedisConfig.Password,
			cfg.RedisConfig.DB,
			cfg.RedisConfig.TTL,
		)
		if err != nil {
			l.Fatalf("cache error: %v", err)
		}
		defer redisCache.Close()

		if err := redisCache.Ping(ctx); err != nil {
			l.WithError(err).Warn("redis is unreachable, cache errors will be logged per request")
		}
		regressionService.SetCacheClient(redisCache)
		l.WithField("addr", cfg.RedisConfig.Addr).Info("set redis as cache")
	}

	h := handler.NewRegressionHandler(regressionService, l)

	r := chi.NewRouter()
	r.Use([]func(http.Handler) http.Handler{
		middleware.RequestID,
		middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: l, NoColor: true}),
		middleware.Recoverer,
		middleware.Throttle(cfg.Server.ThrottleLimit),
		middleware.Timeout(cfg.Server.Timeout),
		middleware.RequestSize(cfg.Server.MaxBodyBytes),
		metrics.Middleware,
	}...)

	h.Register(r, cfg.Server.Route)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	r.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		l.WithFields(logrus.Fields{
			"port":   cfg.Server.Port,
			"route":  cfg.Server.Route,
			"format": regressionService.Format(),
		}).Info("server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatalf("listen error: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Fatalf("server forced to shutdown: %v", err)
	}
	l.Info("server stopped")
}
