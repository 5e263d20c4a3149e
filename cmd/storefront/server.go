package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	catalogapp "github.com/dmehra2102/storefront/internal/catalog/application"
	cataloghttp "github.com/dmehra2102/storefront/internal/catalog/infrastructure/http"
	"github.com/dmehra2102/storefront/internal/config"
	orderapp "github.com/dmehra2102/storefront/internal/order/application"
	orderhttp "github.com/dmehra2102/storefront/internal/order/infrastructure/http"
	"github.com/dmehra2102/storefront/pkg/health"
	"github.com/dmehra2102/storefront/pkg/httpx"
	"github.com/dmehra2102/storefront/pkg/tracing"
)

func runServer(ctx context.Context, cfg config.Config, log *slog.Logger, deps *dependencies) error {
	tp, err := tracing.Init(ctx, appID, cfg.OTelEndpoint, log)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		_ = tp.Shutdown(shutdownCtx)
	}()

	var orderOpts []orderhttp.Option
	if deps.idempotency != nil {
		orderOpts = append(orderOpts, orderhttp.WithIdempotency(deps.idempotency))
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           newRouter(log, deps.catalog, deps.orders, orderOpts...),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// Checkout waits for the payment gateway.
		WriteTimeout: cfg.PaymentDelay + 10*time.Second,
	}
	grpcHealth := health.NewServer(log, cfg.GRPCAddr)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "http server")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return grpcHealth.Run(gctx)
	})
	if deps.relay != nil {
		g.Go(func() error {
			return deps.relay.Run(gctx)
		})
	}
	grpcHealth.SetServing(true)

	err = g.Wait()
	log.Info("storefront shutdown complete", "err", err)
	return err
}

func newRouter(log *slog.Logger, catalog *catalogapp.Service, orders *orderapp.Service, orderOpts ...orderhttp.Option) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(log))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.With(httpx.RequireAdmin(log)).Post("/admin/persist", persistAll(log, catalog, orders))

	cataloghttp.NewHandler(log, catalog).Register(r)
	orderhttp.NewHandler(log, orders, orderOpts...).Register(r)
	return r
}

// persistAll re-saves both collections, for retrying after a 503.
func persistAll(log *slog.Logger, catalog *catalogapp.Service, orders *orderapp.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		err := catalog.Persist(ctx)
		if err == nil {
			err = orders.Persist(ctx)
		}
		httpx.Result(w, log, http.StatusOK, map[string]string{"status": "persisted"}, err)
	}
}

func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
