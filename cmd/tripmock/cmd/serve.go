package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/donaldgifford/trip-market/api/openapi"
	"github.com/donaldgifford/trip-market/internal/api/handlers"
	"github.com/donaldgifford/trip-market/internal/api/middleware"
	"github.com/donaldgifford/trip-market/internal/catalog"
	"github.com/donaldgifford/trip-market/internal/config"
	"github.com/donaldgifford/trip-market/internal/session"
	"github.com/donaldgifford/trip-market/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the mock API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func loadConfig() (*config.Config, error) {
	if cfgFile == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.Catalog.SeedFile == "" {
		return catalog.New(catalog.Demo(time.Now())), nil
	}
	seed, err := catalog.LoadSeed(cfg.Catalog.SeedFile)
	if err != nil {
		return nil, err
	}
	return catalog.New(seed), nil
}

// newServer wires the catalog, handlers and middleware onto an Echo instance.
func newServer(cfg *config.Config, cat *catalog.Catalog, log *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	e.Use(middleware.Recovery(log))
	e.Use(middleware.RequestLog(log))
	e.Use(middleware.Metrics())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOriginFunc:  func(string) (bool, error) { return true, nil },
		AllowCredentials: true,
		AllowHeaders:     []string{echo.HeaderAuthorization, echo.HeaderContentType, "X-Request-ID"},
	}))
	e.Use(middleware.CookieBearer(session.TokenCookie))

	// Health endpoints.
	health := handlers.NewHealthHandler(func(context.Context) error {
		for r, n := range cat.Counts() {
			if n == 0 {
				return fmt.Errorf("no %s loaded", r.Plural())
			}
		}
		return nil
	})
	e.GET("/healthz", health.Healthz)
	e.GET("/readyz", health.Readyz)

	// Prometheus metrics.
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	hcfg := huma.DefaultConfig("tripmock", Version)
	hcfg.DocsPath = ""
	// Plain bodies, no $schema links.
	hcfg.CreateHooks = nil
	api := humaecho.New(e, hcfg)
	openapi.RegisterRoutes(e, "tripmock API", "/openapi.json")

	var auth *handlers.Authorizer
	if cfg.Auth.RequireToken {
		auth = handlers.NewAuthorizer(cfg.Auth.Token)
	}

	handlers.RegisterListingRoutes(api, handlers.NewListingsHandler(cat,
		handlers.WithLatency(cfg.Catalog.Latency),
		handlers.WithAuthorizer(auth),
		handlers.WithHandlerLogger(log),
	))
	handlers.RegisterSavedRoutes(api, handlers.NewSavedHandler(cat, auth, log))
	handlers.RegisterCurrencyRoutes(api, handlers.NewCurrencyHandler(cat, cfg.Rates.Table, auth))

	return e
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	cat, err := loadCatalog(cfg)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}

	counts := cat.Counts()
	log.Info("catalog loaded",
		"activities", counts["activity"],
		"itineraries", counts["itinerary"],
		"products", counts["product"],
		"seed_file", cfg.Catalog.SeedFile,
	)

	e := newServer(cfg, cat, log)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("starting server", "addr", addr, "require_token", cfg.Auth.RequireToken)

	// Start server in a goroutine.
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
		}
	}()

	// Wait for interrupt signal.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	log.Info("server stopped")
	return nil
}
