package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"time"

	"github.com/capstone-insurance/portal/internal/config"
	"github.com/capstone-insurance/portal/internal/db"
	"github.com/capstone-insurance/portal/internal/portal"
	"github.com/capstone-insurance/portal/internal/sessionkeeper"
	"github.com/capstone-insurance/portal/internal/views"
	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

const sessionMaxIdle time.Duration = 12 * time.Hour

func main() {
	// Logging setup
	slog.SetDefault(jsonLogger)
	// Load configuration
	ch := config.NewConfigHandler()
	portalConfig, err := ch.Config()
	if err != nil {
		slog.Error("loading the configuration failed", "error", err)
		os.Exit(1)
	}
	slog.Info("loaded config", "config", portalConfig)
	err = portalConfig.Validate()
	if err != nil {
		slog.Error("the config validation failed", "error", err)
		os.Exit(1)
	}
	// Set log level to "debug" if activated
	if portalConfig.DebugMode {
		logLevel.Set(slog.LevelDebug)
	}
	// Only the debug mode can be switched without a restart
	ch.HandleChanges(func(newConfig config.Config, err error) {
		if err != nil {
			slog.Error("reloading the configuration failed", "error", err)
			return
		}
		if newConfig.DebugMode {
			logLevel.Set(slog.LevelDebug)
		} else {
			logLevel.Set(slog.LevelInfo)
		}
	})
	ch.Watch()
	// Setup
	e := echo.New()
	e.Pre(middleware.RequestID(), middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover())
	// The banner and the port do not respect the logger formatting we set below so we remove them
	// the port will be logged further down when the server starts.
	e.HideBanner = true
	e.HidePort = true
	// Setup template renderer
	tr, err := views.NewTemplateRenderer()
	if err != nil {
		slog.Error("Template renderer initialization failed", "error", err)
		os.Exit(1)
	}
	tr.Register(e)
	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	// Version endpoint
	buildInfo, ok := debug.ReadBuildInfo()
	version := ""
	if ok && buildInfo != nil {
		version = buildInfo.Main.Version
	}
	e.GET("/version", func(c echo.Context) error {
		return c.String(http.StatusOK, version)
	})
	// Sentry, registered before the portal routes so that handlers can report to the request hub
	if portalConfig.Monitoring.Sentry.Enabled {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              string(portalConfig.Monitoring.Sentry.Dsn),
			TracesSampleRate: portalConfig.Monitoring.Sentry.SampleRate,
			Environment:      portalConfig.Monitoring.Sentry.Environment,
		})
		if err != nil {
			slog.Error("sentry initialization failed", "error", err)
		}
		e.Use(sentryecho.New(sentryecho.Options{Repanic: true}))
	}
	// Initialize the credential storage
	credentialRepo, err := db.NewCredentialRepository(portalConfig.Storage)
	if err != nil {
		slog.Error("credential storage initialization failed", "error", err)
		os.Exit(1)
	}
	// Initialize the portal server
	portalServer, err := portal.NewServer(
		portal.WithServerConfig(portalConfig.Server),
		portal.WithAPIConfig(portalConfig.API),
		portal.WithCredentialRepository(credentialRepo),
	)
	if err != nil {
		slog.Error("portal handlers initialization failed", "error", err)
		os.Exit(1)
	}
	portalServer.RegisterHandlers(e, commonMiddlewares...)
	// Proactive refresh and idle session cleanup
	keeper, err := sessionkeeper.NewSessionKeeper(
		sessionkeeper.WithConfig(portalConfig.Refresh),
		sessionkeeper.WithMaxIdle(sessionMaxIdle),
		sessionkeeper.WithSessionSource(portalServer.Sessions()),
	)
	if err != nil {
		slog.Error("session keeper initialization failed", "error", err)
		os.Exit(1)
	}
	scheduler, err := keeper.GetScheduler()
	if err != nil {
		slog.Error("session keeper scheduling failed", "error", err)
		os.Exit(1)
	}
	scheduler.StartAsync()
	defer scheduler.Stop()
	// Rate limiting
	if portalConfig.Server.RateLimits.Enabled {
		e.Use(middleware.RateLimiter(
			middleware.NewRateLimiterMemoryStoreWithConfig(
				middleware.RateLimiterMemoryStoreConfig{
					Rate:      rate.Limit(portalConfig.Server.RateLimits.Rate),
					Burst:     portalConfig.Server.RateLimits.Burst,
					ExpiresIn: 3 * time.Minute,
				}),
		),
		)
	}
	// CORS
	if len(portalConfig.Server.AllowOrigin) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{AllowOrigins: portalConfig.Server.AllowOrigin}))
	}
	// Prometheus
	if portalConfig.Monitoring.Prometheus.Enabled {
		e.Use(echoprometheus.NewMiddleware("portal"))
		go func() {
			metrics := echo.New()
			metrics.HideBanner = true
			metrics.HidePort = true
			metrics.GET("/metrics", echoprometheus.NewHandler())
			err := metrics.Start(fmt.Sprintf(":%d", portalConfig.Monitoring.Prometheus.Port))
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("prometheus server failed to start", "error", err)
				os.Exit(1)
			}
		}()
	}
	// Start server
	address := fmt.Sprintf("%s:%d", portalConfig.Server.Host, portalConfig.Server.Port)
	slog.Info("starting the server on address " + address)
	go func() {
		err := e.Start(address)
		if err != nil && err != http.ErrServerClosed {
			slog.Error("shutting down the server gracefuly failed", "error", err)
			os.Exit(1)
		}
	}()
	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 10 seconds.
	// Use a buffered channel to avoid missing signals as recommended for signal.Notify
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	slog.Info("received signal to shut down the server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		slog.Error("shutting down the server gracefully failed", "error", err)
		os.Exit(1)
	}
}
