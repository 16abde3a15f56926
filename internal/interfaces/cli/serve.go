package cli

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/turtacn/PatentVault/internal/config"
	"github.com/turtacn/PatentVault/internal/infrastructure/monitoring/logging"
	httpserver "github.com/turtacn/PatentVault/internal/interfaces/http"
	"github.com/turtacn/PatentVault/internal/interfaces/http/handlers"
	"github.com/turtacn/PatentVault/internal/interfaces/http/middleware"
)

func newServeCmd() *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			if port > 0 {
				cliCtx.Config.Server.Port = port
			}
			return runServe(cmd, cliCtx)
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "HTTP port (overrides server.port)")
	return cmd
}

func runServe(cmd *cobra.Command, cliCtx *CLIContext) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, logger := cliCtx.Config, cliCtx.Logger
	logger.Info("starting PatentVault API server",
		logging.String("version", Version),
		logging.Int("port", cfg.Server.Port),
		logging.String("storage", cfg.Storage.Driver),
	)

	app, err := NewApp(ctx, cfg, logger, AppOptions{})
	if err != nil {
		return err
	}
	defer app.Close()

	if cliCtx.ConfigPath != "" {
		config.Watch(cliCtx.ConfigPath, func(next *config.Config) {
			if logging.SetLevel(logger, next.Log.Level) {
				logger.Info("log level changed", logging.String("level", next.Log.Level))
			}
		})
	}

	server := httpserver.NewServer(cfg.Server, NewRouter(app), logger)
	return server.ListenAndServe(ctx)
}

// NewRouter assembles the HTTP handlers for app.
func NewRouter(app *App) http.Handler {
	cfg, logger := app.Config, app.Logger

	var patentOpts []handlers.PatentHandlerOption
	patentOpts = append(patentOpts, handlers.WithAlertWindow(cfg.Alerts.WindowDays))
	var errs handlers.ErrorRecorder
	if app.Metrics != nil {
		errs = app.Metrics
		patentOpts = append(patentOpts,
			handlers.WithPortfolioGauge(app.Metrics),
			handlers.WithReminderObserver(app.Metrics),
			handlers.WithErrorRecorder(app.Metrics))
	}

	cors := middleware.DefaultCORSConfig()
	if len(cfg.Server.AllowedOrigins) > 0 {
		cors.AllowedOrigins = cfg.Server.AllowedOrigins
	}

	routerCfg := httpserver.RouterConfig{
		PatentHandler:    handlers.NewPatentHandler(app.Portfolio, app.Reports, logger, patentOpts...),
		ImportHandler:    handlers.NewImportHandler(app.Importer, cfg.Import.MaxDocumentBytes, logger, errs),
		AssistantHandler: handlers.NewAssistantHandler(app.Assistant, logger, errs),
		HealthHandler:    handlers.NewHealthHandler(Version, app.Checkers...),
		CORS:             &cors,
		MaxBodySize:      cfg.Server.MaxBodySize,
		Logger:           logger,
		Metrics:          app.Metrics,
	}
	if app.Collector != nil {
		routerCfg.MetricsCollector = app.Collector
	}
	if cfg.Server.RateLimitRPS > 0 {
		routerCfg.RateLimiter = middleware.NewClientLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst,
			middleware.DefaultRateLimitConfig().IdleTTL)
	}
	return httpserver.NewRouter(routerCfg)
}

//Personal.AI order the ending
