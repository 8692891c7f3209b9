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

	"survey-dashboard/internal/analysis"
	"survey-dashboard/internal/api"
	"survey-dashboard/internal/config"
	"survey-dashboard/internal/logging"
	"survey-dashboard/internal/service"
	"survey-dashboard/internal/state"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfgPath  string
	portFlag string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "server",
	Short: "Survey comments dashboard backend",
	Long: `Serves the staff survey dashboard: upload a survey CSV, then explore the
Overview, Themes and Quotation Bank views over HTTP.

Run without a sub-command to start the HTTP server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path := cfgPath
		if path == "" {
			path = os.Getenv("SURVEY_CONFIG")
		}
		if path == "" {
			path = config.DefaultPath
		}

		c, err := config.Load(path)
		if err != nil {
			return err
		}
		if portFlag != "" {
			c.Server.Port = portFlag
		}

		l, err := logging.New(c.Logging.Level, c.Logging.JSON)
		if err != nil {
			return err
		}
		cfg, logger = c, l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "Config file (default: $SURVEY_CONFIG or "+config.DefaultPath+")")
	rootCmd.PersistentFlags().StringVarP(&portFlag, "port", "p", "", "HTTP port (overrides config and $PORT)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(reportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newHandler(c *config.Config, l *zap.Logger) *api.Handler {
	h := api.NewHandler(
		state.NewAppState(),
		analysis.NewCSVService(),
		service.NewDataQualityProfiler(),
		c.Survey.Schema(),
		l,
	)
	h.MaxUploadBytes = c.MaxUploadBytes()
	h.DataSourceConfig = service.DataSourceConfig{
		DSN:      c.Postgres.DSN,
		RowLimit: c.Postgres.RowLimit,
	}
	return h
}

func newRouter(c *config.Config, l *zap.Logger, h *api.Handler) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(l))
	r.Use(middleware.Recoverer)

	// CORS - Allow frontend
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   c.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Survey Dashboard backend is running"))
	})

	h.RegisterRoutes(r)
	return r
}

func runServe(cmd *cobra.Command, args []string) error {
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           newRouter(cfg, logger, newHandler(cfg, logger)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server",
			zap.String("addr", "http://localhost:"+cfg.Server.Port),
			zap.Strings("cors_origins", cfg.Server.AllowedOrigins),
			zap.Int("max_upload_mb", cfg.Server.MaxUploadMB),
			zap.Bool("postgres", cfg.Postgres.DSN != ""))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed to start: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
