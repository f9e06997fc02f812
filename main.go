// main.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/LilVoxy/chatrelay/config"
	"github.com/LilVoxy/chatrelay/database"
	"github.com/LilVoxy/chatrelay/logger"
	"github.com/LilVoxy/chatrelay/metrics"
	"github.com/LilVoxy/chatrelay/routes"
	"github.com/LilVoxy/chatrelay/websocket"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var envFile string
	flagCfg := config.DefaultConfig()

	cmd := &cobra.Command{
		Use:          "chatrelay",
		Short:        "Minimal WebSocket chat relay over raw TCP sockets",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags(), envFile)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", ".env", "Optional dotenv file with CHATRELAY_* variables")
	config.InstallFlags(&flagCfg, cmd.Flags())
	return cmd
}

// loadConfig применяет по порядку: значения по умолчанию, .env и окружение,
// затем явно заданные флаги
func loadConfig(flags *pflag.FlagSet, envFile string) (config.Config, error) {
	cfg := config.DefaultConfig()
	if err := config.LoadEnv(&cfg, envFile); err != nil {
		return cfg, err
	}

	overrides := pflag.NewFlagSet("overrides", pflag.ContinueOnError)
	config.InstallFlags(&cfg, overrides)

	var err error
	flags.Visit(func(f *pflag.Flag) {
		if overrides.Lookup(f.Name) == nil || err != nil {
			return
		}
		err = overrides.Set(f.Name, f.Value.String())
	})
	if err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func run(ctx context.Context, cfg config.Config) error {
	setupLogger(cfg.LogLevel)
	fmt.Println("Запуск сервера...")

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	files, err := logger.NewFileSink(cfg.LogDir, cfg.CompressDebugLog)
	if err != nil {
		return fmt.Errorf("❌ не удалось открыть журналы в %s: %w", cfg.LogDir, err)
	}
	sinks := logger.Multi{files, logger.Console{}}

	var events *database.EventLog
	if cfg.MySQL != nil {
		db, err := database.Open(ctx, *cfg.MySQL)
		if err != nil {
			files.Close()
			return err
		}
		if events, err = database.NewEventLog(ctx, db); err != nil {
			db.Close()
			files.Close()
			return err
		}
		sinks = append(sinks, events)
	}

	log := logger.New(sinks)
	defer func() {
		if err := log.Close(); err != nil {
			slog.Error("closing log sinks", "error", err)
		}
	}()

	m := metrics.New()
	mgr := websocket.NewManager(websocket.Options{Logger: log, Metrics: m})

	err = logger.StartFlusher(ctx, sinks, cfg.FlushInterval, func() {
		statusCtx, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		st, err := mgr.Status(statusCtx)
		if err != nil {
			return
		}
		log.Debug("relay_stats", "connections", st.Connections, "handshaken", st.Handshaken, "users", len(st.Users))
	})
	if err != nil {
		return err
	}

	if cfg.AdminAddr != "" {
		srv := newAdminServer(cfg.AdminAddr, mgr, events, m)
		go func() {
			slog.Info("🌐 admin HTTP server listening", "addr", cfg.AdminAddr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				slog.Error("admin server error", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				slog.Error("admin server shutdown error", "error", err)
			}
		}()
	}

	slog.Info("🚀 chat relay starting", "addr", cfg.ListenAddr(), "log_dir", cfg.LogDir)
	if err := mgr.ListenAndServe(ctx, cfg.ListenAddr()); err != nil {
		return err
	}
	slog.Info("👋 chat relay stopped")
	return nil
}

func newAdminServer(addr string, mgr *websocket.Manager, events *database.EventLog, m *metrics.Metrics) *http.Server {
	deps := routes.Deps{Relay: mgr, Metrics: m.Handler()}
	if events != nil {
		deps.Events = events
	}

	router := mux.NewRouter()
	routes.SetupRoutes(router, deps)

	return &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func setupLogger(levelName string) {
	level := slog.LevelInfo
	switch levelName {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
}
