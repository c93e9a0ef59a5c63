package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hazyhaar/sjisgate/pkg/api"
	"github.com/hazyhaar/sjisgate/pkg/audit"
	"github.com/hazyhaar/sjisgate/pkg/chassis"
	"github.com/hazyhaar/sjisgate/pkg/sjis"
	"github.com/mark3labs/mcp-go/server"
	"gopkg.in/yaml.v3"
)

type config struct {
	Addr     string `yaml:"addr"`
	AuditDB  string `yaml:"audit_db"`
	LogLevel string `yaml:"log_level"`
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		cmdServe(os.Args[2:])
	case "check":
		cmdCheck(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: sjisgate <command>\n\nCommands:\n  serve   Start the validation server\n  check   Validate lines from a file or stdin\n")
}

func cmdServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	fs.Parse(args)

	bootLogger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	cfg := loadConfig(*cfgPath, bootLogger)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)

	var tracer sjis.Tracer
	if parseLevel(cfg.LogLevel) <= slog.LevelDebug {
		tracer = sjis.NewSlogTracer(logger)
	}
	validator := sjis.NewValidator(nil, tracer)

	// Verdict journal.
	var store *audit.Store
	if cfg.AuditDB != "" {
		var err error
		store, err = audit.Open(cfg.AuditDB)
		if err != nil {
			logger.Error("failed to open audit db", "path", cfg.AuditDB, "error", err)
			os.Exit(1)
		}
		defer store.Close()
		logger.Info("audit journal open", "path", cfg.AuditDB)
	}

	router := api.NewRouter(validator, store, logger)

	mcpSrv := server.NewMCPServer("sjisgate", "1.0.0",
		server.WithToolCapabilities(false),
	)
	api.RegisterMCPTools(mcpSrv, validator)

	srv, err := chassis.New(chassis.Config{
		Addr:      cfg.Addr,
		CertFile:  cfg.CertFile,
		KeyFile:   cfg.KeyFile,
		Handler:   router,
		MCPServer: mcpSrv,
		Logger:    logger,
	})
	if err != nil {
		logger.Error("chassis init", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("sjisgate listening", "addr", cfg.Addr)
		errCh <- srv.Start(ctx)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	srv.Stop(shutdownCtx)
}

func loadConfig(path string, logger *slog.Logger) config {
	cfg := config{
		Addr:     ":8430",
		LogLevel: "info",
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Info("no config file, using defaults", "path", path)
			return cfg
		}
		logger.Error("read config", "error", err)
		os.Exit(1)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		logger.Error("parse config", "error", err)
		os.Exit(1)
	}
	return cfg
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
