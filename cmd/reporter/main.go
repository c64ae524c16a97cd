package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/TTMS-DilumCA/ttms-reporting/internal/client"
	"github.com/TTMS-DilumCA/ttms-reporting/internal/config"
	"github.com/TTMS-DilumCA/ttms-reporting/internal/handler"
	"github.com/TTMS-DilumCA/ttms-reporting/internal/report"
	"github.com/TTMS-DilumCA/ttms-reporting/internal/scheduler"
	"github.com/TTMS-DilumCA/ttms-reporting/internal/session"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: reporter <command> [flags]

Commands:
  generate   generate a report once and write it to the output directory
  serve      run the report HTTP service
  schedule   run report generation on the configured cron schedule`)
	os.Exit(2)
}

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "Warning: .env file not found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if len(os.Args) < 2 {
		usage()
	}

	backend := client.New(cfg.Backend.BaseURL, cfg.Backend.Timeout)
	svc := report.NewService(backend, logger, report.Options{
		Notice:        cfg.Report.Notice,
		TopNDashboard: cfg.Report.TopNDashboard,
		TopNPDF:       cfg.Report.TopNPDF,
	})

	switch os.Args[1] {
	case "generate":
		runGenerate(cfg, svc, logger, os.Args[2:])
	case "serve":
		runServe(cfg, svc, logger)
	case "schedule":
		runSchedule(cfg, svc, logger)
	default:
		usage()
	}
}

func runGenerate(cfg *config.Config, svc *report.Service, logger *zap.Logger, args []string) {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	kind := fs.String("kind", "excel", "report kind: excel or pdf")
	year := fs.Int("year", 0, "analytics year for the pdf report (default: current year)")
	out := fs.String("out", cfg.Report.OutputDir, "output directory")
	fs.Parse(args)

	token := cfg.Backend.Token
	sess, err := session.FromToken(token, time.Now())
	if err != nil {
		if errors.Is(err, session.ErrExpired) {
			fmt.Fprintln(os.Stderr, "Session expired, please log in again")
		} else {
			fmt.Fprintf(os.Stderr, "Invalid token: %v\n", err)
		}
		os.Exit(1)
	}
	if !sess.CanGenerateReports() {
		fmt.Fprintf(os.Stderr, "Role %s may not generate reports\n", sess.Role)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	var result *report.Result
	switch *kind {
	case "excel":
		result, err = svc.GenerateExcel(ctx, token)
	case "pdf":
		result, err = svc.GeneratePDF(ctx, token, *year)
	default:
		fmt.Fprintf(os.Stderr, "Unknown report kind %q\n", *kind)
		os.Exit(2)
	}
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			fmt.Fprintln(os.Stderr, "Session expired, please log in again")
		} else {
			fmt.Fprintf(os.Stderr, "Report generation failed: %v\n", err)
		}
		os.Exit(1)
	}

	if err := os.MkdirAll(*out, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Create output dir %s: %v\n", *out, err)
		os.Exit(1)
	}
	path := filepath.Join(*out, result.FileName)
	if err := os.WriteFile(path, result.Data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Write %s: %v\n", path, err)
		os.Exit(1)
	}
	logger.Info("Report written", zap.String("path", path), zap.Int("bytes", len(result.Data)))
	fmt.Println(path)
}

func runServe(cfg *config.Config, svc *report.Service, logger *zap.Logger) {
	gin.SetMode(cfg.Server.Mode)
	router := handler.NewRouter(svc, cfg.JWT.Secret, logger)

	if cfg.Schedule.Enabled {
		sched := scheduler.New(*cfg, svc, logger)
		if err := sched.Start(); err != nil {
			logger.Fatal("Failed to start scheduler", zap.Error(err))
		}
		defer sched.Stop()
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("Starting ttms-reporting service",
			zap.String("version", Version),
			zap.String("build_time", BuildTime),
			zap.Int("port", cfg.Server.Port),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", zap.Error(err))
	}
}

func runSchedule(cfg *config.Config, svc *report.Service, logger *zap.Logger) {
	sched := scheduler.New(*cfg, svc, logger)
	if err := sched.Start(); err != nil {
		logger.Fatal("Failed to start scheduler", zap.Error(err))
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	sched.Stop()
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}
	return zapCfg.Build()
}
