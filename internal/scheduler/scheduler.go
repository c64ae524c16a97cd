// Package scheduler runs report generation on a cron schedule, writing the
// artifacts to the configured output directory with a service-account token.
package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/TTMS-DilumCA/ttms-reporting/internal/config"
	"github.com/TTMS-DilumCA/ttms-reporting/internal/report"
)

// Scheduler manages the recurring generation job.
type Scheduler struct {
	cron   *cron.Cron
	svc    *report.Service
	cfg    config.Config
	logger *zap.Logger
}

// New creates a scheduler around the report service.
func New(cfg config.Config, svc *report.Service, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		cron:   cron.New(),
		svc:    svc,
		cfg:    cfg,
		logger: logger,
	}
}

// Start registers the cron entry and starts the loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.Schedule.Cron, s.generateAll); err != nil {
		return err
	}
	s.logger.Info("Scheduler started", zap.String("cron", s.cfg.Schedule.Cron))
	s.cron.Start()
	return nil
}

// Stop stops the cron loop, waiting for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Scheduler stopped")
}

func (s *Scheduler) generateAll() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	year := s.cfg.Schedule.Year
	if year <= 0 {
		year = time.Now().Year()
	}

	if result, err := s.svc.GenerateExcel(ctx, s.cfg.Backend.Token); err != nil {
		s.logger.Error("Scheduled excel report failed", zap.Error(err))
	} else {
		s.write(result)
	}

	if result, err := s.svc.GeneratePDF(ctx, s.cfg.Backend.Token, year); err != nil {
		s.logger.Error("Scheduled pdf report failed", zap.Error(err))
	} else {
		s.write(result)
	}
}

func (s *Scheduler) write(result *report.Result) {
	if err := os.MkdirAll(s.cfg.Report.OutputDir, 0o755); err != nil {
		s.logger.Error("Create output dir failed", zap.String("dir", s.cfg.Report.OutputDir), zap.Error(err))
		return
	}
	path := filepath.Join(s.cfg.Report.OutputDir, result.FileName)
	if err := os.WriteFile(path, result.Data, 0o644); err != nil {
		s.logger.Error("Write report artifact failed", zap.String("path", path), zap.Error(err))
		return
	}
	s.logger.Info("Report artifact written", zap.String("path", path), zap.Int("bytes", len(result.Data)))
}
