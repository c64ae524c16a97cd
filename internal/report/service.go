// Package report generates the TTMS BI and analytics artifacts: it fetches
// the required datasets concurrently, derives the analytics, rasterizes the
// charts and assembles the final binary document.
package report

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/TTMS-DilumCA/ttms-reporting/internal/client"
	"github.com/TTMS-DilumCA/ttms-reporting/internal/entity"
)

// ErrGenerationInProgress rejects a second generation while one is running.
var ErrGenerationInProgress = errors.New("a report generation is already in progress")

// MIME types of the produced artifacts.
const (
	MIMEExcel = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MIMEPDF   = "application/pdf"
)

// Backend is the slice of the TTMS API the pipeline reads from.
type Backend interface {
	ListMolds(ctx context.Context, token string) ([]entity.Mold, error)
	ListProcesses(ctx context.Context, token string) ([]entity.Process, error)
	ListUsers(ctx context.Context, token string) ([]entity.User, error)
	ListCustomers(ctx context.Context, token string) ([]entity.Customer, error)
	ListTools(ctx context.Context, token string) ([]entity.Tool, error)
	YearAnalytics(ctx context.Context, token string, year int) (*entity.AnalyticsSnapshot, error)
}

// Options tune report content.
type Options struct {
	// Notice is the confidentiality line printed on document footers.
	Notice string
	// TopNDashboard is the ranking size on the Excel dashboard sheets.
	TopNDashboard int
	// TopNPDF is the ranking size in the PDF report.
	TopNPDF int
}

func (o Options) withDefaults() Options {
	if o.Notice == "" {
		o.Notice = "Confidential - for internal use only"
	}
	if o.TopNDashboard <= 0 {
		o.TopNDashboard = 6
	}
	if o.TopNPDF <= 0 {
		o.TopNPDF = 5
	}
	return o
}

// Result is a generated artifact ready for delivery.
type Result struct {
	FileName string
	MIME     string
	Data     []byte
}

// Service orchestrates report generation. Safe for concurrent use; only one
// generation runs at a time, later callers get ErrGenerationInProgress.
type Service struct {
	backend  Backend
	logger   *zap.Logger
	opts     Options
	now      func() time.Time
	inFlight atomic.Bool
}

// NewService wires the orchestrator.
func NewService(backend Backend, logger *zap.Logger, opts Options) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		backend: backend,
		logger:  logger,
		opts:    opts.withDefaults(),
		now:     time.Now,
	}
}

// dataset holds one generation's worth of fetched records. It is request
// scoped and discarded once the artifact is assembled.
type dataset struct {
	Molds     []entity.Mold
	Processes []entity.Process
	Users     []entity.User
	Customers []entity.Customer
	Tools     []entity.Tool
	Snapshot  *entity.AnalyticsSnapshot
}

// fetch issues every GET concurrently and joins on all of them. Any failure
// aborts the generation: partial results never reach a document.
func (s *Service) fetch(ctx context.Context, token string, year int, withSnapshot bool) (*dataset, error) {
	ds := &dataset{}
	errs := make([]error, 6)

	var wg sync.WaitGroup
	wg.Add(5)
	go func() { defer wg.Done(); ds.Molds, errs[0] = s.backend.ListMolds(ctx, token) }()
	go func() { defer wg.Done(); ds.Processes, errs[1] = s.backend.ListProcesses(ctx, token) }()
	go func() { defer wg.Done(); ds.Users, errs[2] = s.backend.ListUsers(ctx, token) }()
	go func() { defer wg.Done(); ds.Customers, errs[3] = s.backend.ListCustomers(ctx, token) }()
	go func() { defer wg.Done(); ds.Tools, errs[4] = s.backend.ListTools(ctx, token) }()
	if withSnapshot {
		wg.Add(1)
		go func() { defer wg.Done(); ds.Snapshot, errs[5] = s.backend.YearAnalytics(ctx, token, year) }()
	}
	wg.Wait()

	var first error
	for _, err := range errs {
		if err == nil {
			continue
		}
		if errors.Is(err, client.ErrUnauthorized) {
			return nil, err
		}
		if first == nil {
			first = err
		}
	}
	if first != nil {
		return nil, first
	}
	return ds, nil
}

func (s *Service) acquire() error {
	if !s.inFlight.CompareAndSwap(false, true) {
		return ErrGenerationInProgress
	}
	return nil
}

// GenerateExcel builds the 3-sheet BI workbook.
func (s *Service) GenerateExcel(ctx context.Context, token string) (*Result, error) {
	if err := s.acquire(); err != nil {
		return nil, err
	}
	defer s.inFlight.Store(false)

	genID := uuid.New().String()[:8]
	started := s.now()
	log := s.logger.With(zap.String("generation_id", genID), zap.String("kind", "excel"))
	log.Info("Report generation started")

	ds, err := s.fetch(ctx, token, 0, false)
	if err != nil {
		log.Error("Report generation failed", zap.Error(err))
		return nil, fmt.Errorf("fetch report data: %w", err)
	}

	data, err := buildBIWorkbook(ds, started, s.opts.TopNDashboard)
	if err != nil {
		log.Error("Report generation failed", zap.Error(err))
		return nil, fmt.Errorf("assemble workbook: %w", err)
	}

	result := &Result{
		FileName: fmt.Sprintf("TTMS_BI_Report_%s.xlsx", started.Format("2006-01-02")),
		MIME:     MIMEExcel,
		Data:     data,
	}
	log.Info("Report generation finished",
		zap.String("file", result.FileName),
		zap.Int("bytes", len(result.Data)),
		zap.Duration("took", s.now().Sub(started)),
	)
	return result, nil
}

// GeneratePDF builds the year-scoped analytics report.
func (s *Service) GeneratePDF(ctx context.Context, token string, year int) (*Result, error) {
	if err := s.acquire(); err != nil {
		return nil, err
	}
	defer s.inFlight.Store(false)

	if year <= 0 {
		year = s.now().Year()
	}
	genID := uuid.New().String()[:8]
	started := s.now()
	log := s.logger.With(zap.String("generation_id", genID), zap.String("kind", "pdf"), zap.Int("year", year))
	log.Info("Report generation started")

	ds, err := s.fetch(ctx, token, year, true)
	if err != nil {
		log.Error("Report generation failed", zap.Error(err))
		return nil, fmt.Errorf("fetch report data: %w", err)
	}

	data, err := buildAnalyticsPDF(ds, year, started, s.opts.Notice, s.opts.TopNPDF)
	if err != nil {
		log.Error("Report generation failed", zap.Error(err))
		return nil, fmt.Errorf("assemble pdf: %w", err)
	}

	result := &Result{
		FileName: fmt.Sprintf("TTMS_Analytics_Report_%d_%s.pdf", year, started.Format("2006-01-02")),
		MIME:     MIMEPDF,
		Data:     data,
	}
	log.Info("Report generation finished",
		zap.String("file", result.FileName),
		zap.Int("bytes", len(result.Data)),
		zap.Duration("took", s.now().Sub(started)),
	)
	return result, nil
}
