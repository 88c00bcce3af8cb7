package service

import (
	"context"
	"fmt"
	"time"

	"go-retail-pos/internal/cache"
	"go-retail-pos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type ReportService interface {
	CompareEmployees(ctx context.Context, companyID, focusEmployeeID uuid.UUID, from, to *time.Time) (*PerformanceReport, error)
	// Invalidate drops cached reports of a company after its ledger changes.
	Invalidate(ctx context.Context, companyID uuid.UUID)
}

type reportService struct {
	employeeRepo repository.EmployeeRepository
	txRepo       repository.TransactionRepository
	creditRepo   repository.StoreCreditRepository
	cache        cache.ReportCache
	ttl          time.Duration
	log          zerolog.Logger
}

func NewReportService(
	employeeRepo repository.EmployeeRepository,
	txRepo repository.TransactionRepository,
	creditRepo repository.StoreCreditRepository,
	reportCache cache.ReportCache,
	ttl time.Duration,
	log zerolog.Logger,
) ReportService {
	if reportCache == nil {
		reportCache = cache.NoopReportCache{}
	}
	return &reportService{
		employeeRepo: employeeRepo,
		txRepo:       txRepo,
		creditRepo:   creditRepo,
		cache:        reportCache,
		ttl:          ttl,
		log:          log.With().Str("component", "reports").Logger(),
	}
}

func (s *reportService) CompareEmployees(ctx context.Context, companyID, focusEmployeeID uuid.UUID, from, to *time.Time) (*PerformanceReport, error) {
	if from != nil && to != nil && to.Before(*from) {
		return nil, errValidationf("to must not be before from")
	}

	if _, err := s.employeeRepo.FindByID(companyID, focusEmployeeID); err != nil {
		return nil, lookupErr(err, ErrEmployeeNotFound)
	}

	key := performanceKey(companyID, focusEmployeeID, from, to)
	var cached PerformanceReport
	if ok, err := s.cache.Get(ctx, key, &cached); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("report cache read failed")
	} else if ok {
		return &cached, nil
	}

	employees, err := s.employeeRepo.FindByCompany(companyID)
	if err != nil {
		return nil, err
	}
	txs, err := s.txRepo.FindByCompany(companyID, repository.TransactionFilter{From: from, To: to})
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(txs))
	for i := range txs {
		ids[i] = txs[i].ID
	}
	credits, err := s.creditRepo.FindByTransactionIDs(ids)
	if err != nil {
		return nil, err
	}

	report := ComparePerformance(employees, txs, credits, focusEmployeeID)
	report.From, report.To = from, to

	if err := s.cache.Set(ctx, key, &report, s.ttl); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("report cache write failed")
	}
	return &report, nil
}

func (s *reportService) Invalidate(ctx context.Context, companyID uuid.UUID) {
	if err := s.cache.DeletePrefix(ctx, performancePrefix(companyID)); err != nil {
		s.log.Warn().Err(err).Str("company_id", companyID.String()).Msg("report cache invalidation failed")
	}
}

func performancePrefix(companyID uuid.UUID) string {
	return fmt.Sprintf("pos:perf:%s:", companyID)
}

func performanceKey(companyID, focusID uuid.UUID, from, to *time.Time) string {
	return fmt.Sprintf("%s%s:%s:%s", performancePrefix(companyID), focusID, unixOrDash(from), unixOrDash(to))
}

func unixOrDash(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return fmt.Sprintf("%d", t.Unix())
}
