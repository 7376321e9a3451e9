package services

import (
	"time"

	"github.com/yungbote/contractpay-backend/internal/data/repos"
	types "github.com/yungbote/contractpay-backend/internal/domain"
	"github.com/yungbote/contractpay-backend/internal/platform/dbctx"
	"github.com/yungbote/contractpay-backend/internal/platform/logger"
)

const (
	DefaultBestClientsLimit = 2
	MaxBestClientsLimit     = 100
)

type ReportService interface {
	BestProfession(dbc dbctx.Context, start, end *time.Time) (*types.ProfessionEarnings, error)
	BestClients(dbc dbctx.Context, start, end *time.Time, limit int) ([]*types.ClientPayments, error)
}

type reportService struct {
	log     *logger.Logger
	reports repos.ReportRepo
}

func NewReportService(log *logger.Logger, reports repos.ReportRepo) ReportService {
	return &reportService{log: log.With("service", "ReportService"), reports: reports}
}

func paidRange(start, end *time.Time) (repos.PaidRange, error) {
	if start != nil && end != nil && start.After(*end) {
		return repos.PaidRange{}, ErrInvalidRange
	}
	return repos.PaidRange{Start: start, End: end}, nil
}

func (s *reportService) BestProfession(dbc dbctx.Context, start, end *time.Time) (*types.ProfessionEarnings, error) {
	rng, err := paidRange(start, end)
	if err != nil {
		return nil, err
	}
	best, err := s.reports.BestProfession(dbc, rng)
	if err != nil {
		return nil, err
	}
	if best == nil {
		return nil, ErrNotFound
	}
	return best, nil
}

func (s *reportService) BestClients(dbc dbctx.Context, start, end *time.Time, limit int) ([]*types.ClientPayments, error) {
	rng, err := paidRange(start, end)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultBestClientsLimit
	}
	if limit > MaxBestClientsLimit {
		limit = MaxBestClientsLimit
	}
	return s.reports.BestClients(dbc, rng, limit)
}
