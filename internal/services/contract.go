package services

import (
	"github.com/google/uuid"

	"github.com/yungbote/contractpay-backend/internal/data/repos"
	types "github.com/yungbote/contractpay-backend/internal/domain"
	"github.com/yungbote/contractpay-backend/internal/platform/ctxutil"
	"github.com/yungbote/contractpay-backend/internal/platform/dbctx"
	"github.com/yungbote/contractpay-backend/internal/platform/logger"
)

// ContractService serves the acting profile's contracts and unpaid jobs.
type ContractService interface {
	GetContract(dbc dbctx.Context, id uuid.UUID) (*types.Contract, error)
	ListContracts(dbc dbctx.Context) ([]*types.Contract, error)
	ListUnpaidJobs(dbc dbctx.Context) ([]*types.Job, error)
}

type contractService struct {
	log       *logger.Logger
	contracts repos.ContractRepo
	jobs      repos.JobRepo
}

func NewContractService(log *logger.Logger, contracts repos.ContractRepo, jobs repos.JobRepo) ContractService {
	return &contractService{
		log:       log.With("service", "ContractService"),
		contracts: contracts,
		jobs:      jobs,
	}
}

func actorID(dbc dbctx.Context) (uuid.UUID, error) {
	rd := ctxutil.GetRequestData(dbc.Ctx)
	if rd == nil || rd.ProfileID == uuid.Nil {
		return uuid.Nil, ErrUnauthorized
	}
	return rd.ProfileID, nil
}

func (s *contractService) GetContract(dbc dbctx.Context, id uuid.UUID) (*types.Contract, error) {
	actor, err := actorID(dbc)
	if err != nil {
		return nil, err
	}
	c, err := s.contracts.GetForParty(dbc, id, actor)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	return c, nil
}

func (s *contractService) ListContracts(dbc dbctx.Context) ([]*types.Contract, error) {
	actor, err := actorID(dbc)
	if err != nil {
		return nil, err
	}
	return s.contracts.ListActiveForParty(dbc, actor)
}

func (s *contractService) ListUnpaidJobs(dbc dbctx.Context) ([]*types.Job, error) {
	actor, err := actorID(dbc)
	if err != nil {
		return nil, err
	}
	return s.jobs.ListUnpaidForParty(dbc, actor)
}
