package billing

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/contractpay-backend/internal/domain"
	"github.com/yungbote/contractpay-backend/internal/platform/dbctx"
	"github.com/yungbote/contractpay-backend/internal/platform/logger"
)

type ContractRepo interface {
	Create(dbc dbctx.Context, rows []*types.Contract) ([]*types.Contract, error)

	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Contract, error)
	// GetForParty returns the contract only when profileID is its client or contractor.
	GetForParty(dbc dbctx.Context, id, profileID uuid.UUID) (*types.Contract, error)
	ListActiveForParty(dbc dbctx.Context, profileID uuid.UUID) ([]*types.Contract, error)

	// GetByClientAndJob returns the contract owned by clientID that contains jobID.
	GetByClientAndJob(dbc dbctx.Context, clientID, jobID uuid.UUID) (*types.Contract, error)
}

type contractRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContractRepo(db *gorm.DB, baseLog *logger.Logger) ContractRepo {
	return &contractRepo{db: db, log: baseLog.With("repo", "ContractRepo")}
}

func (r *contractRepo) Create(dbc dbctx.Context, rows []*types.Contract) ([]*types.Contract, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.Contract{}, nil
	}
	now := time.Now().UTC()
	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
		if row.Status == "" {
			row.Status = types.ContractStatusNew
		}
		if row.CreatedAt.IsZero() {
			row.CreatedAt = now
		}
		if row.UpdatedAt.IsZero() {
			row.UpdatedAt = now
		}
	}
	if err := t.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *contractRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Contract, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var row types.Contract
	if err := t.WithContext(dbc.Ctx).Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *contractRepo) GetForParty(dbc dbctx.Context, id, profileID uuid.UUID) (*types.Contract, error) {
	if id == uuid.Nil || profileID == uuid.Nil {
		return nil, nil
	}
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var row types.Contract
	err := t.WithContext(dbc.Ctx).
		Where("id = ? AND (client_id = ? OR contractor_id = ?)", id, profileID, profileID).
		Limit(1).
		Find(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *contractRepo) ListActiveForParty(dbc dbctx.Context, profileID uuid.UUID) ([]*types.Contract, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Contract
	if profileID == uuid.Nil {
		return out, nil
	}
	err := t.WithContext(dbc.Ctx).
		Where("status <> ? AND (client_id = ? OR contractor_id = ?)", types.ContractStatusTerminated, profileID, profileID).
		Order("created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *contractRepo) GetByClientAndJob(dbc dbctx.Context, clientID, jobID uuid.UUID) (*types.Contract, error) {
	if clientID == uuid.Nil || jobID == uuid.Nil {
		return nil, nil
	}
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var row types.Contract
	err := t.WithContext(dbc.Ctx).
		Model(&types.Contract{}).
		Select("contracts.*").
		Joins("JOIN jobs ON jobs.contract_id = contracts.id").
		Where("contracts.client_id = ? AND jobs.id = ?", clientID, jobID).
		Limit(1).
		Find(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}
