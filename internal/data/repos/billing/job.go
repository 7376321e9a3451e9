package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/contractpay-backend/internal/domain"
	"github.com/yungbote/contractpay-backend/internal/platform/dbctx"
	"github.com/yungbote/contractpay-backend/internal/platform/logger"
)

type JobRepo interface {
	Create(dbc dbctx.Context, rows []*types.Job) ([]*types.Job, error)

	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Job, error)
	LockByID(dbc dbctx.Context, id uuid.UUID) (*types.Job, error)

	// ListUnpaidForParty lists unpaid jobs on in_progress contracts where profileID is a party.
	ListUnpaidForParty(dbc dbctx.Context, profileID uuid.UUID) ([]*types.Job, error)
	// SumUnpaidForClient totals the price of every unpaid job across the client's contracts.
	SumUnpaidForClient(dbc dbctx.Context, clientID uuid.UUID) (types.Money, error)
}

type jobRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewJobRepo(db *gorm.DB, baseLog *logger.Logger) JobRepo {
	return &jobRepo{db: db, log: baseLog.With("repo", "JobRepo")}
}

func (r *jobRepo) Create(dbc dbctx.Context, rows []*types.Job) ([]*types.Job, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.Job{}, nil
	}
	now := time.Now().UTC()
	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
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

func (r *jobRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Job, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var row types.Job
	if err := t.WithContext(dbc.Ctx).Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *jobRepo) LockByID(dbc dbctx.Context, id uuid.UUID) (*types.Job, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	if dbc.Tx == nil {
		return nil, fmt.Errorf("LockByID requires dbc.Tx")
	}
	var row types.Job
	err := dbc.Tx.WithContext(dbc.Ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
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

func (r *jobRepo) ListUnpaidForParty(dbc dbctx.Context, profileID uuid.UUID) ([]*types.Job, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Job
	if profileID == uuid.Nil {
		return out, nil
	}
	err := t.WithContext(dbc.Ctx).
		Model(&types.Job{}).
		Select("jobs.*").
		Joins("JOIN contracts ON contracts.id = jobs.contract_id").
		Where("jobs.paid = ?", false).
		Where("contracts.status = ?", types.ContractStatusInProgress).
		Where("contracts.client_id = ? OR contracts.contractor_id = ?", profileID, profileID).
		Order("jobs.created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *jobRepo) SumUnpaidForClient(dbc dbctx.Context, clientID uuid.UUID) (types.Money, error) {
	if clientID == uuid.Nil {
		return 0, nil
	}
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var total int64
	err := t.WithContext(dbc.Ctx).
		Model(&types.Job{}).
		Select("CAST(COALESCE(SUM(jobs.price), 0) AS BIGINT)").
		Joins("JOIN contracts ON contracts.id = jobs.contract_id").
		Where("contracts.client_id = ? AND jobs.paid = ?", clientID, false).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return types.Money(total), nil
}
