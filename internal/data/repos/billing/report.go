package billing

import (
	"time"

	"gorm.io/gorm"

	types "github.com/yungbote/contractpay-backend/internal/domain"
	"github.com/yungbote/contractpay-backend/internal/platform/dbctx"
	"github.com/yungbote/contractpay-backend/internal/platform/logger"
)

// PaidRange filters paid jobs by payment_date. Nil bounds are open.
type PaidRange struct {
	Start *time.Time
	End   *time.Time
}

// ReportRepo holds read-only aggregates over paid jobs.
type ReportRepo interface {
	BestProfession(dbc dbctx.Context, rng PaidRange) (*types.ProfessionEarnings, error)
	BestClients(dbc dbctx.Context, rng PaidRange, limit int) ([]*types.ClientPayments, error)
}

type reportRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReportRepo(db *gorm.DB, baseLog *logger.Logger) ReportRepo {
	return &reportRepo{db: db, log: baseLog.With("repo", "ReportRepo")}
}

type professionRow struct {
	Profession string
	Total      int64
}

type clientRow struct {
	ID        string
	FirstName string
	LastName  string
	Total     int64
}

func (r *reportRepo) paidJobs(dbc dbctx.Context, rng PaidRange) *gorm.DB {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	q := t.WithContext(dbc.Ctx).
		Table("jobs").
		Joins("JOIN contracts ON contracts.id = jobs.contract_id").
		Where("jobs.paid = ?", true)
	if rng.Start != nil {
		q = q.Where("jobs.payment_date >= ?", rng.Start.UTC())
	}
	if rng.End != nil {
		q = q.Where("jobs.payment_date <= ?", rng.End.UTC())
	}
	return q
}

func (r *reportRepo) BestProfession(dbc dbctx.Context, rng PaidRange) (*types.ProfessionEarnings, error) {
	var rows []professionRow
	err := r.paidJobs(dbc, rng).
		Select("profiles.profession AS profession, CAST(SUM(jobs.price) AS BIGINT) AS total").
		Joins("JOIN profiles ON profiles.id = contracts.contractor_id").
		Group("profiles.profession").
		Order("total DESC").
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &types.ProfessionEarnings{Profession: rows[0].Profession, Earned: types.Money(rows[0].Total)}, nil
}

func (r *reportRepo) BestClients(dbc dbctx.Context, rng PaidRange, limit int) ([]*types.ClientPayments, error) {
	if limit <= 0 {
		limit = 2
	}
	var rows []clientRow
	err := r.paidJobs(dbc, rng).
		Select("profiles.id AS id, profiles.first_name AS first_name, profiles.last_name AS last_name, CAST(SUM(jobs.price) AS BIGINT) AS total").
		Joins("JOIN profiles ON profiles.id = contracts.client_id").
		Group("profiles.id, profiles.first_name, profiles.last_name").
		Order("total DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]*types.ClientPayments, 0, len(rows))
	for _, row := range rows {
		p := types.Profile{FirstName: row.FirstName, LastName: row.LastName}
		cp := &types.ClientPayments{FullName: p.FullName(), Paid: types.Money(row.Total)}
		if err := cp.ID.Scan(row.ID); err != nil {
			return nil, err
		}
		out = append(out, cp)
	}
	return out, nil
}
