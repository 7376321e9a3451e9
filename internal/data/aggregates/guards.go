package aggregates

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/contractpay-backend/internal/domain/billing"
	"github.com/yungbote/contractpay-backend/internal/platform/dbctx"
)

// CASGuard applies compare-and-set updates so a write only lands on the row state it was decided from.
type CASGuard struct {
	db *gorm.DB
}

func NewCASGuard(db *gorm.DB) CASGuard {
	return CASGuard{db: db}
}

func (g CASGuard) baseDB(dbc dbctx.Context) (*gorm.DB, error) {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx), nil
	}
	if g.db != nil {
		return g.db.WithContext(dbc.Ctx), nil
	}
	return nil, ValidationError("missing db transaction context")
}

// UpdateIfMatch updates the row with the given id only when every column in match still holds.
func (g CASGuard) UpdateIfMatch(dbc dbctx.Context, table string, id uuid.UUID, match map[string]any, updates map[string]any) (bool, error) {
	db, err := g.baseDB(dbc)
	if err != nil {
		return false, err
	}
	table = strings.TrimSpace(table)
	if table == "" || id == uuid.Nil {
		return false, ValidationError("table and id are required for UpdateIfMatch")
	}
	if len(updates) == 0 {
		return false, ValidationError("updates must not be empty")
	}
	q := db.Table(table).Where("id = ?", id)
	cols := make([]string, 0, len(match))
	for col := range match {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	for _, col := range cols {
		q = q.Where(col+" = ?", match[col])
	}
	res := q.Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// UpdateBalance moves a profile balance from expected to next.
func (g CASGuard) UpdateBalance(dbc dbctx.Context, profileID uuid.UUID, expected, next billing.Money, at time.Time) (bool, error) {
	if next < 0 {
		return false, InvariantError("balance must not go negative")
	}
	return g.UpdateIfMatch(dbc, billing.Profile{}.TableName(), profileID,
		map[string]any{"balance": int64(expected)},
		map[string]any{"balance": int64(next), "updated_at": at.UTC()},
	)
}

// MarkJobPaid flips paid false -> true and stamps payment_date in one guarded write.
func (g CASGuard) MarkJobPaid(dbc dbctx.Context, jobID uuid.UUID, at time.Time) (bool, error) {
	return g.UpdateIfMatch(dbc, billing.Job{}.TableName(), jobID,
		map[string]any{"paid": false},
		map[string]any{"paid": true, "payment_date": at.UTC(), "updated_at": at.UTC()},
	)
}

// RequireCASSuccess converts a failed compare-and-set into a typed conflict error.
func RequireCASSuccess(ok bool, message string) error {
	if ok {
		return nil
	}
	return ConflictError(strings.TrimSpace(message))
}
