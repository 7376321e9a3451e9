package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/contractpay-backend/internal/domain"
)

func SeedProfile(tb testing.TB, ctx context.Context, tx *gorm.DB, profileType string, balance types.Money) *types.Profile {
	tb.Helper()
	now := time.Now().UTC()
	p := &types.Profile{
		ID:         uuid.New(),
		FirstName:  "Test",
		LastName:   profileType,
		Profession: "Tester",
		Type:       profileType,
		Balance:    balance,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed profile: %v", err)
	}
	return p
}

func SeedClient(tb testing.TB, ctx context.Context, tx *gorm.DB, balance types.Money) *types.Profile {
	tb.Helper()
	return SeedProfile(tb, ctx, tx, types.ProfileTypeClient, balance)
}

func SeedContractor(tb testing.TB, ctx context.Context, tx *gorm.DB, profession string, balance types.Money) *types.Profile {
	tb.Helper()
	p := SeedProfile(tb, ctx, tx, types.ProfileTypeContractor, balance)
	if profession != "" {
		if err := tx.WithContext(ctx).Model(p).Update("profession", profession).Error; err != nil {
			tb.Fatalf("seed contractor profession: %v", err)
		}
		p.Profession = profession
	}
	return p
}

func SeedContract(tb testing.TB, ctx context.Context, tx *gorm.DB, clientID, contractorID uuid.UUID, status string) *types.Contract {
	tb.Helper()
	now := time.Now().UTC()
	if status == "" {
		status = types.ContractStatusInProgress
	}
	c := &types.Contract{
		ID:           uuid.New(),
		Terms:        "terms",
		Status:       status,
		ClientID:     clientID,
		ContractorID: contractorID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed contract: %v", err)
	}
	return c
}

// SeedJob inserts a job; a non-nil paidAt seeds it as already paid.
func SeedJob(tb testing.TB, ctx context.Context, tx *gorm.DB, contractID uuid.UUID, price types.Money, paidAt *time.Time) *types.Job {
	tb.Helper()
	now := time.Now().UTC()
	j := &types.Job{
		ID:          uuid.New(),
		Description: "work",
		Price:       price,
		ContractID:  contractID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if paidAt != nil {
		at := paidAt.UTC()
		j.Paid = true
		j.PaymentDate = &at
	}
	if err := tx.WithContext(ctx).Create(j).Error; err != nil {
		tb.Fatalf("seed job: %v", err)
	}
	return j
}

func PtrTime(v time.Time) *time.Time { return &v }
