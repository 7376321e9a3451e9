package aggregates_test

import (
	"context"
	"sync"
	"testing"

	"github.com/yungbote/contractpay-backend/internal/data/aggregates"
	repotest "github.com/yungbote/contractpay-backend/internal/data/repos/testutil"
	domainagg "github.com/yungbote/contractpay-backend/internal/domain/aggregates"
)

func TestPostgresPayForJobRowLocksSerializePayments(t *testing.T) {
	db := repotest.DB(t)
	agg := newPaymentAggregate(t, db, aggregates.BaseDeps{})
	fx := seedPayment(t, db, 50000, 0, 10000)
	runConcurrentPayments(t, db, agg, fx, 16)
}

func TestPostgresPaymentAndDepositDoNotDeadlock(t *testing.T) {
	db := repotest.DB(t)
	ctx := context.Background()
	pay := newPaymentAggregate(t, db, aggregates.BaseDeps{})
	dep := newDepositAggregate(t, db, aggregates.BaseDeps{})
	fx := seedPayment(t, db, 100000, 0, 10000)
	for i := 0; i < 8; i++ {
		repotest.SeedJob(t, ctx, db, fx.contract.ID, 10000, nil)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := pay.PayForJob(ctx, domainagg.PayForJobInput{ActorProfileID: fx.client.ID, JobID: fx.job.ID})
		errs <- err
	}()
	go func() {
		defer wg.Done()
		_, err := dep.DepositToClient(ctx, domainagg.DepositInput{TargetProfileID: fx.client.ID, Amount: 100})
		errs <- err
	}()
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent payment/deposit: %v", err)
		}
	}

	got := loadProfile(t, db, fx.client.ID)
	if got.Balance != 100000-10000+100 {
		t.Fatalf("client balance: want=%d got=%d", 100000-10000+100, got.Balance)
	}
}
