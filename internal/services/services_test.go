package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yungbote/contractpay-backend/internal/data/aggregates"
	"github.com/yungbote/contractpay-backend/internal/data/repos"
	repotest "github.com/yungbote/contractpay-backend/internal/data/repos/testutil"
	types "github.com/yungbote/contractpay-backend/internal/domain"
	domainagg "github.com/yungbote/contractpay-backend/internal/domain/aggregates"
	"github.com/yungbote/contractpay-backend/internal/observability"
	"github.com/yungbote/contractpay-backend/internal/platform/ctxutil"
	"github.com/yungbote/contractpay-backend/internal/platform/dbctx"
)

func asProfile(p *types.Profile) context.Context {
	return ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{ProfileID: p.ID, ProfileType: p.Type})
}

func TestBillingServicePaysAsActingProfile(t *testing.T) {
	db := repotest.SQLite(t)
	log := repotest.Logger(t)
	ctx := context.Background()
	metrics := observability.New()

	profiles := repos.NewProfileRepo(db, log)
	contracts := repos.NewContractRepo(db, log)
	jobs := repos.NewJobRepo(db, log)
	base := aggregates.BaseDeps{DB: db, Log: log, Hooks: aggregates.NewObservabilityHooks(metrics)}
	svc := NewBillingService(log,
		aggregates.NewPaymentAggregate(aggregates.PaymentAggregateDeps{Base: base, Profiles: profiles, Contracts: contracts, Jobs: jobs}),
		aggregates.NewDepositAggregate(aggregates.DepositAggregateDeps{Base: base, Profiles: profiles, Jobs: jobs}),
		metrics,
	)

	client := repotest.SeedClient(t, ctx, db, 10000)
	contractor := repotest.SeedContractor(t, ctx, db, "Programmer", 0)
	c := repotest.SeedContract(t, ctx, db, client.ID, contractor.ID, "")
	job := repotest.SeedJob(t, ctx, db, c.ID, 10000, nil)
	repotest.SeedJob(t, ctx, db, c.ID, 40000, nil)

	if _, err := svc.PayForJob(ctx, job.ID); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("PayForJob without actor: want ErrUnauthorized got %v", err)
	}
	if _, err := svc.PayForJob(asProfile(contractor), job.ID); !domainagg.IsCode(err, domainagg.CodeInvalidActorRole) {
		t.Fatalf("PayForJob as contractor: want invalid role got %v", err)
	}

	res, err := svc.PayForJob(asProfile(client), job.ID)
	if err != nil {
		t.Fatalf("PayForJob: %v", err)
	}
	if res.ClientBalance != 0 || res.ContractorBalance != 10000 {
		t.Fatalf("PayForJob result: %+v", res)
	}

	dep, err := svc.DepositToClient(asProfile(contractor), client.ID, 10000)
	if err != nil {
		t.Fatalf("DepositToClient: %v", err)
	}
	if dep.Balance != 10000 || dep.Outstanding != 40000 {
		t.Fatalf("DepositToClient result: %+v", dep)
	}

	if got := metrics.AggregateOperations("Billing.Payment.PayForJob", "success"); got != 1 {
		t.Fatalf("payment success metric: want=1 got=%v", got)
	}
	if got := metrics.AggregateOperations("Billing.Payment.PayForJob", string(domainagg.CodeInvalidActorRole)); got != 1 {
		t.Fatalf("payment invalid role metric: want=1 got=%v", got)
	}
}

func TestContractServiceScopesToActor(t *testing.T) {
	db := repotest.SQLite(t)
	log := repotest.Logger(t)
	ctx := context.Background()
	svc := NewContractService(log, repos.NewContractRepo(db, log), repos.NewJobRepo(db, log))

	client := repotest.SeedClient(t, ctx, db, 0)
	contractor := repotest.SeedContractor(t, ctx, db, "", 0)
	stranger := repotest.SeedClient(t, ctx, db, 0)
	c := repotest.SeedContract(t, ctx, db, client.ID, contractor.ID, types.ContractStatusInProgress)
	repotest.SeedJob(t, ctx, db, c.ID, 100, nil)

	if _, err := svc.GetContract(dbctx.Context{Ctx: ctx}, c.ID); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("GetContract anonymous: want ErrUnauthorized got %v", err)
	}
	got, err := svc.GetContract(dbctx.Context{Ctx: asProfile(contractor)}, c.ID)
	if err != nil || got.ID != c.ID {
		t.Fatalf("GetContract contractor: got=%v err=%v", got, err)
	}
	if _, err := svc.GetContract(dbctx.Context{Ctx: asProfile(stranger)}, c.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetContract stranger: want ErrNotFound got %v", err)
	}
	list, err := svc.ListContracts(dbctx.Context{Ctx: asProfile(client)})
	if err != nil || len(list) != 1 {
		t.Fatalf("ListContracts: n=%d err=%v", len(list), err)
	}
	unpaid, err := svc.ListUnpaidJobs(dbctx.Context{Ctx: asProfile(stranger)})
	if err != nil || len(unpaid) != 0 {
		t.Fatalf("ListUnpaidJobs stranger: n=%d err=%v", len(unpaid), err)
	}
}

func TestReportServiceRangeAndEmpty(t *testing.T) {
	db := repotest.SQLite(t)
	log := repotest.Logger(t)
	svc := NewReportService(log, repos.NewReportRepo(db, log))
	dbc := dbctx.Context{Ctx: context.Background()}

	start := time.Now()
	end := start.Add(-time.Hour)
	if _, err := svc.BestProfession(dbc, &start, &end); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("inverted range: want ErrInvalidRange got %v", err)
	}
	if _, err := svc.BestProfession(dbc, nil, nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("no paid jobs: want ErrNotFound got %v", err)
	}
	clients, err := svc.BestClients(dbc, nil, nil, 0)
	if err != nil || len(clients) != 0 {
		t.Fatalf("BestClients empty: n=%d err=%v", len(clients), err)
	}
}

func TestProfileServiceResolvesHeaderValue(t *testing.T) {
	db := repotest.SQLite(t)
	log := repotest.Logger(t)
	ctx := context.Background()
	svc := NewProfileService(log, repos.NewProfileRepo(db, log))
	client := repotest.SeedClient(t, ctx, db, 500)

	for _, raw := range []string{"", "not-a-uuid", "00000000-0000-0000-0000-000000000000", "6f1c1f7e-1f53-4c83-9d0f-3d8d6c1a2b3c"} {
		if _, err := svc.SetContextFromProfileID(ctx, raw); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("SetContextFromProfileID(%q): want ErrUnauthorized got %v", raw, err)
		}
	}

	resolved, err := svc.SetContextFromProfileID(ctx, " "+client.ID.String()+" ")
	if err != nil {
		t.Fatalf("SetContextFromProfileID: %v", err)
	}
	rd := ctxutil.GetRequestData(resolved)
	if rd == nil || rd.ProfileID != client.ID || rd.ProfileType != types.ProfileTypeClient {
		t.Fatalf("request data: %+v", rd)
	}
	me, err := svc.GetMe(resolved)
	if err != nil || me.Balance != 500 {
		t.Fatalf("GetMe: me=%+v err=%v", me, err)
	}
}
