package billing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/contractpay-backend/internal/data/repos/testutil"
	types "github.com/yungbote/contractpay-backend/internal/domain"
	"github.com/yungbote/contractpay-backend/internal/platform/dbctx"
)

func TestProfileRepoLockByIDsOrdersByID(t *testing.T) {
	db := testutil.SQLite(t)
	ctx := context.Background()
	log := testutil.Logger(t)
	repo := NewProfileRepo(db, log)

	a := testutil.SeedClient(t, ctx, db, 100)
	b := testutil.SeedContractor(t, ctx, db, "Programmer", 0)

	if _, err := repo.LockByIDs(dbctx.Context{Ctx: ctx}, []uuid.UUID{a.ID}); err == nil {
		t.Fatalf("LockByIDs without tx: expected error")
	}

	tx := testutil.Tx(t, db)
	rows, err := repo.LockByIDs(dbctx.Context{Ctx: ctx, Tx: tx}, []uuid.UUID{b.ID, a.ID})
	if err != nil {
		t.Fatalf("LockByIDs: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("LockByIDs count: want=2 got=%d", len(rows))
	}
	if rows[0].ID.String() > rows[1].ID.String() {
		t.Fatalf("LockByIDs order: got=%s,%s", rows[0].ID, rows[1].ID)
	}

	missing, err := repo.LockByID(dbctx.Context{Ctx: ctx, Tx: tx}, uuid.New())
	if err != nil {
		t.Fatalf("LockByID missing: %v", err)
	}
	if missing != nil {
		t.Fatalf("LockByID missing: want=nil got=%+v", missing)
	}
}

func TestProfileRepoCreateAssignsIDs(t *testing.T) {
	db := testutil.SQLite(t)
	ctx := context.Background()
	repo := NewProfileRepo(db, testutil.Logger(t))

	rows, err := repo.Create(dbctx.Context{Ctx: ctx}, []*types.Profile{
		{FirstName: "Ada", LastName: "Lovelace", Profession: "Engineer", Type: types.ProfileTypeClient, Balance: 1250},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rows[0].ID == uuid.Nil {
		t.Fatalf("Create should assign id")
	}
	got, err := repo.GetByID(dbctx.Context{Ctx: ctx}, rows[0].ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil || got.Balance != 1250 || got.FullName() != "Ada Lovelace" {
		t.Fatalf("GetByID: got=%+v", got)
	}
}

func TestProfileRepoRejectsNegativeBalance(t *testing.T) {
	db := testutil.SQLite(t)
	ctx := context.Background()
	repo := NewProfileRepo(db, testutil.Logger(t))

	_, err := repo.Create(dbctx.Context{Ctx: ctx}, []*types.Profile{
		{FirstName: "Neg", LastName: "Ative", Profession: "x", Type: types.ProfileTypeClient, Balance: -1},
	})
	if err == nil {
		t.Fatalf("Create with negative balance: expected check constraint error")
	}
}

func TestContractRepoPartyScoping(t *testing.T) {
	db := testutil.SQLite(t)
	ctx := context.Background()
	repo := NewContractRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx}

	client := testutil.SeedClient(t, ctx, db, 0)
	contractor := testutil.SeedContractor(t, ctx, db, "Designer", 0)
	stranger := testutil.SeedClient(t, ctx, db, 0)

	active := testutil.SeedContract(t, ctx, db, client.ID, contractor.ID, types.ContractStatusInProgress)
	testutil.SeedContract(t, ctx, db, client.ID, contractor.ID, types.ContractStatusTerminated)
	job := testutil.SeedJob(t, ctx, db, active.ID, 200, nil)

	got, err := repo.GetForParty(dbc, active.ID, contractor.ID)
	if err != nil || got == nil || got.ID != active.ID {
		t.Fatalf("GetForParty contractor: got=%+v err=%v", got, err)
	}
	got, err = repo.GetForParty(dbc, active.ID, stranger.ID)
	if err != nil || got != nil {
		t.Fatalf("GetForParty stranger: want=nil got=%+v err=%v", got, err)
	}

	list, err := repo.ListActiveForParty(dbc, client.ID)
	if err != nil {
		t.Fatalf("ListActiveForParty: %v", err)
	}
	if len(list) != 1 || list[0].ID != active.ID {
		t.Fatalf("ListActiveForParty: want=[%s] got=%d rows", active.ID, len(list))
	}

	owned, err := repo.GetByClientAndJob(dbc, client.ID, job.ID)
	if err != nil || owned == nil || owned.ID != active.ID {
		t.Fatalf("GetByClientAndJob owner: got=%+v err=%v", owned, err)
	}
	owned, err = repo.GetByClientAndJob(dbc, contractor.ID, job.ID)
	if err != nil || owned != nil {
		t.Fatalf("GetByClientAndJob contractor: want=nil got=%+v err=%v", owned, err)
	}
}

func TestJobRepoUnpaidQueries(t *testing.T) {
	db := testutil.SQLite(t)
	ctx := context.Background()
	repo := NewJobRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx}

	client := testutil.SeedClient(t, ctx, db, 0)
	other := testutil.SeedClient(t, ctx, db, 0)
	contractor := testutil.SeedContractor(t, ctx, db, "Programmer", 0)

	inProgress := testutil.SeedContract(t, ctx, db, client.ID, contractor.ID, types.ContractStatusInProgress)
	fresh := testutil.SeedContract(t, ctx, db, client.ID, contractor.ID, types.ContractStatusNew)
	otherContract := testutil.SeedContract(t, ctx, db, other.ID, contractor.ID, types.ContractStatusInProgress)

	testutil.SeedJob(t, ctx, db, inProgress.ID, 150, nil)
	testutil.SeedJob(t, ctx, db, inProgress.ID, 999, testutil.PtrTime(time.Now()))
	testutil.SeedJob(t, ctx, db, fresh.ID, 250, nil)
	testutil.SeedJob(t, ctx, db, otherContract.ID, 75, nil)

	sum, err := repo.SumUnpaidForClient(dbc, client.ID)
	if err != nil {
		t.Fatalf("SumUnpaidForClient: %v", err)
	}
	if sum != 400 {
		t.Fatalf("SumUnpaidForClient: want=400 got=%d", sum)
	}

	none, err := repo.SumUnpaidForClient(dbc, uuid.New())
	if err != nil {
		t.Fatalf("SumUnpaidForClient unknown: %v", err)
	}
	if none != 0 {
		t.Fatalf("SumUnpaidForClient unknown: want=0 got=%d", none)
	}

	unpaid, err := repo.ListUnpaidForParty(dbc, client.ID)
	if err != nil {
		t.Fatalf("ListUnpaidForParty: %v", err)
	}
	if len(unpaid) != 1 || unpaid[0].Price != 150 {
		t.Fatalf("ListUnpaidForParty client: got=%d rows", len(unpaid))
	}
	unpaid, err = repo.ListUnpaidForParty(dbc, contractor.ID)
	if err != nil {
		t.Fatalf("ListUnpaidForParty contractor: %v", err)
	}
	if len(unpaid) != 2 {
		t.Fatalf("ListUnpaidForParty contractor: want=2 got=%d", len(unpaid))
	}
}

func TestReportRepoRankings(t *testing.T) {
	db := testutil.SQLite(t)
	ctx := context.Background()
	repo := NewReportRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx}

	now := time.Now().UTC()
	old := now.Add(-30 * 24 * time.Hour)

	big := testutil.SeedClient(t, ctx, db, 0)
	small := testutil.SeedClient(t, ctx, db, 0)
	dev := testutil.SeedContractor(t, ctx, db, "Programmer", 0)
	designer := testutil.SeedContractor(t, ctx, db, "Designer", 0)

	c1 := testutil.SeedContract(t, ctx, db, big.ID, dev.ID, "")
	c2 := testutil.SeedContract(t, ctx, db, small.ID, designer.ID, "")
	c3 := testutil.SeedContract(t, ctx, db, big.ID, designer.ID, "")

	testutil.SeedJob(t, ctx, db, c1.ID, 1000, testutil.PtrTime(now))
	testutil.SeedJob(t, ctx, db, c2.ID, 300, testutil.PtrTime(now))
	testutil.SeedJob(t, ctx, db, c3.ID, 5000, testutil.PtrTime(old))
	testutil.SeedJob(t, ctx, db, c1.ID, 7777, nil)

	best, err := repo.BestProfession(dbc, PaidRange{})
	if err != nil {
		t.Fatalf("BestProfession: %v", err)
	}
	if best == nil || best.Profession != "Designer" || best.Earned != 5300 {
		t.Fatalf("BestProfession all time: got=%+v", best)
	}

	start := now.Add(-time.Hour)
	best, err = repo.BestProfession(dbc, PaidRange{Start: &start})
	if err != nil {
		t.Fatalf("BestProfession ranged: %v", err)
	}
	if best == nil || best.Profession != "Programmer" || best.Earned != 1000 {
		t.Fatalf("BestProfession ranged: got=%+v", best)
	}

	end := old.Add(-time.Hour)
	best, err = repo.BestProfession(dbc, PaidRange{End: &end})
	if err != nil {
		t.Fatalf("BestProfession empty: %v", err)
	}
	if best != nil {
		t.Fatalf("BestProfession empty: want=nil got=%+v", best)
	}

	clients, err := repo.BestClients(dbc, PaidRange{}, 0)
	if err != nil {
		t.Fatalf("BestClients: %v", err)
	}
	if len(clients) != 2 {
		t.Fatalf("BestClients default limit: want=2 got=%d", len(clients))
	}
	if clients[0].ID != big.ID || clients[0].Paid != 6000 {
		t.Fatalf("BestClients top: got=%+v", clients[0])
	}
	if clients[1].ID != small.ID || clients[1].Paid != 300 {
		t.Fatalf("BestClients second: got=%+v", clients[1])
	}

	clients, err = repo.BestClients(dbc, PaidRange{}, 1)
	if err != nil {
		t.Fatalf("BestClients limit 1: %v", err)
	}
	if len(clients) != 1 {
		t.Fatalf("BestClients limit 1: got=%d", len(clients))
	}
}
