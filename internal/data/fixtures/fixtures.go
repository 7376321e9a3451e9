// Package fixtures loads profiles, contracts and jobs from YAML seed files.
package fixtures

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/yungbote/contractpay-backend/internal/data/repos"
	types "github.com/yungbote/contractpay-backend/internal/domain"
	"github.com/yungbote/contractpay-backend/internal/domain/billing"
	"github.com/yungbote/contractpay-backend/internal/platform/dbctx"
	"github.com/yungbote/contractpay-backend/internal/platform/logger"
)

// File is the seed document. Contracts and jobs refer to earlier entries by key.
type File struct {
	Profiles  []ProfileSpec  `yaml:"profiles"`
	Contracts []ContractSpec `yaml:"contracts"`
	Jobs      []JobSpec      `yaml:"jobs"`
}

type ProfileSpec struct {
	Key        string `yaml:"key"`
	FirstName  string `yaml:"first_name"`
	LastName   string `yaml:"last_name"`
	Profession string `yaml:"profession"`
	Type       string `yaml:"type"`
	Balance    string `yaml:"balance"`
}

type ContractSpec struct {
	Key        string `yaml:"key"`
	Terms      string `yaml:"terms"`
	Status     string `yaml:"status"`
	Client     string `yaml:"client"`
	Contractor string `yaml:"contractor"`
}

type JobSpec struct {
	Description string     `yaml:"description"`
	Price       string     `yaml:"price"`
	Contract    string     `yaml:"contract"`
	Paid        bool       `yaml:"paid"`
	PaymentDate *time.Time `yaml:"payment_date"`
}

// Result maps fixture keys to the ids they were stored under.
type Result struct {
	Profiles  map[string]*types.Profile
	Contracts map[string]*types.Contract
	Jobs      []*types.Job
}

func Parse(r io.Reader) (*File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}
	return &f, nil
}

func ParseFile(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	return Parse(fh)
}

type Loader struct {
	db        *gorm.DB
	log       *logger.Logger
	profiles  repos.ProfileRepo
	contracts repos.ContractRepo
	jobs      repos.JobRepo
}

func NewLoader(db *gorm.DB, baseLog *logger.Logger) *Loader {
	return &Loader{
		db:        db,
		log:       baseLog.With("service", "FixtureLoader"),
		profiles:  repos.NewProfileRepo(db, baseLog),
		contracts: repos.NewContractRepo(db, baseLog),
		jobs:      repos.NewJobRepo(db, baseLog),
	}
}

// Load validates f and inserts it in one transaction.
func (l *Loader) Load(ctx context.Context, f *File) (*Result, error) {
	if f == nil {
		return nil, errors.New("nil fixtures")
	}
	res := &Result{
		Profiles:  map[string]*types.Profile{},
		Contracts: map[string]*types.Contract{},
	}
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}

		profiles := make([]*types.Profile, 0, len(f.Profiles))
		for i, p := range f.Profiles {
			key := strings.TrimSpace(p.Key)
			if key == "" {
				return fmt.Errorf("profiles[%d]: missing key", i)
			}
			if _, dup := res.Profiles[key]; dup {
				return fmt.Errorf("profiles[%d]: duplicate key %q", i, key)
			}
			if !billing.IsKnownProfileType(p.Type) {
				return fmt.Errorf("profiles[%d]: unknown type %q", i, p.Type)
			}
			balance, err := parseAmount(p.Balance)
			if err != nil {
				return fmt.Errorf("profiles[%d]: balance: %w", i, err)
			}
			row := &types.Profile{
				FirstName:  p.FirstName,
				LastName:   p.LastName,
				Profession: p.Profession,
				Type:       billing.NormalizeProfileType(p.Type),
				Balance:    balance,
			}
			res.Profiles[key] = row
			profiles = append(profiles, row)
		}
		if _, err := l.profiles.Create(dbc, profiles); err != nil {
			return fmt.Errorf("insert profiles: %w", err)
		}

		contracts := make([]*types.Contract, 0, len(f.Contracts))
		for i, c := range f.Contracts {
			key := strings.TrimSpace(c.Key)
			if key == "" {
				return fmt.Errorf("contracts[%d]: missing key", i)
			}
			if _, dup := res.Contracts[key]; dup {
				return fmt.Errorf("contracts[%d]: duplicate key %q", i, key)
			}
			client, ok := res.Profiles[c.Client]
			if !ok || !client.IsClient() {
				return fmt.Errorf("contracts[%d]: client %q is not a client profile", i, c.Client)
			}
			contractor, ok := res.Profiles[c.Contractor]
			if !ok || contractor.Type != types.ProfileTypeContractor {
				return fmt.Errorf("contracts[%d]: contractor %q is not a contractor profile", i, c.Contractor)
			}
			status := strings.TrimSpace(c.Status)
			if status != "" && !billing.IsKnownContractStatus(status) {
				return fmt.Errorf("contracts[%d]: unknown status %q", i, status)
			}
			row := &types.Contract{
				Terms:        c.Terms,
				Status:       status,
				ClientID:     client.ID,
				ContractorID: contractor.ID,
			}
			res.Contracts[key] = row
			contracts = append(contracts, row)
		}
		if _, err := l.contracts.Create(dbc, contracts); err != nil {
			return fmt.Errorf("insert contracts: %w", err)
		}

		jobs := make([]*types.Job, 0, len(f.Jobs))
		for i, j := range f.Jobs {
			contract, ok := res.Contracts[j.Contract]
			if !ok {
				return fmt.Errorf("jobs[%d]: unknown contract %q", i, j.Contract)
			}
			price, err := parseAmount(j.Price)
			if err != nil {
				return fmt.Errorf("jobs[%d]: price: %w", i, err)
			}
			if !price.IsPositive() {
				return fmt.Errorf("jobs[%d]: price must be positive", i)
			}
			row := &types.Job{Description: j.Description, Price: price, ContractID: contract.ID}
			if j.Paid {
				at := time.Now().UTC()
				if j.PaymentDate != nil {
					at = j.PaymentDate.UTC()
				}
				if err := row.MarkPaid(at); err != nil {
					return fmt.Errorf("jobs[%d]: %w", i, err)
				}
			} else if j.PaymentDate != nil {
				return fmt.Errorf("jobs[%d]: payment_date set on unpaid job", i)
			}
			jobs = append(jobs, row)
		}
		if _, err := l.jobs.Create(dbc, jobs); err != nil {
			return fmt.Errorf("insert jobs: %w", err)
		}
		res.Jobs = jobs
		return nil
	})
	if err != nil {
		return nil, err
	}
	l.log.Info("Fixtures loaded", "profiles", len(res.Profiles), "contracts", len(res.Contracts), "jobs", len(res.Jobs))
	return res, nil
}

func parseAmount(s string) (types.Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return billing.ParseMoney(s)
}
