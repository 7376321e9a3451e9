// Package testutil opens migrated billing databases for tests.
package testutil

import (
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	types "github.com/yungbote/contractpay-backend/internal/domain"
	"github.com/yungbote/contractpay-backend/internal/platform/logger"
)

const postgresDSNEnv = "TEST_POSTGRES_DSN"

// Logger is shared by every test in the binary and only prints warnings and above.
var Logger = func() func(testing.TB) *logger.Logger {
	var (
		once sync.Once
		log  *logger.Logger
		err  error
	)
	return func(tb testing.TB) *logger.Logger {
		tb.Helper()
		once.Do(func() { log, err = logger.New("test") })
		if err != nil {
			tb.Fatalf("test logger: %v", err)
		}
		return log
	}
}()

// DB returns the shared Postgres database named by TEST_POSTGRES_DSN and skips when it is unset.
// Tests share rows, so seed with fresh uuids.
var DB = func() func(testing.TB) *gorm.DB {
	var (
		once sync.Once
		db   *gorm.DB
		err  error
	)
	return func(tb testing.TB) *gorm.DB {
		tb.Helper()
		dsn := os.Getenv(postgresDSNEnv)
		if dsn == "" {
			tb.Skipf("set %s to run postgres integration tests", postgresDSNEnv)
		}
		once.Do(func() { db, err = openMigrated(postgres.Open(dsn)) })
		if err != nil {
			tb.Fatalf("postgres test db: %v", err)
		}
		return db
	}
}()

// SQLite returns a fresh in-memory database private to the calling test.
// One open connection means concurrent payments serialize like row locks would.
func SQLite(tb testing.TB) *gorm.DB {
	tb.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	db, err := openMigrated(sqlite.Open(dsn), func(db *gorm.DB) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		sqlDB.SetMaxOpenConns(1)
		tb.Cleanup(func() { _ = sqlDB.Close() })
		return nil
	})
	if err != nil {
		tb.Fatalf("sqlite test db: %v", err)
	}
	return db
}

func openMigrated(d gorm.Dialector, prepare ...func(*gorm.DB) error) (*gorm.DB, error) {
	db, err := gorm.Open(d, &gorm.Config{
		Logger:  gormLogger.Default.LogMode(gormLogger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d.Name(), err)
	}
	for _, p := range prepare {
		if err := p(db); err != nil {
			return nil, err
		}
	}
	if err := db.AutoMigrate(types.Models()...); err != nil {
		return nil, fmt.Errorf("migrate %s: %w", d.Name(), err)
	}
	return db, nil
}

// Tx begins a transaction that is rolled back when the test ends.
func Tx(tb testing.TB, db *gorm.DB) *gorm.DB {
	tb.Helper()
	tx := db.Begin()
	if err := tx.Error; err != nil {
		tb.Fatalf("begin tx: %v", err)
	}
	tb.Cleanup(func() { tx.Rollback() })
	return tx
}
