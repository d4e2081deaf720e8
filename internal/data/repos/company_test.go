package repos

import (
	"context"
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	types "github.com/yungbote/transcriptgraph/internal/domain"
	"github.com/yungbote/transcriptgraph/internal/platform/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&types.Company{}, &types.Event{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedCompanies(t *testing.T, repo CompanyRepo, ids ...int64) {
	t.Helper()
	var rows []*types.Company
	for _, id := range ids {
		rows = append(rows, &types.Company{CompanyID: id, Name: "Company"})
	}
	if err := repo.Upsert(context.Background(), rows); err != nil {
		t.Fatalf("seed companies: %v", err)
	}
}

func TestCompanyRepoListAfterIsExclusiveAndAscending(t *testing.T) {
	repo := NewCompanyRepo(openTestDB(t), logger.NewNop())
	seedCompanies(t, repo, 30, 10, 20, 40)

	got, err := repo.ListAfter(context.Background(), 10)
	if err != nil {
		t.Fatalf("list after: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 companies after cursor 10, got %d", len(got))
	}
	for i, want := range []int64{20, 30, 40} {
		if got[i].CompanyID != want {
			t.Fatalf("position %d: want %d, got %d", i, want, got[i].CompanyID)
		}
	}
}

func TestCompanyRepoGetByCompanyIDReturnsNilWhenAbsent(t *testing.T) {
	repo := NewCompanyRepo(openTestDB(t), logger.NewNop())
	seedCompanies(t, repo, 1)

	got, err := repo.GetByCompanyID(context.Background(), 99)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing company, got %+v", got)
	}

	got, err = repo.GetByCompanyID(context.Background(), 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.CompanyID != 1 {
		t.Fatalf("expected company 1, got %+v", got)
	}
}

func TestCompanyRepoUpsertIsIdempotent(t *testing.T) {
	repo := NewCompanyRepo(openTestDB(t), logger.NewNop())

	first := &types.Company{CompanyID: 7, Name: "Before", Country: "Sweden"}
	if err := repo.Upsert(context.Background(), []*types.Company{first}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	second := &types.Company{CompanyID: 7, Name: "After", Country: "Sweden"}
	if err := repo.Upsert(context.Background(), []*types.Company{second}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	all, err := repo.ListAfter(context.Background(), 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected one row after repeated upsert, got %d", len(all))
	}
	if all[0].Name != "After" {
		t.Fatalf("upsert must update in place, got %q", all[0].Name)
	}
}
