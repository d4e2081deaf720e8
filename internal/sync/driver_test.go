package sync

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j/db"

	types "github.com/yungbote/transcriptgraph/internal/domain"
	"github.com/yungbote/transcriptgraph/internal/platform/logger"
)

type fakeCompanyRepo struct {
	companies []*types.Company
}

func (f *fakeCompanyRepo) ListAfter(ctx context.Context, companyID int64) ([]*types.Company, error) {
	var out []*types.Company
	for _, c := range f.companies {
		if c.CompanyID > companyID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCompanyRepo) GetByCompanyID(ctx context.Context, companyID int64) (*types.Company, error) {
	for _, c := range f.companies {
		if c.CompanyID == companyID {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeCompanyRepo) Upsert(ctx context.Context, rows []*types.Company) error { return nil }

// five companies; company i owns event 100+i with two statements.
func fiveCompanyFixture() (*fakeCompanyRepo, *fakeSource) {
	repo := &fakeCompanyRepo{}
	src := &fakeSource{rows: map[int64][]types.ComponentRow{}}
	for i := int64(1); i <= 5; i++ {
		repo.companies = append(repo.companies, &types.Company{
			CompanyID: i,
			Name:      "Company",
		})
		eventID := 100 + i
		src.rows[i] = []types.ComponentRow{
			row(eventID, 9, eventID*10, 1, speaker(i)),
			row(eventID, 9, eventID*10+1, 2, speaker(i)),
		}
	}
	return repo, src
}

func newTestDriver(t *testing.T, repo *fakeCompanyRepo, src *fakeSource, exec *fakeExecutor) (*Driver, *Checkpoint) {
	t.Helper()
	dir := t.TempDir()
	log := logger.NewNop()
	checkpoint := NewCheckpoint(
		filepath.Join(dir, "cursor.txt"),
		filepath.Join(dir, "ledger.txt"),
		log,
	)
	since := time.Date(2014, 1, 1, 0, 0, 0, 0, time.UTC)
	driver := NewDriver(
		repo,
		NewExtractor(src, since, log),
		NewTransformer(log),
		NewStore(filepath.Join(dir, "staging"), log),
		NewLoader(exec, 2000, log),
		checkpoint,
		log,
	)
	return driver, checkpoint
}

// failOnEvent makes the executor raise a store fault whenever a batch row
// references the given event.
func failOnEvent(exec *fakeExecutor, eventID int64) {
	storeErr := &db.Neo4jError{Code: "Neo.TransientError.General.DatabaseUnavailable", Msg: "down"}
	exec.failIf = func(query string, call int) error {
		for _, c := range exec.calls[len(exec.calls)-1].rows {
			if id, ok := c["keydevid"].(int64); ok && id == eventID {
				return storeErr
			}
		}
		return nil
	}
}

func TestForwardPassIsolatesOneFailingCompany(t *testing.T) {
	repo, src := fiveCompanyFixture()
	exec := &fakeExecutor{state: newGraphState()}
	failOnEvent(exec, 103) // company 3's event
	driver, checkpoint := newTestDriver(t, repo, src, exec)

	summary, err := driver.RunForward(context.Background(), 0)
	if err != nil {
		t.Fatalf("forward pass: %v", err)
	}
	if summary.Processed != 5 || summary.Succeeded != 4 || summary.Failed != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	ids, err := checkpoint.FailedIDs()
	if err != nil {
		t.Fatalf("failed ids: %v", err)
	}
	if len(ids) != 1 || ids[0] != 3 {
		t.Fatalf("ledger must contain only company 3, got %v", ids)
	}

	cursor, err := checkpoint.Cursor()
	if err != nil {
		t.Fatalf("cursor: %v", err)
	}
	if cursor != 5 {
		t.Fatalf("cursor must advance to 5, got %d", cursor)
	}

	// Companies 1,2,4,5 made it into the graph.
	for _, id := range []int64{101, 102, 104, 105} {
		if !exec.state.statementEdges[[2]int64{id * 10, id}] {
			t.Fatalf("missing statement edge for event %d", id)
		}
	}
}

func TestForwardPassSkipsNoDataCompanies(t *testing.T) {
	repo, src := fiveCompanyFixture()
	delete(src.rows, 2)
	exec := &fakeExecutor{state: newGraphState()}
	driver, checkpoint := newTestDriver(t, repo, src, exec)

	summary, err := driver.RunForward(context.Background(), 0)
	if err != nil {
		t.Fatalf("forward pass: %v", err)
	}
	if summary.Skipped != 1 || summary.Failed != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	ids, err := checkpoint.FailedIDs()
	if err != nil {
		t.Fatalf("failed ids: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("no-data skip must not reach the ledger, got %v", ids)
	}
}

func TestForwardPassRespectsCursor(t *testing.T) {
	repo, src := fiveCompanyFixture()
	exec := &fakeExecutor{state: newGraphState()}
	driver, _ := newTestDriver(t, repo, src, exec)

	summary, err := driver.RunForward(context.Background(), 3)
	if err != nil {
		t.Fatalf("forward pass: %v", err)
	}
	if summary.Processed != 2 {
		t.Fatalf("expected companies 4 and 5 only, got %+v", summary)
	}
}

func TestReplayResolvesWithoutRewritingLedger(t *testing.T) {
	repo, src := fiveCompanyFixture()
	exec := &fakeExecutor{state: newGraphState()}
	driver, checkpoint := newTestDriver(t, repo, src, exec)

	if err := checkpoint.RecordFailure(3); err != nil {
		t.Fatalf("seed ledger: %v", err)
	}

	summary, err := driver.RunReplay(context.Background())
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if summary.Processed != 1 || summary.Succeeded != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	ids, err := checkpoint.FailedIDs()
	if err != nil {
		t.Fatalf("failed ids: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("resolved company must not be replayed again, got %v", ids)
	}

	raw, err := os.ReadFile(checkpoint.ledgerPath)
	if err != nil {
		t.Fatalf("read ledger: %v", err)
	}
	if string(raw) != "3\n" {
		t.Fatalf("ledger history must survive replay: %q", raw)
	}

	if !exec.state.statementEdges[[2]int64{1030, 103}] {
		t.Fatalf("replayed company must land in the graph")
	}
}

func TestReplayLeavesStillFailingCompaniesUnresolved(t *testing.T) {
	repo, src := fiveCompanyFixture()
	exec := &fakeExecutor{state: newGraphState()}
	failOnEvent(exec, 103)
	driver, checkpoint := newTestDriver(t, repo, src, exec)

	if err := checkpoint.RecordFailure(3); err != nil {
		t.Fatalf("seed ledger: %v", err)
	}
	summary, err := driver.RunReplay(context.Background())
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if summary.Failed != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	ids, err := checkpoint.FailedIDs()
	if err != nil {
		t.Fatalf("failed ids: %v", err)
	}
	if len(ids) != 1 || ids[0] != 3 {
		t.Fatalf("still-failing company must remain, got %v", ids)
	}
}

func TestReplayIgnoresLedgerEntriesWithoutCompanyRow(t *testing.T) {
	repo, src := fiveCompanyFixture()
	exec := &fakeExecutor{state: newGraphState()}
	driver, checkpoint := newTestDriver(t, repo, src, exec)

	if err := checkpoint.RecordFailure(99); err != nil {
		t.Fatalf("seed ledger: %v", err)
	}
	summary, err := driver.RunReplay(context.Background())
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if summary.Processed != 0 {
		t.Fatalf("unknown company must be skipped, got %+v", summary)
	}
	ids, _ := checkpoint.FailedIDs()
	if len(ids) != 1 {
		t.Fatalf("unknown company stays in ledger for operators, got %v", ids)
	}
}
