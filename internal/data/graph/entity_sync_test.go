package graph

import (
	"context"
	"fmt"
	"testing"
	"time"

	types "github.com/yungbote/transcriptgraph/internal/domain"
	"github.com/yungbote/transcriptgraph/internal/platform/logger"
)

type recordingExecutor struct {
	queries []string
	rows    [][]map[string]any
}

func (r *recordingExecutor) ExecuteBatch(ctx context.Context, query string, rows []map[string]any) error {
	r.queries = append(r.queries, query)
	r.rows = append(r.rows, rows)
	return nil
}

func TestSyncEntitiesOrdersNodesBeforeEdges(t *testing.T) {
	exec := &recordingExecutor{}
	companies := []*types.Company{
		{CompanyID: 1, Name: "Acme", Symbol: "ACM", Country: "Sweden", Industry: "Mining"},
		{CompanyID: 2, Name: "Globex", Symbol: "GLX", Country: "Sweden", Industry: "Software"},
	}
	ev := &types.Event{EventID: 10, CompanyID: 1, Title: "Q1 call"}
	ev.SetTimeUTC(time.Date(2020, 5, 4, 13, 0, 0, 0, time.UTC))
	events := []*types.Event{ev}

	if err := SyncEntities(context.Background(), exec, logger.NewNop(), companies, events, 1000); err != nil {
		t.Fatalf("sync entities: %v", err)
	}

	idx := map[string]int{}
	for i, q := range exec.queries {
		if _, ok := idx[q]; !ok {
			idx[q] = i
		}
	}
	if idx[mergeCountryEdgesCypher] < idx[upsertCompaniesCypher] {
		t.Fatalf("country edges before company nodes")
	}
	if idx[mergeArrangedEdgesCypher] < idx[upsertEventsCypher] {
		t.Fatalf("arranged edges before event nodes")
	}
}

func TestSyncEntitiesDedupsCountryAndIndustryNodes(t *testing.T) {
	exec := &recordingExecutor{}
	companies := []*types.Company{
		{CompanyID: 1, Name: "A", Country: "Sweden", Industry: "Mining"},
		{CompanyID: 2, Name: "B", Country: "Sweden", Industry: "Mining"},
		{CompanyID: 3, Name: "C", Country: "Norway", Industry: "Mining"},
	}
	if err := SyncEntities(context.Background(), exec, logger.NewNop(), companies, nil, 1000); err != nil {
		t.Fatalf("sync entities: %v", err)
	}

	countryCypher := fmt.Sprintf(upsertNamedNodesCypherTmpl, "Country")
	industryCypher := fmt.Sprintf(upsertNamedNodesCypherTmpl, "Industry")
	for i, q := range exec.queries {
		switch q {
		case countryCypher:
			if len(exec.rows[i]) != 2 {
				t.Fatalf("expected 2 country nodes, got %d", len(exec.rows[i]))
			}
		case industryCypher:
			if len(exec.rows[i]) != 1 {
				t.Fatalf("expected 1 industry node, got %d", len(exec.rows[i]))
			}
		}
	}
}

func TestSyncEntitiesCarriesCompanySymbolOntoEvents(t *testing.T) {
	exec := &recordingExecutor{}
	companies := []*types.Company{{CompanyID: 1, Name: "Acme", Symbol: "ACM"}}
	ev := &types.Event{EventID: 10, CompanyID: 1, Title: "Q1 call"}
	ev.SetTimeUTC(time.Date(2020, 2, 1, 9, 0, 0, 0, time.UTC))

	if err := SyncEntities(context.Background(), exec, logger.NewNop(), companies, []*types.Event{ev}, 1000); err != nil {
		t.Fatalf("sync entities: %v", err)
	}
	for i, q := range exec.queries {
		if q == upsertEventsCypher {
			got := exec.rows[i][0]
			if got["symbol"] != "ACM" {
				t.Fatalf("event row missing company symbol: %v", got)
			}
			if got["quarter"] != 1 || got["year"] != 2020 {
				t.Fatalf("derived period wrong: %v", got)
			}
		}
	}
}
