package graph

import (
	"context"
	"fmt"
	"time"

	types "github.com/yungbote/transcriptgraph/internal/domain"
	"github.com/yungbote/transcriptgraph/internal/platform/logger"
)

// Entity bootstrap: mirrors the relational company/event tables into the
// graph before any transcript pass runs. Transcript edge merges MATCH on
// Company and ECC nodes, so this must complete first.

const upsertCompaniesCypher = `
UNWIND $rows AS row
MERGE (c:Company {companyid: toInteger(row.companyid)})
SET c.name = row.companyname,
    c.symbol = row.symbol
`

const upsertNamedNodesCypherTmpl = `
UNWIND $rows AS row
MERGE (:%s {name: row.name})
`

const mergeCountryEdgesCypher = `
UNWIND $rows AS row
MATCH (c:Company {companyid: toInteger(row.companyid)})
MATCH (n:Country {name: row.name})
MERGE (c)-[:IN_COUNTRY]->(n)
`

const mergeIndustryEdgesCypher = `
UNWIND $rows AS row
MATCH (c:Company {companyid: toInteger(row.companyid)})
MATCH (n:Industry {name: row.name})
MERGE (c)-[:IN_INDUSTRY]->(n)
`

const upsertEventsCypher = `
UNWIND $rows AS row
MERGE (e:ECC {keydevid: toInteger(row.keydevid)})
SET e.title = row.title,
    e.time = row.time,
    e.quarter = toInteger(row.quarter),
    e.year = toInteger(row.year),
    e.symbol = row.symbol
`

const mergeArrangedEdgesCypher = `
UNWIND $rows AS row
MATCH (c:Company {companyid: toInteger(row.companyid)})
MATCH (e:ECC {keydevid: toInteger(row.keydevid)})
MERGE (c)-[:ARRANGED]->(e)
`

func SyncEntities(ctx context.Context, exec Executor, log *logger.Logger, companies []*types.Company, events []*types.Event, chunkSize int) error {
	companyRows := make([]map[string]any, 0, len(companies))
	countrySeen := map[string]bool{}
	industrySeen := map[string]bool{}
	var countryNodes, industryNodes []map[string]any
	var countryEdges, industryEdges []map[string]any
	symbolByCompany := make(map[int64]string, len(companies))

	for _, c := range companies {
		if c == nil {
			continue
		}
		symbolByCompany[c.CompanyID] = c.Symbol
		companyRows = append(companyRows, map[string]any{
			"companyid":   c.CompanyID,
			"companyname": c.Name,
			"symbol":      c.Symbol,
		})
		if c.Country != "" {
			if !countrySeen[c.Country] {
				countrySeen[c.Country] = true
				countryNodes = append(countryNodes, map[string]any{"name": c.Country})
			}
			countryEdges = append(countryEdges, map[string]any{"companyid": c.CompanyID, "name": c.Country})
		}
		if c.Industry != "" {
			if !industrySeen[c.Industry] {
				industrySeen[c.Industry] = true
				industryNodes = append(industryNodes, map[string]any{"name": c.Industry})
			}
			industryEdges = append(industryEdges, map[string]any{"companyid": c.CompanyID, "name": c.Industry})
		}
	}

	eventRows := make([]map[string]any, 0, len(events))
	arrangedRows := make([]map[string]any, 0, len(events))
	for _, e := range events {
		if e == nil {
			continue
		}
		eventRows = append(eventRows, map[string]any{
			"keydevid": e.EventID,
			"title":    e.Title,
			"time":     e.Time.UTC().Format(time.RFC3339Nano),
			"quarter":  e.Quarter,
			"year":     e.Year,
			"symbol":   symbolByCompany[e.CompanyID],
		})
		arrangedRows = append(arrangedRows, map[string]any{
			"companyid": e.CompanyID,
			"keydevid":  e.EventID,
		})
	}

	steps := []struct {
		name  string
		query string
		rows  []map[string]any
	}{
		{"company nodes", upsertCompaniesCypher, companyRows},
		{"country nodes", fmt.Sprintf(upsertNamedNodesCypherTmpl, "Country"), countryNodes},
		{"industry nodes", fmt.Sprintf(upsertNamedNodesCypherTmpl, "Industry"), industryNodes},
		{"country edges", mergeCountryEdgesCypher, countryEdges},
		{"industry edges", mergeIndustryEdgesCypher, industryEdges},
		{"event nodes", upsertEventsCypher, eventRows},
		{"arranged edges", mergeArrangedEdgesCypher, arrangedRows},
	}

	for _, step := range steps {
		for _, chunk := range ChunkRows(step.rows, chunkSize) {
			if err := exec.ExecuteBatch(ctx, step.query, chunk); err != nil {
				kind, code := Classify(err)
				log.Error("entity sync step failed", "step", step.name, "kind", kind.String(), "code", code, "error", err)
				return fmt.Errorf("entity sync %s: %w", step.name, err)
			}
		}
		log.Info("entity sync step done", "step", step.name, "rows", len(step.rows))
	}
	return nil
}
