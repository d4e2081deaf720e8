package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/yungbote/transcriptgraph/internal/platform/logger"
	"github.com/yungbote/transcriptgraph/internal/platform/neo4jdb"
)

var schemaStatements = []string{
	`CREATE CONSTRAINT company_companyid_unique IF NOT EXISTS FOR (c:Company) REQUIRE c.companyid IS UNIQUE`,
	`CREATE CONSTRAINT ecc_keydevid_unique IF NOT EXISTS FOR (e:ECC) REQUIRE e.keydevid IS UNIQUE`,
	`CREATE CONSTRAINT participant_speakerid_unique IF NOT EXISTS FOR (p:Participant) REQUIRE p.speakerid IS UNIQUE`,
	`CREATE CONSTRAINT statement_componentid_unique IF NOT EXISTS FOR (s:Statement) REQUIRE s.componentid IS UNIQUE`,
	`CREATE INDEX country_name_idx IF NOT EXISTS FOR (c:Country) ON (c.name)`,
	`CREATE INDEX industry_name_idx IF NOT EXISTS FOR (i:Industry) ON (i.name)`,
}

// EnsureSchema creates the uniqueness constraints and lookup indexes the
// merge statements rely on. Best-effort: restricted users may not be allowed
// to touch schema, so failures are logged and skipped.
func EnsureSchema(ctx context.Context, client *neo4jdb.Client, log *logger.Logger) {
	session := client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: client.Database,
	})
	defer session.Close(ctx)

	for _, stmt := range schemaStatements {
		res, err := session.Run(ctx, stmt, nil)
		if err != nil {
			log.Warn("graph schema init failed (continuing)", "statement", stmt, "error", err)
			continue
		}
		_, _ = res.Consume(ctx)
	}
}
