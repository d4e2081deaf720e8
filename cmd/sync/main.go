package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/yungbote/transcriptgraph/internal/data/db"
	"github.com/yungbote/transcriptgraph/internal/data/graph"
	"github.com/yungbote/transcriptgraph/internal/data/repos"
	"github.com/yungbote/transcriptgraph/internal/platform/logger"
	"github.com/yungbote/transcriptgraph/internal/platform/neo4jdb"
	"github.com/yungbote/transcriptgraph/internal/sync"
)

func main() {
	mode := flag.String("mode", "forward", "run mode: forward | replay | bootstrap")
	cursorFlag := flag.Int64("cursor", -1, "override the forward-pass cursor (companyid lower bound)")
	flag.Parse()

	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg := sync.LoadConfig(log)
	since, err := cfg.Since()
	if err != nil {
		log.Fatal("invalid sync config", "error", err)
	}

	ctx := context.Background()

	// Local metadata store (company/event worklist).
	localPG, err := db.NewPostgresService(log, "POSTGRES")
	if err != nil {
		log.Fatal("local Postgres init failed", "error", err)
	}
	defer localPG.Close()
	if err := db.AutoMigrateAll(localPG.DB()); err != nil {
		log.Warn("local Postgres auto migration failed", "error", err)
	}

	// Graph store.
	neoClient, err := neo4jdb.NewFromEnv(log)
	if err != nil {
		log.Fatal("Neo4j init failed", "error", err)
	}
	defer neoClient.Close(ctx)

	companyRepo := repos.NewCompanyRepo(localPG.DB(), log)
	eventRepo := repos.NewEventRepo(localPG.DB(), log)
	exec := graph.NewSessionExecutor(neoClient, log)

	graph.EnsureSchema(ctx, neoClient, log)

	if *mode == "bootstrap" {
		runBootstrap(ctx, log, cfg, companyRepo, eventRepo, exec)
		return
	}

	// Upstream transcript source (read-only).
	upstreamPG, err := db.NewPostgresService(log, "UPSTREAM")
	if err != nil {
		log.Fatal("upstream Postgres init failed", "error", err)
	}
	defer upstreamPG.Close()

	source := repos.NewTranscriptSource(upstreamPG.DB(), log)
	extractor := sync.NewExtractor(source, since, log)
	transformer := sync.NewTransformer(log)
	staging := sync.NewStore(cfg.StagingDir, log)
	loader := sync.NewLoader(exec, cfg.ChunkSize, log)
	checkpoint := sync.NewCheckpoint(cfg.CursorPath, cfg.LedgerPath, log)

	driver := sync.NewDriver(companyRepo, extractor, transformer, staging, loader, checkpoint, log)

	switch *mode {
	case "forward":
		cursor := *cursorFlag
		if cursor < 0 {
			cursor, err = checkpoint.Cursor()
			if err != nil {
				log.Fatal("read cursor", "error", err)
			}
		}
		if _, err := driver.RunForward(ctx, cursor); err != nil {
			log.Fatal("forward pass aborted", "error", err)
		}
	case "replay":
		if _, err := driver.RunReplay(ctx); err != nil {
			log.Fatal("replay pass aborted", "error", err)
		}
	default:
		log.Fatal("unknown mode", "mode", *mode)
	}
}

func runBootstrap(
	ctx context.Context,
	log *logger.Logger,
	cfg sync.Config,
	companyRepo repos.CompanyRepo,
	eventRepo repos.EventRepo,
	exec graph.Executor,
) {
	companies, err := companyRepo.ListAfter(ctx, 0)
	if err != nil {
		log.Fatal("list companies", "error", err)
	}
	events, err := eventRepo.ListAll(ctx)
	if err != nil {
		log.Fatal("list events", "error", err)
	}
	if err := graph.SyncEntities(ctx, exec, log, companies, events, cfg.ChunkSize); err != nil {
		log.Fatal("entity bootstrap failed", "error", err)
	}
	log.Info("entity bootstrap finished", "companies", len(companies), "events", len(events))
}
