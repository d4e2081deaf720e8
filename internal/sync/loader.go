package sync

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/transcriptgraph/internal/data/graph"
	types "github.com/yungbote/transcriptgraph/internal/domain"
	"github.com/yungbote/transcriptgraph/internal/platform/logger"
)

type LoadStats struct {
	ParticipantNodes   int
	StatementNodes     int
	ParticipationEdges int
	StatementEdges     int
}

// Loader applies one staged batch to the graph in four ordered operations:
// participant nodes, statement nodes, participation edges, statement edges.
// Node upserts fully precede edge merges so edges never race their
// endpoints. Each chunk commits independently; a failed chunk leaves prior
// chunks in place (at-least-once, safe because every write is a merge).
type Loader struct {
	exec      graph.Executor
	chunkSize int
	log       *logger.Logger
}

func NewLoader(exec graph.Executor, chunkSize int, baseLog *logger.Logger) *Loader {
	if chunkSize <= 0 {
		chunkSize = 2000
	}
	return &Loader{
		exec:      exec,
		chunkSize: chunkSize,
		log:       baseLog.With("component", "Loader"),
	}
}

func (l *Loader) Load(ctx context.Context, batch *types.Batch) (LoadStats, error) {
	ops := []struct {
		name  string
		query string
		rows  []map[string]any
	}{
		{"participant_nodes", graph.UpsertParticipantsCypher, graph.ParticipantRows(batch.Participants)},
		{"statement_nodes", graph.UpsertStatementsCypher, graph.StatementRows(batch.Components)},
		{"participation_edges", graph.MergeParticipationEdgesCypher, graph.ParticipationEdgeRows(batch.Participations)},
		{"statement_edges", graph.MergeStatementEdgesCypher, graph.StatementEdgeRows(batch.Components)},
	}
	var stats LoadStats
	counts := []*int{&stats.ParticipantNodes, &stats.StatementNodes, &stats.ParticipationEdges, &stats.StatementEdges}

	var failed []string
	for i, op := range ops {
		log := l.log.With("companyid", batch.CompanyID, "operation", op.name)
		for _, chunk := range graph.ChunkRows(op.rows, l.chunkSize) {
			err := l.exec.ExecuteBatch(ctx, op.query, chunk)
			if err == nil {
				*counts[i] += len(chunk)
				continue
			}
			kind, code := graph.Classify(err)
			switch kind {
			case graph.KindConstraint:
				// Chunk abandoned, operation continues.
				log.Warn("constraint violation, chunk abandoned", "code", code, "rows", len(chunk), "error", err)
				continue
			case graph.KindStore:
				log.Error("graph store error, operation abandoned", "code", code, "error", err)
			default:
				log.Error("load error, operation abandoned", "error", err)
			}
			failed = append(failed, op.name)
			break
		}
		log.Info("operation applied", "rows", *counts[i], "of", len(op.rows))
	}

	if len(failed) > 0 {
		return stats, fmt.Errorf("load company %d: failed operations: %s", batch.CompanyID, strings.Join(failed, ", "))
	}
	return stats, nil
}
