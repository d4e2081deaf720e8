package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/yungbote/transcriptgraph/internal/platform/logger"
	"github.com/yungbote/transcriptgraph/internal/platform/neo4jdb"
)

// Executor runs one parametrized batch statement against the graph store.
// The statement receives the rows as $rows; merge semantics make every call
// safe to repeat.
type Executor interface {
	ExecuteBatch(ctx context.Context, query string, rows []map[string]any) error
}

// SessionExecutor applies each batch in its own write session and managed
// transaction, so a failing chunk never rolls back chunks already committed.
type SessionExecutor struct {
	client *neo4jdb.Client
	log    *logger.Logger
}

func NewSessionExecutor(client *neo4jdb.Client, baseLog *logger.Logger) *SessionExecutor {
	return &SessionExecutor{client: client, log: baseLog.With("component", "SessionExecutor")}
}

func (e *SessionExecutor) ExecuteBatch(ctx context.Context, query string, rows []map[string]any) error {
	if len(rows) == 0 {
		return nil
	}
	session := e.client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: e.client.Database,
	})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, map[string]any{"rows": rows})
		if err != nil {
			return nil, err
		}
		if _, err := res.Consume(ctx); err != nil {
			return nil, err
		}
		return nil, nil
	})
	return err
}

// ChunkRows splits rows into fixed-size chunks. Large UNWIND payloads stall
// the server, so every bulk statement goes through this first.
func ChunkRows(rows []map[string]any, size int) [][]map[string]any {
	if size <= 0 {
		size = len(rows)
	}
	var out [][]map[string]any
	for start := 0; start < len(rows); start += size {
		end := start + size
		if end > len(rows) {
			end = len(rows)
		}
		out = append(out, rows[start:end])
	}
	return out
}
