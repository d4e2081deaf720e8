package sync

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/yungbote/transcriptgraph/internal/data/repos"
	types "github.com/yungbote/transcriptgraph/internal/domain"
	"github.com/yungbote/transcriptgraph/internal/platform/logger"
)

// ErrNoData signals that the upstream query returned zero rows for a
// company. The driver treats this as a skip, never as a failure.
var ErrNoData = errors.New("no data returned")

// Extractor pulls the raw component rows for one company and owns the
// dedup-by-rank and duplicate-drop logic. The SQL already ranks and filters,
// but join fan-out upstream has produced surprises before, so both dedups
// are verified here after the fact.
type Extractor struct {
	source repos.TranscriptSource
	since  time.Time
	log    *logger.Logger
}

func NewExtractor(source repos.TranscriptSource, since time.Time, baseLog *logger.Logger) *Extractor {
	return &Extractor{
		source: source,
		since:  since,
		log:    baseLog.With("component", "Extractor"),
	}
}

// Extract returns the deduplicated rows for companyID ordered by
// (keydevid ASC, componentid ASC, componentorder ASC).
func (e *Extractor) Extract(ctx context.Context, companyID int64) ([]types.ComponentRow, error) {
	rows, err := e.source.FetchComponents(ctx, companyID, e.since)
	if err != nil {
		return nil, fmt.Errorf("extract company %d: %w", companyID, err)
	}
	if len(rows) == 0 {
		return nil, ErrNoData
	}

	ranked := keepTopRanked(rows)
	sortComponents(ranked)
	deduped := dropDuplicateComponents(ranked)
	if dropped := len(ranked) - len(deduped); dropped > 0 {
		e.log.Info("dropped duplicate transcript components", "companyid", companyID, "dropped", dropped)
	}
	return deduped, nil
}

// keepTopRanked keeps exactly one row per (keydevid, componentorder)
// partition, preferring the highest transcriptid, which is the most recent
// underlying transcript.
func keepTopRanked(rows []types.ComponentRow) []types.ComponentRow {
	type partition struct {
		eventID int64
		order   int64
	}
	best := make(map[partition]types.ComponentRow, len(rows))
	keys := make([]partition, 0, len(rows))
	for _, row := range rows {
		key := partition{eventID: row.EventID, order: row.Order}
		current, ok := best[key]
		if !ok {
			best[key] = row
			keys = append(keys, key)
			continue
		}
		if row.TranscriptID > current.TranscriptID {
			best[key] = row
		}
	}
	out := make([]types.ComponentRow, 0, len(keys))
	for _, key := range keys {
		out = append(out, best[key])
	}
	return out
}

// dropDuplicateComponents removes rows sharing a componentid, keeping the
// first in sorted order. Guards against non-unique ranking ties.
func dropDuplicateComponents(rows []types.ComponentRow) []types.ComponentRow {
	seen := make(map[int64]bool, len(rows))
	out := make([]types.ComponentRow, 0, len(rows))
	for _, row := range rows {
		if seen[row.ComponentID] {
			continue
		}
		seen[row.ComponentID] = true
		out = append(out, row)
	}
	return out
}

func sortComponents(rows []types.ComponentRow) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].EventID != rows[j].EventID {
			return rows[i].EventID < rows[j].EventID
		}
		if rows[i].ComponentID != rows[j].ComponentID {
			return rows[i].ComponentID < rows[j].ComponentID
		}
		return rows[i].Order < rows[j].Order
	})
}
