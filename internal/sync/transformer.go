package sync

import (
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/transcriptgraph/internal/domain"
	"github.com/yungbote/transcriptgraph/internal/platform/logger"
)

// Transformer derives the three record sets from the extracted rows.
// Each set is built from the previous one, so the containment
// Participants ⊆ Participations ⊆ Components holds by construction and is
// never assembled independently.
type Transformer struct {
	log *logger.Logger
}

func NewTransformer(baseLog *logger.Logger) *Transformer {
	return &Transformer{log: baseLog.With("component", "Transformer")}
}

func (t *Transformer) Transform(companyID int64, rows []types.ComponentRow) *types.Batch {
	batch := &types.Batch{
		CompanyID:   companyID,
		RunID:       uuid.New(),
		ExtractedAt: time.Now().UTC(),
		Components:  rows,
	}

	type pair struct {
		speakerID int64
		eventID   int64
	}
	seenPair := make(map[pair]bool)
	for _, row := range rows {
		// Rows without an attributable speaker never become participations.
		if row.SpeakerID == nil || row.SpeakerName == "" || row.SpeakerCategory == "" {
			continue
		}
		key := pair{speakerID: *row.SpeakerID, eventID: row.EventID}
		if seenPair[key] {
			continue
		}
		seenPair[key] = true
		batch.Participations = append(batch.Participations, types.Participation{
			SpeakerID:       *row.SpeakerID,
			SpeakerName:     row.SpeakerName,
			SpeakerCategory: row.SpeakerCategory,
			EventID:         row.EventID,
		})
	}

	seenSpeaker := make(map[int64]bool, len(batch.Participations))
	for _, p := range batch.Participations {
		if seenSpeaker[p.SpeakerID] {
			continue
		}
		seenSpeaker[p.SpeakerID] = true
		batch.Participants = append(batch.Participants, p)
	}

	t.log.Debug("transformed batch",
		"companyid", companyID,
		"components", len(batch.Components),
		"participations", len(batch.Participations),
		"participants", len(batch.Participants),
	)
	return batch
}
