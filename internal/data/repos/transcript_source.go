package repos

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gorm.io/gorm"

	types "github.com/yungbote/transcriptgraph/internal/domain"
	"github.com/yungbote/transcriptgraph/internal/platform/logger"
)

// TranscriptSource is the upstream extraction query: one call per company,
// one row per (event, component). The query ranks join fan-out duplicates
// per (keydevid, componentorder) and keeps rank 1; the Extractor re-verifies
// both dedups after the fact.
type TranscriptSource interface {
	FetchComponents(ctx context.Context, companyID int64, since time.Time) ([]types.ComponentRow, error)
}

const rankedComponentsQuery = `
WITH company_subset AS (
    SELECT transcriptid, keydevid, companyid
    FROM ciq_transcripts.wrds_transcript_detail
    WHERE companyid = ?
      AND mostimportantdateutc >= ?
),
ranked AS (
    SELECT
        w.companyid,
        w.keydevid,
        w.transcriptid,
        c.componentorder,
        c.transcriptcomponentid AS componentid,
        c.transcriptpersonid    AS speakerid,
        p.transcriptpersonname  AS speakername,
        p.speakertypename       AS speakertype,
        c.componenttext,
        ROW_NUMBER() OVER (
            PARTITION BY w.keydevid, c.componentorder
            ORDER BY w.transcriptid DESC
        ) AS rn
    FROM company_subset w
    JOIN ciq_transcripts.ciqtranscript t
      ON w.transcriptid = t.transcriptid
    JOIN ciq_transcripts.ciqtranscriptcomponent c
      ON t.transcriptid = c.transcriptid
    JOIN ciq_transcripts.wrds_transcript_person p
      ON c.transcriptcomponentid = p.transcriptcomponentid
)
SELECT companyid, keydevid, transcriptid, componentid, componentorder,
       componenttext, speakerid, speakername, speakertype
FROM ranked
WHERE rn = 1
ORDER BY keydevid ASC, componentid ASC, componentorder ASC
`

type componentScan struct {
	CompanyID      int64          `gorm:"column:companyid"`
	KeyDevID       int64          `gorm:"column:keydevid"`
	TranscriptID   int64          `gorm:"column:transcriptid"`
	ComponentID    int64          `gorm:"column:componentid"`
	ComponentOrder int64          `gorm:"column:componentorder"`
	ComponentText  string         `gorm:"column:componenttext"`
	SpeakerID      sql.NullInt64  `gorm:"column:speakerid"`
	SpeakerName    sql.NullString `gorm:"column:speakername"`
	SpeakerType    sql.NullString `gorm:"column:speakertype"`
}

type transcriptSource struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTranscriptSource(db *gorm.DB, baseLog *logger.Logger) TranscriptSource {
	return &transcriptSource{db: db, log: baseLog.With("repo", "TranscriptSource")}
}

func (s *transcriptSource) FetchComponents(ctx context.Context, companyID int64, since time.Time) ([]types.ComponentRow, error) {
	var scans []componentScan
	if err := s.db.WithContext(ctx).
		Raw(rankedComponentsQuery, companyID, since.UTC().Format("2006-01-02")).
		Scan(&scans).Error; err != nil {
		return nil, fmt.Errorf("fetch components for company %d: %w", companyID, err)
	}

	rows := make([]types.ComponentRow, 0, len(scans))
	for _, sc := range scans {
		row := types.ComponentRow{
			CompanyID:    sc.CompanyID,
			EventID:      sc.KeyDevID,
			TranscriptID: sc.TranscriptID,
			ComponentID:  sc.ComponentID,
			Order:        sc.ComponentOrder,
			Text:         sc.ComponentText,
		}
		if sc.SpeakerID.Valid {
			id := sc.SpeakerID.Int64
			row.SpeakerID = &id
		}
		if sc.SpeakerName.Valid {
			row.SpeakerName = sc.SpeakerName.String
		}
		if sc.SpeakerType.Valid {
			row.SpeakerCategory = sc.SpeakerType.String
		}
		rows = append(rows, row)
	}
	return rows, nil
}
