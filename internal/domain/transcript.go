package domain

import (
	"time"

	"github.com/google/uuid"
)

// ComponentRow is one raw transcript statement as returned by the upstream
// extraction query: one row per (event, component), speaker fields nullable
// because operator statements carry no attributable person.
type ComponentRow struct {
	CompanyID       int64  `json:"companyid"`
	EventID         int64  `json:"keydevid"`
	TranscriptID    int64  `json:"transcriptid"`
	ComponentID     int64  `json:"componentid"`
	Order           int64  `json:"componentorder"`
	Text            string `json:"componenttext"`
	SpeakerID       *int64 `json:"speakerid,omitempty"`
	SpeakerName     string `json:"speakername,omitempty"`
	SpeakerCategory string `json:"speakertype,omitempty"`
}

// Participation records that one speaker spoke at one event. The pair
// (SpeakerID, EventID) is the dedup key; many statements by the same speaker
// in the same event collapse to a single Participation.
type Participation struct {
	SpeakerID       int64  `json:"speakerid"`
	SpeakerName     string `json:"speakername"`
	SpeakerCategory string `json:"speakertype"`
	EventID         int64  `json:"keydevid"`
}

// Batch is the typed intermediate handed from the Transformer to the Loader.
// Participants is Participations deduplicated further by SpeakerID, so the
// containment Participants ⊆ Participations ⊆ Components holds by construction.
type Batch struct {
	CompanyID      int64           `json:"companyid"`
	RunID          uuid.UUID       `json:"run_id"`
	ExtractedAt    time.Time       `json:"extracted_at"`
	Components     []ComponentRow  `json:"components"`
	Participations []Participation `json:"participations"`
	Participants   []Participation `json:"participants"`
}
