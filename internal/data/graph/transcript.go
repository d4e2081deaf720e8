package graph

import (
	types "github.com/yungbote/transcriptgraph/internal/domain"
)

// Batch statements for the per-company transcript load. Node merges key on
// the corpus-wide unique identifier; edge merges match both endpoints first,
// so nodes must be written before edges.

const UpsertParticipantsCypher = `
UNWIND $rows AS row
MERGE (p:Participant {speakerid: toInteger(row.speakerid)})
SET p.name = row.speakername,
    p.category = row.speakertype
`

const UpsertStatementsCypher = `
UNWIND $rows AS row
MERGE (s:Statement {componentid: toInteger(row.componentid)})
SET s.text = row.componenttext,
    s.name = row.speakername,
    s.order = toInteger(row.componentorder)
`

const MergeParticipationEdgesCypher = `
UNWIND $rows AS row
MATCH (e:ECC {keydevid: toInteger(row.keydevid)})
MATCH (p:Participant {speakerid: toInteger(row.speakerid)})
MERGE (p)-[:PARTICIPATED_IN]->(e)
`

const MergeStatementEdgesCypher = `
UNWIND $rows AS row
MATCH (e:ECC {keydevid: toInteger(row.keydevid)})
MATCH (s:Statement {componentid: toInteger(row.componentid)})
MERGE (s)-[:WAS_GIVEN_AT]->(e)
`

func ParticipantRows(participants []types.Participation) []map[string]any {
	rows := make([]map[string]any, 0, len(participants))
	for _, p := range participants {
		rows = append(rows, map[string]any{
			"speakerid":   p.SpeakerID,
			"speakername": p.SpeakerName,
			"speakertype": p.SpeakerCategory,
		})
	}
	return rows
}

func StatementRows(components []types.ComponentRow) []map[string]any {
	rows := make([]map[string]any, 0, len(components))
	for _, c := range components {
		rows = append(rows, map[string]any{
			"componentid":    c.ComponentID,
			"componenttext":  c.Text,
			"speakername":    c.SpeakerName,
			"componentorder": c.Order,
		})
	}
	return rows
}

func ParticipationEdgeRows(participations []types.Participation) []map[string]any {
	rows := make([]map[string]any, 0, len(participations))
	for _, p := range participations {
		rows = append(rows, map[string]any{
			"speakerid": p.SpeakerID,
			"keydevid":  p.EventID,
		})
	}
	return rows
}

func StatementEdgeRows(components []types.ComponentRow) []map[string]any {
	rows := make([]map[string]any, 0, len(components))
	for _, c := range components {
		rows = append(rows, map[string]any{
			"componentid": c.ComponentID,
			"keydevid":    c.EventID,
		})
	}
	return rows
}
