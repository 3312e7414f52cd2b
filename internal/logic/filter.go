package logic

import (
	"github.com/scrimlab/scrim-stats/internal/models"
)

// FilterMatches normalizes match documents into one record per tracked team
// appearance. Entries whose roster is not tracked are dropped silently.
// Malformed documents are skipped whole and reported in the result; the
// function never fails and keeps input order.
func FilterMatches(docs []models.RawMatch, teams models.TrackedTeams) models.FilterResult {
	result := models.FilterResult{
		Records: make([]models.NormalizedGameRecord, 0, len(docs)),
	}

	for i, raw := range docs {
		doc, err := models.ParseMatchDocument(raw)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, &models.MalformedRecordError{
				Index:   i,
				MatchID: raw.MatchID(),
				Reason:  err.Error(),
			})
			continue
		}

		for _, entry := range doc.Teams {
			name, ok := teams.TeamFor(entry.RosterID)
			if !ok {
				continue
			}
			result.Records = append(result.Records, models.NormalizedGameRecord{
				TeamName:  name,
				Timestamp: doc.Timestamp,
				Side:      entry.Side,
				Won:       entry.Win,
			})
		}
	}

	return result
}

// RecordsForTeam keeps the records of a single team. An empty name keeps all.
func RecordsForTeam(records []models.NormalizedGameRecord, team string) []models.NormalizedGameRecord {
	if team == "" {
		return records
	}
	out := make([]models.NormalizedGameRecord, 0, len(records))
	for _, r := range records {
		if r.TeamName == team {
			out = append(out, r)
		}
	}
	return out
}
