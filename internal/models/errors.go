package models

import (
	"errors"
	"fmt"
)

// ErrUnknownTeam is returned when a query names a team that is not tracked
var ErrUnknownTeam = errors.New("unknown team")

// MalformedRecordError describes a single match document that could not be
// normalized. The document is skipped; processing continues.
type MalformedRecordError struct {
	Index   int    `json:"index"`
	MatchID string `json:"match_id,omitempty"`
	Reason  string `json:"reason"`
}

func (e *MalformedRecordError) Error() string {
	if e.MatchID != "" {
		return fmt.Sprintf("malformed match document %d (%s): %s", e.Index, e.MatchID, e.Reason)
	}
	return fmt.Sprintf("malformed match document %d: %s", e.Index, e.Reason)
}

// DataShapeError reports input whose shape is wrong. Index is the position of
// the offending item, or -1 when the input as a whole is not a sequence of
// documents.
type DataShapeError struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

func (e *DataShapeError) Error() string {
	if e.Index < 0 {
		return "data shape: " + e.Reason
	}
	return fmt.Sprintf("data shape: item %d: %s", e.Index, e.Reason)
}
