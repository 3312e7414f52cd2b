package models

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Epoch values at or above this are milliseconds, below are seconds.
// 1e11 seconds is the year 5138; 1e11 milliseconds is March 1973.
const epochMillisThreshold = 1e11

// minValidUnixTimestamp is 2000-01-01 00:00:00 UTC in seconds. Smaller values
// are game-relative clocks, not wall time.
const minValidUnixTimestamp = 946684800

// Match times must fall in [2000-01-01, 2100-01-01) UTC.
var (
	minValidTime = time.Unix(minValidUnixTimestamp, 0).UTC()
	maxValidTime = time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC)
)

var timestampKeys = []string{"timestamp", "gameEndTimestamp", "gameCreation"}

// ParseMatchDocument coerces a loosely typed document into a MatchDocument.
// Export tools and the document stores disagree on value types, so strings,
// numbers and native dates are all accepted where the meaning is unambiguous.
func ParseMatchDocument(raw RawMatch) (MatchDocument, error) {
	if raw == nil {
		return MatchDocument{}, errors.New("document is null")
	}
	doc := MatchDocument{MatchID: raw.MatchID()}

	ts, err := matchTimestamp(raw)
	if err != nil {
		return doc, err
	}
	doc.Timestamp = ts

	rawTeams, ok := raw["teams"]
	if !ok || rawTeams == nil {
		return doc, errors.New("missing teams")
	}
	list, ok := rawTeams.([]any)
	if !ok {
		return doc, fmt.Errorf("teams is %T, want a list", rawTeams)
	}
	if len(list) != 2 {
		return doc, fmt.Errorf("teams has %d entries, want 2", len(list))
	}
	for i, item := range list {
		entry, err := parseTeamEntry(item)
		if err != nil {
			return doc, fmt.Errorf("teams[%d]: %w", i, err)
		}
		doc.Teams = append(doc.Teams, entry)
	}

	if err := validate.Struct(doc); err != nil {
		return doc, fmt.Errorf("validation: %w", err)
	}
	if doc.Teams[0].Side == doc.Teams[1].Side {
		return doc, fmt.Errorf("both teams on side %s", doc.Teams[0].Side)
	}
	if doc.Teams[0].Win == doc.Teams[1].Win {
		return doc, errors.New("win flags are not complementary")
	}
	return doc, nil
}

func parseTeamEntry(item any) (TeamEntry, error) {
	obj, ok := asObject(item)
	if !ok {
		return TeamEntry{}, fmt.Errorf("entry is %T, want an object", item)
	}

	var entry TeamEntry
	rawID, ok := firstPresent(obj, "teamId", "rosterId")
	if !ok {
		return entry, errors.New("missing roster id")
	}
	id, err := coerceString(rawID)
	if err != nil {
		return entry, fmt.Errorf("roster id: %w", err)
	}
	entry.RosterID = strings.TrimSpace(id)

	rawSide, ok := obj["side"]
	if !ok || rawSide == nil {
		return entry, errors.New("missing side")
	}
	if entry.Side, err = ParseSide(rawSide); err != nil {
		return entry, err
	}

	rawWin, ok := obj["win"]
	if !ok || rawWin == nil {
		return entry, errors.New("missing win flag")
	}
	if entry.Win, err = coerceWin(rawWin); err != nil {
		return entry, err
	}
	return entry, nil
}

// ParseSide accepts BLUE/RED in any case, or Riot's numeric team ids 100/200.
func ParseSide(v any) (Side, error) {
	switch val := v.(type) {
	case Side:
		if val.Valid() {
			return val, nil
		}
	case string:
		switch strings.ToUpper(strings.TrimSpace(val)) {
		case "BLUE", "100":
			return SideBlue, nil
		case "RED", "200":
			return SideRed, nil
		}
	default:
		if n, ok := asFloat(v); ok {
			switch n {
			case 100:
				return SideBlue, nil
			case 200:
				return SideRed, nil
			}
		}
	}
	return "", fmt.Errorf("unrecognized side %v", v)
}

func coerceWin(v any) (bool, error) {
	switch val := v.(type) {
	case bool:
		return val, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "win", "won", "1":
			return true, nil
		case "false", "fail", "loss", "lost", "0":
			return false, nil
		}
	default:
		if n, ok := asFloat(v); ok {
			switch n {
			case 1:
				return true, nil
			case 0:
				return false, nil
			}
		}
	}
	return false, fmt.Errorf("invalid win flag %v", v)
}

func matchTimestamp(raw RawMatch) (time.Time, error) {
	v, ok := firstPresent(raw, timestampKeys...)
	if !ok {
		return time.Time{}, errors.New("missing timestamp")
	}
	return ParseTimestamp(v)
}

// ParseTimestamp accepts a time.Time, an epoch number (seconds or
// milliseconds), a numeric string, or an RFC 3339 string. Times outside
// 2000 to 2100 are rejected.
func ParseTimestamp(v any) (time.Time, error) {
	t, err := parseTimestamp(v)
	if err != nil {
		return time.Time{}, err
	}
	if !InMatchTimeRange(t) {
		return time.Time{}, fmt.Errorf("timestamp %s is not a wall-clock match time", t.Format(time.RFC3339))
	}
	return t, nil
}

// InMatchTimeRange reports whether t can be a match time.
func InMatchTimeRange(t time.Time) bool {
	return !t.Before(minValidTime) && t.Before(maxValidTime)
}

func parseTimestamp(v any) (time.Time, error) {
	if t, ok := v.(time.Time); ok {
		if t.IsZero() {
			return time.Time{}, errors.New("zero timestamp")
		}
		return t.UTC(), nil
	}
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return t.UTC(), nil
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
		}
		return epochToTime(n)
	}
	if n, ok := asFloat(v); ok {
		return epochToTime(n)
	}
	return time.Time{}, fmt.Errorf("timestamp is %T", v)
}

func epochToTime(n float64) (time.Time, error) {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return time.Time{}, errors.New("timestamp is not finite")
	}
	if n < minValidUnixTimestamp {
		return time.Time{}, fmt.Errorf("timestamp %v is not a wall-clock epoch", n)
	}
	if n >= epochMillisThreshold {
		// keeps the int64 conversion in range; 1e14 ms is past the year 5000
		if n >= 1e14 {
			return time.Time{}, fmt.Errorf("timestamp %v is not a wall-clock epoch", n)
		}
		return time.UnixMilli(int64(n)).UTC(), nil
	}
	sec := int64(n)
	nsec := int64((n - float64(sec)) * 1e9)
	return time.Unix(sec, nsec).UTC(), nil
}

func coerceString(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case json.Number:
		return val.String(), nil
	case float64:
		if val == math.Trunc(val) {
			return strconv.FormatInt(int64(val), 10), nil
		}
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	}
	if n, ok := asInt(v); ok {
		return strconv.FormatInt(n, 10), nil
	}
	return "", fmt.Errorf("unsupported type %T", v)
}

func asInt(v any) (int64, bool) {
	switch val := v.(type) {
	case int:
		return int64(val), true
	case int32:
		return int64(val), true
	case int64:
		return val, true
	case uint32:
		return int64(val), true
	case uint64:
		if val > math.MaxInt64 {
			return 0, false
		}
		return int64(val), true
	}
	return 0, false
}

func asFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	}
	if n, ok := asInt(v); ok {
		return float64(n), true
	}
	return 0, false
}

func asObject(v any) (map[string]any, bool) {
	switch val := v.(type) {
	case map[string]any:
		return val, true
	case RawMatch:
		return val, true
	}
	return nil, false
}

func firstPresent(obj map[string]any, keys ...string) (any, bool) {
	for _, key := range keys {
		if v, ok := obj[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}
