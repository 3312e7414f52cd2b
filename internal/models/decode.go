package models

import (
	"bufio"
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"
)

// DecodeMatches decodes a payload of match documents. It accepts a JSON array
// of objects, a single object, or newline-delimited objects. Anything else is
// a *DataShapeError: the caller handed over something that is not a sequence
// of documents. An empty payload decodes to an empty slice.
func DecodeMatches(data []byte) ([]RawMatch, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return []RawMatch{}, nil
	}

	switch data[0] {
	case '[':
		var items []any
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, &DataShapeError{Index: -1, Reason: fmt.Sprintf("invalid JSON array: %v", err)}
		}
		out := make([]RawMatch, 0, len(items))
		for i, item := range items {
			obj, ok := item.(map[string]any)
			if !ok {
				return nil, &DataShapeError{Index: i, Reason: fmt.Sprintf("array item is %s, want an object", jsonKind(item))}
			}
			out = append(out, RawMatch(obj))
		}
		return out, nil
	case '{':
		var obj map[string]any
		if err := json.Unmarshal(data, &obj); err == nil {
			return []RawMatch{obj}, nil
		}
		return decodeLines(data)
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, &DataShapeError{Index: -1, Reason: fmt.Sprintf("invalid JSON: %v", err)}
	}
	return nil, &DataShapeError{Index: -1, Reason: fmt.Sprintf("payload is %s, want an object or a list of objects", jsonKind(v))}
}

func decodeLines(data []byte) ([]RawMatch, error) {
	var out []RawMatch
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	i := 0
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var obj map[string]any
		if err := json.Unmarshal(line, &obj); err != nil || obj == nil {
			return nil, &DataShapeError{Index: i, Reason: "line is not a JSON object"}
		}
		out = append(out, RawMatch(obj))
		i++
	}
	if err := scanner.Err(); err != nil {
		return nil, &DataShapeError{Index: -1, Reason: err.Error()}
	}
	return out, nil
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "an object"
	case []any:
		return "a list"
	case string:
		return "a string"
	case bool:
		return "a boolean"
	case float64, json.Number:
		return "a number"
	}
	return fmt.Sprintf("%T", v)
}
