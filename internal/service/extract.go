package service

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

var fencedBlock = regexp.MustCompile("(?s)```(?:json|JSON)?[ \t]*\r?\n?(.*?)```")

// ExtractJSONObject finds the JSON object embedded in free-form model output.
// Candidates are tried in order:
//
//  1. the body of each fenced code block
//  2. the span from the first '{' to the last '}'
//  3. the first complete JSON value that decodes at each '{', left to right
//
// The first candidate that is a valid JSON object is returned.
func ExtractJSONObject(text string) (json.RawMessage, error) {
	if !strings.Contains(text, "{") {
		return nil, &ParseError{Reason: "no JSON object found in response"}
	}

	for _, match := range fencedBlock.FindAllStringSubmatch(text, -1) {
		if obj, ok := asObject(match[1]); ok {
			return obj, nil
		}
	}

	start, end := strings.Index(text, "{"), strings.LastIndex(text, "}")
	if end > start {
		if obj, ok := asObject(text[start : end+1]); ok {
			return obj, nil
		}
	}

	for i := start; i >= 0 && i < len(text); {
		var raw json.RawMessage
		if err := json.NewDecoder(strings.NewReader(text[i:])).Decode(&raw); err == nil {
			return raw, nil
		}
		next := strings.IndexByte(text[i+1:], '{')
		if next < 0 {
			break
		}
		i += next + 1
	}

	return nil, &ParseError{Reason: "response contains no valid JSON object"}
}

func asObject(candidate string) (json.RawMessage, bool) {
	candidate = strings.TrimSpace(candidate)
	if !strings.HasPrefix(candidate, "{") || !json.Valid([]byte(candidate)) {
		return nil, false
	}
	return json.RawMessage(candidate), true
}

// looseString decodes a JSON string, number, bool or null into text. Model
// output is not consistent about quoting dates and list items.
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	switch val := v.(type) {
	case nil:
		*s = ""
	case string:
		*s = looseString(val)
	case float64:
		*s = looseString(strconv.FormatFloat(val, 'f', -1, 64))
	case bool:
		*s = looseString(strconv.FormatBool(val))
	default:
		*s = looseString(strings.TrimSpace(string(data)))
	}
	return nil
}

func (s looseString) String() string {
	return strings.TrimSpace(string(s))
}
