// Package repair turns near-JSON model output into parsed documents. It
// applies progressively more invasive recovery stages and reports whether
// any of them had to run, so callers can downgrade the extraction status.
package repair

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// ErrUnparsable means no recovery stage produced a JSON object.
var ErrUnparsable = errors.New("response is not parsable as a JSON object")

var (
	fencePattern         = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")
	trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)
)

// Result is a parsed model response. Repaired is true when the raw text did
// not parse strictly and a recovery stage had to modify it.
type Result struct {
	Document map[string]any
	Repaired bool
}

// Parse runs the recovery ladder over raw model output:
//
//  1. strict parse of the text as-is
//  2. boundary recovery, slicing from the first '{' to the last '}'
//  3. normalization: fence stripping, boundary slice, trailing-comma
//     removal, and a single-to-double quote swap when the text carries no
//     double quotes at all
//
// Anything still unparsable after stage 3 goes through a last-resort
// mechanical repair pass before giving up.
func Parse(raw string) (Result, error) {
	if doc, err := parseObject(raw); err == nil {
		return Result{Document: doc}, nil
	}

	if bounded, ok := sliceBraces(raw); ok {
		if doc, err := parseObject(bounded); err == nil {
			return Result{Document: doc, Repaired: true}, nil
		}
	}

	normalized := Normalize(raw)
	if doc, err := parseObject(normalized); err == nil {
		return Result{Document: doc, Repaired: true}, nil
	}

	if fixed, err := jsonrepair.JSONRepair(normalized); err == nil {
		if doc, err := parseObject(fixed); err == nil {
			return Result{Document: doc, Repaired: true}, nil
		}
	}

	return Result{}, fmt.Errorf("%w: %s", ErrUnparsable, snippet(raw))
}

// Normalize applies the stage-3 text transforms without parsing.
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	if m := fencePattern.FindStringSubmatch(s); m != nil {
		s = m[1]
	} else {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
	}
	if bounded, ok := sliceBraces(s); ok {
		s = bounded
	}
	s = trailingCommaPattern.ReplaceAllString(s, "$1")

	// Swap quote style only when the text is uniformly single-quoted;
	// mixed content would corrupt apostrophes inside real strings.
	if !strings.Contains(s, `"`) && strings.Contains(s, "'") {
		s = strings.ReplaceAll(s, "'", `"`)
	}
	return strings.TrimSpace(s)
}

// UnwrapEnvelope extracts the profile object from an {"status":"ok",
// "profile":{...}} response envelope. Documents without the envelope are
// returned unchanged, so callers can accept bare profiles too.
func UnwrapEnvelope(doc map[string]any) map[string]any {
	profile, ok := doc["profile"].(map[string]any)
	if !ok {
		return doc
	}
	if status, ok := doc["status"].(string); ok && status != "ok" {
		return doc
	}
	return profile
}

// IsComplete reports whether raw looks like a finished JSON document:
// it must end with a closing brace, every brace opened outside a string
// must close, and no string may be left dangling.
func IsComplete(raw string) bool {
	s := Normalize(raw)
	if !strings.HasSuffix(s, "}") {
		return false
	}

	depth := 0
	inString := false
	escaped := false
	for _, r := range s {
		switch {
		case escaped:
			escaped = false
		case inString && r == '\\':
			escaped = true
		case r == '"':
			inString = !inString
		case inString:
		case r == '{':
			depth++
		case r == '}':
			depth--
		}
	}
	return depth == 0 && !inString
}

func parseObject(s string) (map[string]any, error) {
	var doc map[string]any
	if err := json.Unmarshal([]byte(s), &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, errors.New("not a JSON object")
	}
	return doc, nil
}

// sliceBraces cuts the text down to the outermost brace pair.
func sliceBraces(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return "", false
	}
	return s[start : end+1], true
}

func snippet(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}
