package repair

import (
	"errors"
	"testing"
)

func TestParseStrictJSONIsNotMarkedRepaired(t *testing.T) {
	res, err := Parse(`{"industry":"Software"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Repaired {
		t.Fatalf("strict parse must not be flagged as repaired")
	}
	if res.Document["industry"] != "Software" {
		t.Fatalf("unexpected document: %#v", res.Document)
	}
}

func TestParseRecoversJSONSurroundedByProse(t *testing.T) {
	res, err := Parse(`Sure, here is the data: {"industry":"Software"} Hope that helps!`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Repaired {
		t.Fatalf("boundary recovery must be flagged as repaired")
	}
	if res.Document["industry"] != "Software" {
		t.Fatalf("unexpected document: %#v", res.Document)
	}
}

func TestParseRepairsFencedSingleQuotedEnvelope(t *testing.T) {
	raw := "```json\n{'status': 'ok', 'profile': {'industry': 'Software'}}\n```"

	res, err := Parse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Repaired {
		t.Fatalf("normalized parse must be flagged as repaired")
	}

	profile := UnwrapEnvelope(res.Document)
	if profile["industry"] != "Software" {
		t.Fatalf("expected unwrapped profile, got %#v", profile)
	}
}

func TestParseRemovesTrailingCommas(t *testing.T) {
	res, err := Parse(`{"services": ["a", "b",], "industry": "Software",}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Repaired {
		t.Fatalf("trailing-comma recovery must be flagged as repaired")
	}
	if res.Document["industry"] != "Software" {
		t.Fatalf("unexpected document: %#v", res.Document)
	}
}

func TestParsePreservesApostrophesInMixedContent(t *testing.T) {
	res, err := Parse(`{"tagline": "we're the best"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Document["tagline"] != "we're the best" {
		t.Fatalf("apostrophe corrupted: %#v", res.Document)
	}
}

func TestParseFailsOnNonJSON(t *testing.T) {
	_, err := Parse("I could not produce any structured output for this request.")
	if !errors.Is(err, ErrUnparsable) {
		t.Fatalf("expected ErrUnparsable, got %v", err)
	}
}

func TestParseIsIdempotentOnItsOwnOutput(t *testing.T) {
	first, err := Parse("```json\n{'industry': 'Retail',}\n```")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Parse(`{"industry": "Retail"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Document["industry"] != second.Document["industry"] {
		t.Fatalf("repair is not stable: %#v vs %#v", first.Document, second.Document)
	}
	if second.Repaired {
		t.Fatalf("clean round-trip must not need repair")
	}
}

func TestUnwrapEnvelopePassesThroughBareProfile(t *testing.T) {
	doc := map[string]any{"industry": "Software"}
	if got := UnwrapEnvelope(doc); got["industry"] != "Software" {
		t.Fatalf("bare profile must pass through, got %#v", got)
	}
}

func TestUnwrapEnvelopeKeepsErrorEnvelopesIntact(t *testing.T) {
	doc := map[string]any{"status": "error", "profile": map[string]any{"industry": "x"}}
	got := UnwrapEnvelope(doc)
	if _, hasStatus := got["status"]; !hasStatus {
		t.Fatalf("non-ok envelope must not be unwrapped, got %#v", got)
	}
}

func TestIsComplete(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want bool
	}{
		{"closed object", `{"a": 1}`, true},
		{"fenced closed object", "```json\n{\"a\": 1}\n```", true},
		{"truncated mid value", `{"a": "hel`, false},
		{"unbalanced braces", `{"a": {"b": 1}`, false},
		{"dangling string", `{"a": "b}`, false},
		{"escaped brace in string", `{"a": "{\"nested\": 1}"}`, true},
	}
	for _, tc := range cases {
		if got := IsComplete(tc.raw); got != tc.want {
			t.Fatalf("%s: IsComplete=%v, want %v", tc.name, got, tc.want)
		}
	}
}
