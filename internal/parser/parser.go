// Package parser recovers structured persona results from free-form model output.
package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"regexp"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/sozercan/tribunal/apimodels"
)

var (
	reFenceOpen  = regexp.MustCompile("```json\\s*")
	reFenceClose = regexp.MustCompile("```")

	errTrailingData = errors.New("unexpected data after JSON value")
)

const standardSchema = `{
  "type": "object",
  "required": ["analysis", "risk_score"],
  "properties": {
    "analysis": {"type": "string"},
    "risk_score": {"type": "integer", "minimum": 0, "maximum": 100}
  }
}`

const verdictSchema = `{
  "type": "object",
  "required": ["verdict", "confidence_score", "analysis"],
  "properties": {
    "verdict": {"enum": ["BUY", "SELL", "HOLD"]},
    "confidence_score": {"type": "integer", "minimum": 0, "maximum": 100},
    "analysis": {"type": "string"}
  }
}`

var schemas = map[apimodels.Schema]*jsonschema.Schema{
	apimodels.SchemaStandard: jsonschema.MustCompileString("standard.json", standardSchema),
	apimodels.SchemaVerdict:  jsonschema.MustCompileString("verdict.json", verdictSchema),
}

// Parse turns raw model output into a result of the given schema. It never
// fails: anything that cannot be recovered becomes a fallback result holding
// the original raw text.
func Parse(raw string, schema apimodels.Schema) apimodels.AnalysisResult {
	candidate := extractObject(stripFences(raw))

	result, err := decode(candidate, schema)
	if err != nil {
		slog.Warn("Failed to parse model output, using fallback",
			"schema", schema.String(),
			"error", err,
			"raw_length", len(raw),
		)
		slog.Debug("Unparsed model output", "raw", raw)
		return apimodels.NewFallback(schema, raw)
	}
	return result
}

// stripFences removes markdown code fences anywhere in s.
func stripFences(s string) string {
	s = reFenceOpen.ReplaceAllString(s, "")
	return reFenceClose.ReplaceAllString(s, "")
}

// extractObject returns the span from the first "{" to the last "}".
// The match is greedy and does not look inside strings; with no such span s
// is returned unchanged.
func extractObject(s string) string {
	start := strings.Index(s, "{")
	if start < 0 {
		return s
	}
	end := strings.LastIndex(s, "}")
	if end < start {
		return s
	}
	return s[start : end+1]
}

func decode(candidate string, schema apimodels.Schema) (apimodels.AnalysisResult, error) {
	compiled, ok := schemas[schema]
	if !ok {
		return apimodels.AnalysisResult{}, fmt.Errorf("unknown schema %d", schema)
	}

	v, err := decodeStrict(candidate)
	if err != nil {
		return apimodels.AnalysisResult{}, fmt.Errorf("decode json: %w", err)
	}
	if err := compiled.Validate(v); err != nil {
		return apimodels.AnalysisResult{}, fmt.Errorf("json does not match %s schema: %w", schema, err)
	}

	// Validation guarantees the object shape and field types below.
	m := v.(map[string]any)
	out := apimodels.AnalysisResult{
		Schema:   schema,
		Analysis: m["analysis"].(string),
	}
	switch schema {
	case apimodels.SchemaVerdict:
		out.Verdict = m["verdict"].(string)
		out.ConfidenceScore, err = toInt(m["confidence_score"])
	default:
		out.RiskScore, err = toInt(m["risk_score"])
	}
	if err != nil {
		return apimodels.AnalysisResult{}, err
	}
	return out, nil
}

// decodeStrict decodes exactly one JSON value, keeping numbers as json.Number.
func decodeStrict(s string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errTrailingData
	}
	return v, nil
}

func toInt(v any) (int, error) {
	n, ok := v.(json.Number)
	if !ok {
		return 0, fmt.Errorf("expected number, got %T", v)
	}
	f, err := n.Float64()
	if err != nil {
		return 0, fmt.Errorf("parse number %q: %w", n, err)
	}
	return int(math.Round(f)), nil
}
