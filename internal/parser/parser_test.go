package parser

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sozercan/tribunal/apimodels"
)

func TestParseScenarios(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		schema apimodels.Schema
		want   apimodels.AnalysisResult
	}{
		{
			name:   "fenced json block",
			raw:    "```json\n{\"analysis\":\"ok\",\"risk_score\":17}\n```",
			schema: apimodels.SchemaStandard,
			want:   apimodels.AnalysisResult{Schema: apimodels.SchemaStandard, Analysis: "ok", RiskScore: 17},
		},
		{
			name:   "fence without language tag",
			raw:    "```\n{\"analysis\":\"ok\",\"risk_score\":17}\n```",
			schema: apimodels.SchemaStandard,
			want:   apimodels.AnalysisResult{Schema: apimodels.SchemaStandard, Analysis: "ok", RiskScore: 17},
		},
		{
			name:   "fence inside conversational wrapping",
			raw:    "Sure, here you go:\n```json\n{\"analysis\":\"fine\",\"risk_score\":3}\n```\nLet me know if you need more.",
			schema: apimodels.SchemaStandard,
			want:   apimodels.AnalysisResult{Schema: apimodels.SchemaStandard, Analysis: "fine", RiskScore: 3},
		},
		{
			name:   "multiline object with extra keys",
			raw:    "{\n  \"analysis\": \"## Findings\\n- none\",\n  \"risk_score\": 0,\n  \"notes\": [1, 2]\n}",
			schema: apimodels.SchemaStandard,
			want:   apimodels.AnalysisResult{Schema: apimodels.SchemaStandard, Analysis: "## Findings\n- none", RiskScore: 0},
		},
		{
			name:   "verdict schema",
			raw:    `{"verdict":"HOLD","confidence_score":64,"analysis":"mixed signals"}`,
			schema: apimodels.SchemaVerdict,
			want: apimodels.AnalysisResult{
				Schema:          apimodels.SchemaVerdict,
				Verdict:         apimodels.VerdictHold,
				ConfidenceScore: 64,
				Analysis:        "mixed signals",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.raw, tt.schema))
		})
	}
}

func TestParseWrappedEqualsUnwrapped(t *testing.T) {
	inner := []string{
		`{"analysis":"revenue recognised early","risk_score":72}`,
		"{\n\"analysis\": \"multi\\nline\",\n\"risk_score\": 100\n}",
		`{"risk_score":0,"analysis":""}`,
	}
	wrappers := []func(string) string{
		func(s string) string { return "```json\n" + s + "\n```" },
		func(s string) string { return "```json" + s + "```" },
		func(s string) string { return "```\n" + s + "\n```" },
		func(s string) string { return "Here is the result:\n" + s + "\nThanks!" },
		func(s string) string { return "Preamble.\n```json\n" + s + "\n```\nPostscript." },
	}

	for _, s := range inner {
		want := Parse(s, apimodels.SchemaStandard)
		require.False(t, want.Fallback, s)
		for i, wrap := range wrappers {
			assert.Equalf(t, want, Parse(wrap(s), apimodels.SchemaStandard), "wrapper %d for %q", i, s)
		}
	}
}

func TestParseNoBraces(t *testing.T) {
	raw := "Sure! Here's the result: I cannot comply."

	for _, schema := range []apimodels.Schema{apimodels.SchemaStandard, apimodels.SchemaVerdict} {
		got := Parse(raw, schema)
		assert.True(t, got.Fallback)
		assert.Equal(t, raw, got.Analysis)
		assert.Equal(t, 0, got.RiskScore)
		assert.Equal(t, 0, got.ConfidenceScore)
		assert.Equal(t, apimodels.VerdictError, got.Verdict)
		assert.Equal(t, schema, got.Schema)
	}
}

func TestParseFallbackKeepsOriginalText(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		schema apimodels.Schema
	}{
		{"invalid syntax", "```json\n{\"analysis\": \"x\", risk_score: 5}\n```", apimodels.SchemaStandard},
		{"unbalanced braces", `{"analysis":"x","risk_score":5`, apimodels.SchemaStandard},
		{"closing brace before opening", `} nothing {`, apimodels.SchemaStandard},
		{"wrong value type", `{"analysis":"x","risk_score":"high"}`, apimodels.SchemaStandard},
		{"score out of range", `{"analysis":"x","risk_score":150}`, apimodels.SchemaStandard},
		{"negative score", `{"analysis":"x","risk_score":-1}`, apimodels.SchemaStandard},
		{"fractional score", `{"analysis":"x","risk_score":12.5}`, apimodels.SchemaStandard},
		{"missing field", `{"analysis":"x"}`, apimodels.SchemaStandard},
		{"analysis not a string", `{"analysis":{"text":"x"},"risk_score":5}`, apimodels.SchemaStandard},
		{"standard shape for verdict", `{"analysis":"x","risk_score":5}`, apimodels.SchemaVerdict},
		{"unknown verdict", `{"verdict":"MAYBE","confidence_score":50,"analysis":"x"}`, apimodels.SchemaVerdict},
		{"lowercase verdict", `{"verdict":"buy","confidence_score":50,"analysis":"x"}`, apimodels.SchemaVerdict},
		{"empty", "", apimodels.SchemaVerdict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.raw, tt.schema)
			assert.Equal(t, apimodels.NewFallback(tt.schema, tt.raw), got)
		})
	}
}

// The brace span is greedy and ignores string contents; both cases below
// over-capture and fall back.
func TestParseGreedySpanLimitations(t *testing.T) {
	two := `{"analysis":"a","risk_score":1} and also {"analysis":"b","risk_score":2}`
	got := Parse(two, apimodels.SchemaStandard)
	assert.True(t, got.Fallback)
	assert.Equal(t, two, got.Analysis)

	trailing := `{"analysis":"a","risk_score":1} (scores use the {0..100} scale}`
	got = Parse(trailing, apimodels.SchemaStandard)
	assert.True(t, got.Fallback)

	// A brace inside a string is harmless when it is not the last one.
	inner := `{"analysis":"use } with care","risk_score":9}`
	got = Parse(inner, apimodels.SchemaStandard)
	assert.False(t, got.Fallback)
	assert.Equal(t, "use } with care", got.Analysis)
}

func TestFallbackWireShape(t *testing.T) {
	b, err := json.Marshal(Parse("no json here", apimodels.SchemaStandard))
	require.NoError(t, err)
	assert.JSONEq(t, `{"analysis":"no json here","risk_score":0,"verdict":"ERROR","confidence_score":0}`, string(b))

	b, err = json.Marshal(Parse(`{"analysis":"ok","risk_score":17}`, apimodels.SchemaStandard))
	require.NoError(t, err)
	assert.JSONEq(t, `{"analysis":"ok","risk_score":17}`, string(b))

	b, err = json.Marshal(Parse(`{"verdict":"SELL","confidence_score":90,"analysis":"exit"}`, apimodels.SchemaVerdict))
	require.NoError(t, err)
	assert.JSONEq(t, `{"verdict":"SELL","confidence_score":90,"analysis":"exit"}`, string(b))
}

func TestExtractObject(t *testing.T) {
	assert.Equal(t, `{"a":1}`, extractObject(`prefix {"a":1} suffix`))
	assert.Equal(t, "{\n\"a\":{\"b\":2}\n}", extractObject("x{\n\"a\":{\"b\":2}\n}y"))
	assert.Equal(t, "no braces", extractObject("no braces"))
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, "{}\n", stripFences("```json\n{}\n```"))
	assert.Equal(t, "a b c", stripFences("a ```json b ```c"))
}
