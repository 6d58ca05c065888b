package apimodels

import "encoding/json"

// Schema selects the output shape a persona must produce.
type Schema int

const (
	// SchemaStandard is {analysis, risk_score}.
	SchemaStandard Schema = iota
	// SchemaVerdict is {verdict, confidence_score, analysis}.
	SchemaVerdict
)

func (s Schema) String() string {
	switch s {
	case SchemaStandard:
		return "standard"
	case SchemaVerdict:
		return "verdict"
	default:
		return "unknown"
	}
}

const (
	VerdictBuy  = "BUY"
	VerdictSell = "SELL"
	VerdictHold = "HOLD"

	// VerdictError marks a fallback result.
	VerdictError = "ERROR"
)

// AnalysisResult is the structured output of a single persona call.
// Only the fields relevant to Schema are meaningful unless Fallback is set,
// in which case every sentinel field is populated.
type AnalysisResult struct {
	Schema          Schema
	Analysis        string
	RiskScore       int
	Verdict         string
	ConfidenceScore int

	// Fallback is set when the result could not be recovered from the
	// provider output. Analysis then holds diagnostic text.
	Fallback bool
}

// NewFallback returns the sentinel result for schema carrying text for diagnosis.
func NewFallback(schema Schema, text string) AnalysisResult {
	return AnalysisResult{
		Schema:          schema,
		Analysis:        text,
		RiskScore:       0,
		Verdict:         VerdictError,
		ConfidenceScore: 0,
		Fallback:        true,
	}
}

type standardWire struct {
	Analysis  string `json:"analysis"`
	RiskScore int    `json:"risk_score"`
}

type verdictWire struct {
	Verdict         string `json:"verdict"`
	ConfidenceScore int    `json:"confidence_score"`
	Analysis        string `json:"analysis"`
}

type fallbackWire struct {
	Analysis        string `json:"analysis"`
	RiskScore       int    `json:"risk_score"`
	Verdict         string `json:"verdict"`
	ConfidenceScore int    `json:"confidence_score"`
}

// MarshalJSON encodes the wire shape of the result's schema. Fallbacks carry
// all sentinel keys so clients can check verdict == "ERROR" for any schema.
func (r AnalysisResult) MarshalJSON() ([]byte, error) {
	if r.Fallback {
		return json.Marshal(fallbackWire{
			Analysis:        r.Analysis,
			RiskScore:       r.RiskScore,
			Verdict:         r.Verdict,
			ConfidenceScore: r.ConfidenceScore,
		})
	}
	if r.Schema == SchemaVerdict {
		return json.Marshal(verdictWire{
			Verdict:         r.Verdict,
			ConfidenceScore: r.ConfidenceScore,
			Analysis:        r.Analysis,
		})
	}
	return json.Marshal(standardWire{
		Analysis:  r.Analysis,
		RiskScore: r.RiskScore,
	})
}

// PipelineResponse is returned by the one-shot document endpoint.
type PipelineResponse struct {
	// Per-persona reports keyed by persona name
	Reports map[string]AnalysisResult `json:"reports"`

	// The Chief Justice verdict
	Verdict AnalysisResult `json:"verdict"`

	// Metadata about the analysis
	Metadata AnalysisMetadata `json:"metadata"`
}

type AnalysisMetadata struct {
	// Time taken for analysis
	Duration string `json:"duration"`

	// Model used for analysis
	Model string `json:"model"`

	// Request correlation ID
	RequestID string `json:"requestId"`

	// Characters of document text sent to the personas
	ExtractedChars int `json:"extractedChars"`
}
