package apimodels

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrIncompleteJusticeInput = errors.New("justice input is incomplete")

// JusticeInput carries the four persona analyses to be synthesized.
// Field names match what the web client sends.
type JusticeInput struct {
	AccountantAnalysis string `json:"accountant_analysis"`
	LegalAnalysis      string `json:"legal_analysis"`
	SkepticAnalysis    string `json:"skeptic_analysis"`
	BloodhoundAnalysis string `json:"bloodhound_analysis"`
}

// UnmarshalJSON requires all four analyses to be present as strings.
// Empty strings are accepted.
func (in *JusticeInput) UnmarshalJSON(b []byte) error {
	var wire struct {
		AccountantAnalysis *string `json:"accountant_analysis"`
		LegalAnalysis      *string `json:"legal_analysis"`
		SkepticAnalysis    *string `json:"skeptic_analysis"`
		BloodhoundAnalysis *string `json:"bloodhound_analysis"`
	}
	if err := json.Unmarshal(b, &wire); err != nil {
		return err
	}

	var missing []string
	for _, f := range []struct {
		name string
		v    *string
	}{
		{"accountant_analysis", wire.AccountantAnalysis},
		{"legal_analysis", wire.LegalAnalysis},
		{"skeptic_analysis", wire.SkepticAnalysis},
		{"bloodhound_analysis", wire.BloodhoundAnalysis},
	} {
		if f.v == nil {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrIncompleteJusticeInput, strings.Join(missing, ", "))
	}

	*in = JusticeInput{
		AccountantAnalysis: *wire.AccountantAnalysis,
		LegalAnalysis:      *wire.LegalAnalysis,
		SkepticAnalysis:    *wire.SkepticAnalysis,
		BloodhoundAnalysis: *wire.BloodhoundAnalysis,
	}
	return nil
}
