// Package persona holds the fixed analyst personas and builds their prompts.
package persona

import (
	"fmt"

	"github.com/sozercan/tribunal/apimodels"
)

const (
	Accountant = "accountant"
	Legal      = "legal"
	Skeptic    = "skeptic"
	Bloodhound = "bloodhound"
	Justice    = "justice"
)

// Persona is an immutable role/task/schema triple.
type Persona struct {
	Name   string
	Role   string
	Task   string
	Schema apimodels.Schema
}

var catalog = map[string]Persona{
	Accountant: {
		Name:   Accountant,
		Role:   "Forensic Accountant",
		Task:   "Find revenue anomalies and 'creative accounting'. Calculate Beneish M-Score factors.",
		Schema: apimodels.SchemaStandard,
	},
	Legal: {
		Name:   Legal,
		Role:   "Legal Hunter",
		Task:   "Find toxic clauses, liability traps, and bad indemnity terms.",
		Schema: apimodels.SchemaStandard,
	},
	Skeptic: {
		Name:   Skeptic,
		Role:   "Competitive Skeptic",
		Task:   "Compare claims to industry reality. Find weaknesses in their moat.",
		Schema: apimodels.SchemaStandard,
	},
	Bloodhound: {
		Name:   Bloodhound,
		Role:   "Compliance Bloodhound",
		Task:   "Scan for: Litigation, DOJ, SEC, Subpoena, Environmental Violation, GDPR.",
		Schema: apimodels.SchemaStandard,
	},
	Justice: {
		Name:   Justice,
		Role:   "Chief Justice",
		Task:   "Synthesize these reports. Resolve conflicts. Issue a final verdict.",
		Schema: apimodels.SchemaVerdict,
	},
}

// analystOrder is the order reports are fanned out and labelled in synthesis.
var analystOrder = []string{Accountant, Legal, Skeptic, Bloodhound}

// Lookup returns the persona registered under name.
func Lookup(name string) (Persona, bool) {
	p, ok := catalog[name]
	return p, ok
}

// MustLookup is Lookup for names known at compile time.
func MustLookup(name string) Persona {
	p, ok := catalog[name]
	if !ok {
		panic(fmt.Sprintf("persona: unknown persona %q", name))
	}
	return p
}

// Analysts returns the four Standard-schema personas in a fixed order.
func Analysts() []Persona {
	out := make([]Persona, 0, len(analystOrder))
	for _, name := range analystOrder {
		out = append(out, catalog[name])
	}
	return out
}

// IsAnalyst reports whether name is one of the four document analysts.
func IsAnalyst(name string) bool {
	p, ok := catalog[name]
	return ok && p.Schema == apimodels.SchemaStandard
}
