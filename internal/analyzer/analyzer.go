package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/sozercan/tribunal/apimodels"
	"github.com/sozercan/tribunal/internal/extract"
	"github.com/sozercan/tribunal/internal/llm"
	"github.com/sozercan/tribunal/internal/parser"
	"github.com/sozercan/tribunal/internal/persona"
)

const (
	// MaxSynthesisChars bounds each report fed to the Chief Justice.
	MaxSynthesisChars = 3000

	// DefaultTimeout applies to a single provider call when none is configured.
	DefaultTimeout = 60 * time.Second

	apiErrorPrefix = "API ERROR: "
	noData         = "No Data"
)

type Analyzer struct {
	llmProvider llm.Provider
	timeout     time.Duration
	model       string
}

func New(llmProvider llm.Provider, timeout time.Duration, model string) *Analyzer {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Analyzer{
		llmProvider: llmProvider,
		timeout:     timeout,
		model:       model,
	}
}

// Run sends content to the persona and parses the reply. Provider failures
// and malformed replies both come back as fallback results.
func (a *Analyzer) Run(ctx context.Context, p persona.Persona, content string) apimodels.AnalysisResult {
	logger := slog.With("persona", p.Name)
	logger.Info("Running persona analysis", "chars", len([]rune(content)))
	startTime := time.Now()

	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	raw, err := a.llmProvider.Send(callCtx, persona.SystemMessage(p), persona.BuildPrompt(p, content))
	if err != nil {
		logger.Error("LLM analysis failed", "error", err)
		return apimodels.NewFallback(p.Schema, apiErrorPrefix+err.Error())
	}

	result := parser.Parse(raw, p.Schema)
	logger.Debug("Persona analysis completed",
		"fallback", result.Fallback,
		"duration", time.Since(startTime),
	)
	return result
}

// AnalyzeAll runs the four analysts concurrently over text and waits for all of them.
func (a *Analyzer) AnalyzeAll(ctx context.Context, text string) map[string]apimodels.AnalysisResult {
	analysts := persona.Analysts()

	var mu sync.Mutex
	reports := make(map[string]apimodels.AnalysisResult, len(analysts))

	// Failures are data, so no goroutine ever returns an error and none
	// cancels its siblings.
	var g errgroup.Group
	for _, p := range analysts {
		g.Go(func() error {
			result := a.Run(ctx, p, text)
			mu.Lock()
			reports[p.Name] = result
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return reports
}

// Synthesize asks the Chief Justice for a verdict over the four analyses.
func (a *Analyzer) Synthesize(ctx context.Context, in apimodels.JusticeInput) apimodels.AnalysisResult {
	return a.Run(ctx, persona.MustLookup(persona.Justice), combineReports(in))
}

// AnalyzeDocument runs the full pipeline: fan-out, join, synthesis.
func (a *Analyzer) AnalyzeDocument(ctx context.Context, text string) *apimodels.PipelineResponse {
	requestID := uuid.NewString()
	logger := slog.With("request_id", requestID)
	logger.Info("Starting document analysis", "chars", len([]rune(text)))
	startTime := time.Now()

	reports := a.AnalyzeAll(ctx, text)
	verdict := a.Synthesize(ctx, JusticeInputFromReports(reports))

	duration := time.Since(startTime)
	logger.Info("Document analysis completed",
		"verdict", verdict.Verdict,
		"duration", duration,
	)

	return &apimodels.PipelineResponse{
		Reports: reports,
		Verdict: verdict,
		Metadata: apimodels.AnalysisMetadata{
			Duration:       duration.String(),
			Model:          a.model,
			RequestID:      requestID,
			ExtractedChars: len([]rune(text)),
		},
	}
}

// JusticeInputFromReports takes the analysis text of each report, or
// "No Data" when a report is missing or empty.
func JusticeInputFromReports(reports map[string]apimodels.AnalysisResult) apimodels.JusticeInput {
	text := func(name string) string {
		if r, ok := reports[name]; ok && r.Analysis != "" {
			return r.Analysis
		}
		return noData
	}
	return apimodels.JusticeInput{
		AccountantAnalysis: text(persona.Accountant),
		LegalAnalysis:      text(persona.Legal),
		SkepticAnalysis:    text(persona.Skeptic),
		BloodhoundAnalysis: text(persona.Bloodhound),
	}
}

func combineReports(in apimodels.JusticeInput) string {
	var b strings.Builder
	for _, section := range []struct {
		label string
		text  string
	}{
		{"ACCOUNTANT", in.AccountantAnalysis},
		{"LEGAL", in.LegalAnalysis},
		{"SKEPTIC", in.SkepticAnalysis},
		{"BLOODHOUND", in.BloodhoundAnalysis},
	} {
		fmt.Fprintf(&b, "%s: %s\n", section.label, extract.Truncate(section.text, MaxSynthesisChars))
	}
	return b.String()
}
