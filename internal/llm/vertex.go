package llm

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"

	"github.com/sozercan/tribunal/internal/config"
)

// Vertex sends prompts to a Gemini model on Vertex AI.
type Vertex struct {
	client *genai.Client
	opts   Options
}

func NewVertex(ctx context.Context, cfg *config.LLMConfig) (*Vertex, error) {
	if cfg.VertexProject == "" || cfg.VertexRegion == "" {
		return nil, fmt.Errorf("NewVertex: project and region cannot be empty")
	}

	client, err := genai.NewClient(ctx, cfg.VertexProject, cfg.VertexRegion)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}

	return &Vertex{
		client: client,
		opts:   defaultOptions(cfg),
	}, nil
}

func (v *Vertex) Send(ctx context.Context, systemRole, prompt string) (string, error) {
	model := v.client.GenerativeModel(v.opts.Model)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemRole)},
	}
	model.GenerationConfig = genai.GenerationConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr(float32(v.opts.Temperature)),
		MaxOutputTokens:  genai.Ptr(int32(v.opts.MaxTokens)),
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}

	text := candidateText(resp)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func (v *Vertex) Close() error {
	if v.client != nil {
		return v.client.Close()
	}
	return nil
}

// candidateText concatenates the text parts of the first candidate.
func candidateText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	return b.String()
}
