package llm

import (
	"context"
	"log/slog"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/azure"
	"github.com/openai/openai-go/option"

	"github.com/sozercan/tribunal/internal/config"
)

// OpenAI talks to any OpenAI-compatible chat completions endpoint
// (OpenAI, Groq) or to Azure OpenAI.
type OpenAI struct {
	client *openai.Client
	opts   Options
}

func NewOpenAI(cfg *config.LLMConfig) (*OpenAI, error) {
	var client *openai.Client

	switch cfg.Provider {
	case config.ProviderAzure:
		client = openai.NewClient(
			azure.WithEndpoint(cfg.Endpoint, cfg.APIVersion),
			azure.WithAPIKey(cfg.APIKey),
			option.WithMaxRetries(cfg.MaxRetries),
		)
	default: // "openai", "groq"
		client = openai.NewClient(
			option.WithAPIKey(cfg.APIKey),
			option.WithBaseURL(strings.TrimRight(cfg.Endpoint, "/")+"/"),
			option.WithMaxRetries(cfg.MaxRetries),
		)
	}

	return &OpenAI{
		client: client,
		opts:   defaultOptions(cfg),
	}, nil
}

func (o *OpenAI) Send(ctx context.Context, systemRole, prompt string) (string, error) {
	resp, err := o.client.Chat.Completions.New(
		ctx,
		openai.ChatCompletionNewParams{
			Model: openai.F(openai.ChatModel(o.opts.Model)),
			Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
				systemMessage(systemRole),
				userMessage(prompt),
			}),
			Temperature: openai.F(o.opts.Temperature),
			MaxTokens:   openai.F(o.opts.MaxTokens),
			// JSON mode is a hint; the parser still handles non-compliant output.
			ResponseFormat: openai.F[openai.ChatCompletionNewParamsResponseFormatUnion](
				openai.ResponseFormatJSONObjectParam{
					Type: openai.F(openai.ResponseFormatJSONObjectTypeJSONObject),
				},
			),
		},
	)
	if err != nil {
		return "", err
	}

	slog.Debug("Chat completion received",
		"model", resp.Model,
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
		"total_tokens", resp.Usage.TotalTokens,
	)

	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

// The SDK helpers encode content as an array of text parts. Groq rejects
// that for the system role, so both turns carry plain string content.
func systemMessage(content string) openai.ChatCompletionSystemMessageParam {
	return openai.ChatCompletionSystemMessageParam{
		Role:    openai.F(openai.ChatCompletionSystemMessageParamRoleSystem),
		Content: openai.Raw[[]openai.ChatCompletionContentPartTextParam](content),
	}
}

func userMessage(content string) openai.ChatCompletionUserMessageParam {
	return openai.ChatCompletionUserMessageParam{
		Role:    openai.F(openai.ChatCompletionUserMessageParamRoleUser),
		Content: openai.Raw[[]openai.ChatCompletionContentPartUnionParam](content),
	}
}
