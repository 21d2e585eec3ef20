package llm

import (
	"context"
	"errors"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/calebowu/ghostwriter/internal/core"
)

// OpenAILLM implements core.LLMProvider using the official openai-go SDK
// (chat completions).
type OpenAILLM struct {
	model string
	opts  []option.RequestOption
}

func NewOpenAILLM(apiKey, baseURL, model string) (*OpenAILLM, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key missing; set OPENAI_API_KEY")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAILLM{model: model, opts: opts}, nil
}

func (o *OpenAILLM) Close() error { return nil }

func (o *OpenAILLM) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	client := openai.NewClient(o.opts...)

	msgs := []openai.ChatCompletionMessageParamUnion{}
	if systemPrompt != "" {
		msgs = append(msgs, openai.SystemMessage(systemPrompt))
	}
	msgs = append(msgs, openai.UserMessage(userPrompt))

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(o.model),
		Messages: msgs,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}

var _ core.LLMProvider = (*OpenAILLM)(nil)
