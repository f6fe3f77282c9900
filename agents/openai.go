package agents

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
)

// OpenAIOptions configures the OpenAI adapter.
type OpenAIOptions struct {
	Model               string
	MaxCompletionTokens int64
	Temperature         float64
}

// OpenAIModel adapts the OpenAI Chat Completions API to the Model interface.
type OpenAIModel struct {
	client *openai.Client
	opts   OpenAIOptions
}

func NewOpenAIModel(optFns ...func(o *OpenAIOptions)) *OpenAIModel {
	opts := OpenAIOptions{
		Model:               openai.ChatModelGPT4oMini,
		MaxCompletionTokens: 4096,
		Temperature:         0.7,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	client := openai.NewClient()
	return &OpenAIModel{client: &client, opts: opts}
}

func (m *OpenAIModel) Generate(ctx context.Context, req Request) (string, error) {
	var messages []openai.ChatCompletionMessageParamUnion
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	messages = append(messages, openai.UserMessage(req.Prompt))

	resp, err := m.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:               m.opts.Model,
		Messages:            messages,
		Temperature:         openai.Float(m.opts.Temperature),
		MaxCompletionTokens: openai.Int(m.opts.MaxCompletionTokens),
	})
	if err != nil {
		return "", fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
