package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

// LangChain calls Gemini through langchaingo's googleai provider.
type LangChain struct {
	Client       llms.Model
	DefaultModel string
}

// NewLangChain initializes the googleai client once so every pipeline step
// can reuse it.
func NewLangChain(ctx context.Context, apiKey, defaultModel string) (*LangChain, error) {
	client, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(defaultModel),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &LangChain{Client: client, DefaultModel: defaultModel}, nil
}

func (l *LangChain) Generate(ctx context.Context, req Request) (string, error) {
	model := req.Model
	if model == "" {
		model = l.DefaultModel
	}
	opts := []llms.CallOption{
		llms.WithModel(model),
		llms.WithTemperature(req.Temperature),
	}
	if req.JSON {
		opts = append(opts, llms.WithJSONMode())
	}

	resp, err := l.Client.GenerateContent(ctx, toMessageContent(req.Messages), opts...)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from %s", model)
	}
	return resp.Choices[0].Content, nil
}

func toMessageContent(msgs []Message) []llms.MessageContent {
	out := make([]llms.MessageContent, 0, len(msgs))
	for _, m := range msgs {
		role := llms.ChatMessageTypeHuman
		if m.Role == RoleSystem {
			role = llms.ChatMessageTypeSystem
		}
		parts := make([]llms.ContentPart, 0, len(m.Parts))
		for _, p := range m.Parts {
			if p.IsBinary() {
				parts = append(parts, llms.BinaryPart(p.MIMEType, p.Data))
				continue
			}
			parts = append(parts, llms.TextPart(p.Text))
		}
		out = append(out, llms.MessageContent{Role: role, Parts: parts})
	}
	return out
}
