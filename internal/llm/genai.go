package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GenAI calls Gemini through the google.golang.org/genai SDK.
type GenAI struct {
	client       *genai.Client
	defaultModel string
}

func NewGenAI(ctx context.Context, apiKey, defaultModel string) (*GenAI, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GenAI{client: client, defaultModel: defaultModel}, nil
}

func (g *GenAI) Generate(ctx context.Context, req Request) (string, error) {
	model := req.Model
	if model == "" {
		model = g.defaultModel
	}

	system, contents := toGenAIContents(req.Messages)
	cfg := &genai.GenerateContentConfig{
		Temperature:       genai.Ptr(float32(req.Temperature)),
		SystemInstruction: system,
	}
	if req.JSON {
		cfg.ResponseMIMEType = "application/json"
	}

	resp, err := g.client.Models.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini returned no candidates")
	}
	return resp.Text(), nil
}

// toGenAIContents folds all system messages into one system instruction;
// the rest become user contents in order.
func toGenAIContents(msgs []Message) (*genai.Content, []*genai.Content) {
	var systemParts []*genai.Part
	var contents []*genai.Content
	for _, m := range msgs {
		parts := make([]*genai.Part, 0, len(m.Parts))
		for _, p := range m.Parts {
			if p.IsBinary() {
				parts = append(parts, genai.NewPartFromBytes(p.Data, p.MIMEType))
				continue
			}
			parts = append(parts, genai.NewPartFromText(p.Text))
		}
		if m.Role == RoleSystem {
			systemParts = append(systemParts, parts...)
			continue
		}
		contents = append(contents, genai.NewContentFromParts(parts, genai.RoleUser))
	}

	var system *genai.Content
	if len(systemParts) > 0 {
		system = genai.NewContentFromParts(systemParts, genai.RoleUser)
	}
	return system, contents
}
