// Package llm is the hosted-model boundary. Pipelines build a Request of
// system/user messages and get back the text the model returned.
package llm

import (
	"context"
	"fmt"

	"github.com/justsurfingit/careerkit/internal/config"
)

type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

// Part is either text or inline binary data (images).
type Part struct {
	Text     string
	Data     []byte
	MIMEType string
}

func (p Part) IsBinary() bool { return len(p.Data) > 0 }

type Message struct {
	Role  Role
	Parts []Part
}

// Request is a single model invocation.
type Request struct {
	Model       string
	Temperature float64
	// JSON asks the backend for an application/json response.
	JSON     bool
	Messages []Message
}

// Model generates text for a request.
type Model interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// System returns a system message holding text.
func System(text string) Message {
	return Message{Role: RoleSystem, Parts: []Part{{Text: text}}}
}

// User returns a user message holding text.
func User(text string) Message {
	return Message{Role: RoleUser, Parts: []Part{{Text: text}}}
}

// UserImage returns a user message with a text instruction followed by an
// inline image.
func UserImage(text string, data []byte, mimeType string) Message {
	return Message{Role: RoleUser, Parts: []Part{
		{Text: text},
		{Data: data, MIMEType: mimeType},
	}}
}

// NewRequest builds a request from resolved step settings.
func NewRequest(s config.Settings, msgs ...Message) Request {
	return Request{Model: s.Model, Temperature: s.Temperature, Messages: msgs}
}

// New creates the backend selected by cfg.Provider.
func New(ctx context.Context, cfg *config.Config) (Model, error) {
	if err := cfg.RequireAPIKey(); err != nil {
		return nil, err
	}
	switch cfg.Provider {
	case "genai":
		return NewGenAI(ctx, cfg.GoogleAPIKey, cfg.Model)
	case "langchain", "":
		return NewLangChain(ctx, cfg.GoogleAPIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}
