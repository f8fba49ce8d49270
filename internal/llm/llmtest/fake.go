// Package llmtest provides scripted llm.Model fakes for pipeline tests.
package llmtest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/justsurfingit/careerkit/internal/llm"
)

// Reply is one scripted response.
type Reply struct {
	Text string
	Err  error
}

// Scripted returns replies in call order and records every request.
type Scripted struct {
	mu       sync.Mutex
	replies  []Reply
	Requests []llm.Request
}

func NewScripted(replies ...Reply) *Scripted {
	return &Scripted{replies: replies}
}

// Texts is a shorthand for a script of successful replies.
func Texts(texts ...string) *Scripted {
	replies := make([]Reply, len(texts))
	for i, t := range texts {
		replies[i] = Reply{Text: t}
	}
	return NewScripted(replies...)
}

func (s *Scripted) Generate(_ context.Context, req llm.Request) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Requests = append(s.Requests, req)
	if len(s.replies) == 0 {
		return "", fmt.Errorf("llmtest: unexpected call %d", len(s.Requests))
	}
	r := s.replies[0]
	s.replies = s.replies[1:]
	return r.Text, r.Err
}

// Calls returns the number of requests seen so far.
func (s *Scripted) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Requests)
}

// Func adapts a function to llm.Model; useful when calls run concurrently
// and the reply depends on the prompt rather than the order.
type Func func(req llm.Request) (string, error)

func (f Func) Generate(_ context.Context, req llm.Request) (string, error) {
	return f(req)
}

// PromptText concatenates every text part of a request.
func PromptText(req llm.Request) string {
	var b strings.Builder
	for _, m := range req.Messages {
		for _, p := range m.Parts {
			if p.Text != "" {
				b.WriteString(p.Text)
				b.WriteString("\n")
			}
		}
	}
	return b.String()
}
