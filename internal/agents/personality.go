package agents

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/justsurfingit/careerkit/internal/graph"
	"github.com/justsurfingit/careerkit/internal/llm"
)

const (
	PersonalityInstructions = "Enter your 3-letter RIASEC code (e.g., RCE, IAS) where each letter must be one of: R (Realistic), " +
		"I (Investigative), A (Artistic), S (Social), E (Enterprising), C (Conventional)."

	invalidRIASEC = "Invalid RIASEC code. Provide exactly 3 letters from R, I, A, S, E, C (e.g., RCE, IAS)."

	personalityPrompt = `You are an expert career counselor and psychologist specializing in the
Holland Codes (RIASEC) framework.

The RIASEC codes are:
- R: Realistic (Doers) - Practical, hands-on, physical.
- I: Investigative (Thinkers) - Analytical, curious, scientific.
- A: Artistic (Creators) - Expressive, original, independent.
- S: Social (Helpers) - Cooperative, supportive, empathetic.
- E: Enterprising (Persuaders) - Competitive, ambitious, leadership-oriented.
- C: Conventional (Organizers) - Detail-oriented, organized, structured.

The user's 3-letter RIASEC code is: *%[1]s*

Focus on their strengths, work preferences, and how the combination of these three traits creates a unique personality profile.

Address the user directly (e.g., "With an %[1]s profile...").`
)

var ErrInvalidRIASEC = errors.New(invalidRIASEC)

type PersonalityOutput struct {
	Summary      string `json:"summary,omitempty"`
	Instructions string `json:"instructions,omitempty"`
	Error        string `json:"error,omitempty"`
}

// Personality writes a summary for a Holland (RIASEC) code.
type Personality struct {
	*Env
}

type personalityState struct {
	code    string
	summary string
}

func (p *Personality) Instructions() PersonalityOutput {
	return PersonalityOutput{Instructions: PersonalityInstructions}
}

// NormalizeRIASEC trims and upper-cases code and checks that it is three
// letters out of R, I, A, S, E and C.
func NormalizeRIASEC(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len([]rune(code)) != 3 {
		return "", ErrInvalidRIASEC
	}
	for _, r := range code {
		if !strings.ContainsRune("RIASEC", r) {
			return "", ErrInvalidRIASEC
		}
	}
	return code, nil
}

// Run reports invalid codes and model failures in the output document.
func (p *Personality) Run(ctx context.Context, code string) PersonalityOutput {
	code, err := NormalizeRIASEC(code)
	if err != nil {
		return PersonalityOutput{Error: err.Error()}
	}

	state := personalityState{code: code}
	g := graph.New[personalityState]("personality", p.Log).
		Then("generate_summary", p.summarize)
	if err := g.Run(ctx, &state); err != nil {
		return PersonalityOutput{Error: fmt.Sprintf("Failed to generate summary: %v", stepCause(err))}
	}
	return PersonalityOutput{Summary: state.summary}
}

func (p *Personality) summarize(ctx context.Context, s *personalityState) error {
	p.Log.Info("generating personality summary")
	text, err := p.generate(ctx, "personality", llm.User(fmt.Sprintf(personalityPrompt, s.code)))
	if err != nil {
		return err
	}
	s.summary = text
	return nil
}
