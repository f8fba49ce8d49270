package agents

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/justsurfingit/careerkit/internal/docs"
	"github.com/justsurfingit/careerkit/internal/graph"
	"github.com/justsurfingit/careerkit/internal/llm"
	"github.com/justsurfingit/careerkit/internal/search"
)

const (
	certificateNameError = "Error: Could not analyze image."

	certificateVisionPrompt = "Analyze the provided image of a certificate. Identify and extract the exact, full name of the certificate, award, or course completed. For example: 'Google Advanced Data Analytics Professional Certificate'." +
		"\n\nRespond with a JSON object of the form {\"certificate_name\": \"<the exact, full name of the certificate or award found in the image>\"}."

	certificateSummarySystem = `You are an expert career and skills analyst. Your task is to provide a detailed summary of the skills, knowledge, and value a person has gained by completing a specific certificate.

Use the provided certificate name and search results (context) to write this summary.

The summary should be structured and easy to read. Organize it into these sections:
1.  *Core Competencies:* What key skills did they learn? (e.g., data analysis, cloud configuration, specific software)
2.  *Key Knowledge Areas:* What topics do they now understand? (e.g., machine learning principles, network security protocols)
3.  *Value & Validation:* What does this certificate prove to an employer? (e.g., proficiency in X, commitment to learning)

Do not just list the search results. Synthesize them into a coherent, positive, and detailed report.`

	certificateSummaryHuman = `Certificate Name: %s

Search Results Context:
%s

Please generate the detailed summary of what the user has gained from this certificate.`
)

type CertificateOutput struct {
	Summary string `json:"summary,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Certificate summarizes the skills behind a certificate image: read the
// name off the image, search the web for it, then write a summary.
type Certificate struct {
	*Env
	Search Searcher
	Files  FileSource
}

type certificateState struct {
	image   docs.Image
	name    string
	results []search.Result
	summary string
}

func (c *Certificate) graph() *graph.Graph[certificateState] {
	return graph.New[certificateState]("certificate", c.Log).
		Then("analyze_certificate", c.analyze).
		Then("search_tavily", c.search).
		Then("generate_summary", c.summarize)
}

// Run never returns an error for model or search failures; those degrade
// into fixed summary strings. A missing search key is an error.
func (c *Certificate) Run(ctx context.Context, imageRef string) (CertificateOutput, error) {
	if err := c.Config.RequireTavilyKey(); err != nil {
		return CertificateOutput{}, err
	}
	data, err := c.Files.ReadFile(ctx, imageRef)
	if err != nil || len(data) == 0 {
		c.Log.Warn("could not read certificate image", zap.String("path", imageRef), zap.Error(err))
		return CertificateOutput{Error: fmt.Sprintf("Could not process image at: %s", imageRef)}, nil
	}

	state := certificateState{image: docs.Image{Data: data, MIMEType: docs.MIMEByExt(imageRef)}}
	if err := c.graph().Run(ctx, &state); err != nil {
		return CertificateOutput{}, err
	}
	return CertificateOutput{Summary: state.summary}, nil
}

func (c *Certificate) analyze(ctx context.Context, s *certificateState) error {
	req := c.request("certificate.vision", llm.UserImage(certificateVisionPrompt, s.image.Data, s.image.MIMEType))
	req.JSON = true

	text, err := c.Model.Generate(ctx, req)
	if err != nil {
		c.Log.Warn("error analyzing image", zap.Error(err))
		s.name = certificateNameError
		return nil
	}
	var info struct {
		CertificateName string `json:"certificate_name"`
	}
	if err := llm.Decode(text, &info); err != nil || strings.TrimSpace(info.CertificateName) == "" {
		c.Log.Warn("error analyzing image", zap.String("response", text), zap.Error(err))
		s.name = certificateNameError
		return nil
	}
	s.name = info.CertificateName
	c.Log.Info("extracted certificate name", zap.String("name", s.name))
	return nil
}

func (c *Certificate) search(ctx context.Context, s *certificateState) error {
	if strings.Contains(s.name, "Error:") {
		c.Log.Info("skipping search due to previous error")
		return nil
	}
	query := fmt.Sprintf("what skills and knowledge are gained from completing the '%s'", s.name)
	s.results = c.Search.Search(ctx, query, search.Options{MaxResults: 5})
	c.Log.Info("search finished", zap.Int("results", len(s.results)))
	return nil
}

func (c *Certificate) summarize(ctx context.Context, s *certificateState) error {
	if strings.Contains(s.name, "Error:") {
		s.summary = "Could not generate summary because the certificate name could not be extracted from the image."
		return nil
	}
	if len(s.results) == 0 {
		s.summary = fmt.Sprintf("Could not find any reliable information online about the skills gained from '%s'.", s.name)
		return nil
	}

	blocks := make([]string, 0, len(s.results))
	for _, r := range s.results {
		if r.URL == "" || r.Content == "" {
			continue
		}
		blocks = append(blocks, fmt.Sprintf("Source URL: %s\nSnippet: %s", r.URL, r.Content))
	}

	text, err := c.generate(ctx, "certificate.summary",
		llm.System(certificateSummarySystem),
		llm.User(fmt.Sprintf(certificateSummaryHuman, s.name, strings.Join(blocks, "\n\n"))),
	)
	if err != nil {
		c.Log.Warn("error generating summary", zap.Error(err))
		s.summary = "An error occurred while generating the final summary."
		return nil
	}
	s.summary = text
	return nil
}
