package agents

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justsurfingit/careerkit/internal/llm/llmtest"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func TestResumeReport(t *testing.T) {
	model := llmtest.Texts(`{"name": "Asha", "skills": ["Go"]}`, "1. *Overall Summary*: solid.")
	r := NewResume(testEnv(t, model), fakeFiles{"uploads/u1/resume.jpg": pngHeader})

	out, err := r.Run(context.Background(), "uploads/u1/resume.jpg")
	require.NoError(t, err)
	assert.Equal(t, ImageReportOutput{
		ExtractedData: `{"name": "Asha", "skills": ["Go"]}`,
		Analysis:      "1. *Overall Summary*: solid.",
	}, out)

	require.Len(t, model.Requests, 2)
	extract := model.Requests[0]
	assert.Equal(t, 0.2, extract.Temperature)
	require.Len(t, extract.Messages[0].Parts, 2)
	assert.Equal(t, "image/png", extract.Messages[0].Parts[1].MIMEType, "content wins over the extension")
	assert.Contains(t, llmtest.PromptText(extract), "professional resume parsing expert")

	analysis := llmtest.PromptText(model.Requests[1])
	assert.Contains(t, analysis, "Using this extracted resume data (JSON):\n"+`{"name": "Asha", "skills": ["Go"]}`)
}

func TestTranscriptMissingFile(t *testing.T) {
	model := llmtest.Texts()
	r := NewTranscript(testEnv(t, model), fakeFiles{})

	out, err := r.Run(context.Background(), "uploads/u1/transcript.png")
	require.NoError(t, err)
	assert.Equal(t, "Transcript file not found at 'uploads/u1/transcript.png'", out.Error)
	assert.Zero(t, model.Calls())
}

func TestImageReportEmptyExtraction(t *testing.T) {
	model := llmtest.Texts("  \n")
	r := NewTranscript(testEnv(t, model), fakeFiles{"t.png": pngHeader})

	_, err := r.Run(context.Background(), "t.png")
	require.Error(t, err)
	assert.ErrorIs(t, err, errNoExtraction)
	assert.Equal(t, 1, model.Calls())
}

func TestImageReportModelError(t *testing.T) {
	model := llmtest.NewScripted(llmtest.Reply{Text: "{}"}, llmtest.Reply{Err: errors.New("quota exceeded")})
	r := NewResume(testEnv(t, model), fakeFiles{"r.png": pngHeader})

	_, err := r.Run(context.Background(), "r.png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "analyze: quota exceeded")
}
