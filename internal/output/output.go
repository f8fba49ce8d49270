// Package output writes pipeline results for the CLI: JSON documents on
// stdout, or the Markdown part of a result rendered for the terminal.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
)

const (
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// Markdowner is implemented by results that carry a human-readable report.
type Markdowner interface {
	Markdown() string
}

type Printer struct {
	Out    io.Writer
	Format string
	Width  int
}

func NewPrinter(out io.Writer, format string) (*Printer, error) {
	switch format {
	case "", FormatJSON:
		format = FormatJSON
	case FormatMarkdown:
	default:
		return nil, fmt.Errorf("unknown output format %q (want json or markdown)", format)
	}
	return &Printer{Out: out, Format: format, Width: 100}, nil
}

// Print writes v as JSON, or as rendered Markdown when the printer is in
// markdown mode and v has a non-empty report.
func (p *Printer) Print(v any) error {
	if p.Format == FormatMarkdown {
		if md, ok := v.(Markdowner); ok && md.Markdown() != "" {
			out, err := Render(md.Markdown(), p.Width)
			if err != nil {
				return err
			}
			_, err = io.WriteString(p.Out, out)
			return err
		}
	}
	return p.JSON(v)
}

// JSON writes v indented, without HTML escaping.
func (p *Printer) JSON(v any) error {
	return WriteJSON(p.Out, v)
}

// Error writes {"error": msg}.
func (p *Printer) Error(msg string) error {
	return WriteJSON(p.Out, map[string]string{"error": msg})
}

func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Render formats Markdown for a terminal of the given width.
func Render(markdown string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("notty"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("markdown renderer: %w", err)
	}
	return r.Render(markdown)
}

// Report pairs a result document with its Markdown report.
type Report struct {
	Doc  any
	Text string
}

func (r Report) Markdown() string { return r.Text }

func (r Report) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r.Doc); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
