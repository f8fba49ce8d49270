// Package scrape fetches public pages for the pipelines: profile pages as
// flattened text and course search results as links.
package scrape

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/justsurfingit/careerkit/internal/logging"
)

const (
	userAgent = "Mozilla/5.0"

	// MaxPageText caps the text handed to the model.
	MaxPageText = 10000

	noContent = "Could not find main content."
)

// Renderer produces the HTML of a page after its scripts ran.
type Renderer interface {
	Render(ctx context.Context, url string) (string, error)
}

type Fetcher struct {
	Timeout  time.Duration
	Renderer Renderer
	Log      *zap.Logger
}

func NewFetcher(log *zap.Logger) *Fetcher {
	return &Fetcher{Timeout: 15 * time.Second, Log: logging.OrNop(log)}
}

// collector returns a fresh collector whose requests are cancelled with ctx.
func (f *Fetcher) collector(ctx context.Context) *colly.Collector {
	c := colly.NewCollector(colly.UserAgent(userAgent), colly.AllowURLRevisit(), colly.StdlibContext(ctx))
	c.SetRequestTimeout(f.Timeout)
	return c
}

// PageText returns the whitespace-collapsed text of the page body, truncated
// to MaxPageText characters. HTTP errors are returned.
func (f *Fetcher) PageText(ctx context.Context, url string) (string, error) {
	if url == "" {
		return "", errNoURL
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var page []byte
	if f.Renderer != nil {
		rendered, err := f.Renderer.Render(ctx, url)
		if err != nil {
			return "", err
		}
		page = []byte(rendered)
	} else {
		c := f.collector(ctx)
		c.OnResponse(func(r *colly.Response) {
			page = r.Body
		})
		if err := c.Visit(url); err != nil {
			return "", err
		}
	}
	f.Log.Debug("page fetched", zap.String("url", url), zap.Int("bytes", len(page)))

	// html.Parse always synthesises a body, so a page without a body tag
	// counts as having none.
	if !bytes.Contains(bytes.ToLower(page), []byte("<body")) {
		return noContent, nil
	}
	doc, err := html.ParseWithOptions(bytes.NewReader(page), html.ParseOptionEnableScripting(false))
	if err != nil {
		return "", err
	}
	body := findBody(doc)
	if body == nil {
		return noContent, nil
	}
	return truncate(strings.Join(textNodes(body), " "), MaxPageText), nil
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}

func textNodes(n *html.Node) []string {
	var out []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Template:
				return
			}
		}
		if n.Type == html.TextNode {
			// strings.Fields collapses every run of whitespace.
			if words := strings.Fields(n.Data); len(words) > 0 {
				out = append(out, strings.Join(words, " "))
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

var errNoURL = errors.New("url is required")
