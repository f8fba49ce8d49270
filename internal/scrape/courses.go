package scrape

import (
	"context"
	"net/url"
	"strings"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

const courseraBase = "https://www.coursera.org"

type Course struct {
	Platform string `json:"platform"`
	Title    string `json:"title"`
	Desc     string `json:"desc"`
	URL      string `json:"url"`
}

// CourseFinder searches the Coursera catalogue.
type CourseFinder struct {
	*Fetcher
	BaseURL string
	Limit   int
}

func NewCourseFinder(f *Fetcher) *CourseFinder {
	return &CourseFinder{Fetcher: f, BaseURL: courseraBase, Limit: 2}
}

// SearchURL builds the catalogue search URL; spaces become '+'.
func (cf *CourseFinder) SearchURL(query string) string {
	return cf.BaseURL + "/search?query=" + strings.ReplaceAll(url.PathEscape(query), "%20", "+")
}

// FindCourses returns up to Limit course links for query. Scrape failures
// are logged and produce an empty list.
func (cf *CourseFinder) FindCourses(ctx context.Context, query string) []Course {
	if ctx.Err() != nil {
		return nil
	}

	var courses []Course
	c := cf.collector(ctx)
	c.OnHTML("a[href]", func(e *colly.HTMLElement) {
		if len(courses) >= cf.Limit {
			return
		}
		href := e.Attr("href")
		if !strings.Contains(href, "/learn/") {
			return
		}
		title := strings.TrimSpace(e.Attr("aria-label"))
		if title == "" {
			title = strings.TrimSpace(e.Text)
		}
		if title == "" {
			return
		}
		if !strings.HasPrefix(href, "http") {
			href = cf.BaseURL + href
		}
		courses = append(courses, Course{Platform: "Coursera", Title: title, URL: href})
	})

	if err := c.Visit(cf.SearchURL(query)); err != nil {
		cf.Log.Warn("coursera search failed", zap.String("query", query), zap.Error(err))
		return nil
	}
	return courses
}
