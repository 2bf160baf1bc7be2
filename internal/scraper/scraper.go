package scraper

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const (
	UserAgent = "mtg-events/1.0 (github.com/pfrederiksen/mtg-events)"
	Timeout   = 30 * time.Second
)

// blockSelector lists the elements whose text forms one or more listing lines
const blockSelector = "h1, h2, h3, h4, h5, h6, p, li, pre, td"

// Scraper acquires the raw listing lines from a file or URL
type Scraper struct {
	client    *http.Client
	userAgent string
}

// New creates a new Scraper instance. An empty userAgent uses UserAgent.
func New(userAgent string) *Scraper {
	if userAgent == "" {
		userAgent = UserAgent
	}
	return &Scraper{
		client: &http.Client{
			Timeout: Timeout,
		},
		userAgent: userAgent,
	}
}

// IsURL reports whether source should be fetched over HTTP
func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Load returns the lines of source, which is a URL, an HTML file or a text file
func (s *Scraper) Load(ctx context.Context, source string) ([]string, error) {
	if IsURL(source) {
		return s.Fetch(ctx, source)
	}
	return ReadFile(source)
}

// Fetch downloads an HTML listing page and extracts its lines
func (s *Scraper) Fetch(ctx context.Context, url string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if strings.HasPrefix(resp.Header.Get("Content-Type"), "text/plain") {
		return ReadLines(resp.Body)
	}
	return ExtractLines(resp.Body)
}

// ReadFile reads a listing from disk. Files ending in .html or .htm are
// parsed as HTML; anything else is read as plain text.
func ReadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening source: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return ExtractLines(f)
	default:
		return ReadLines(f)
	}
}

// ReadLines splits plain text into lines
func ReadLines(r io.Reader) ([]string, error) {
	lines := make([]string, 0)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading source: %w", err)
	}
	return lines, nil
}

// ExtractLines turns an HTML page into listing lines. Each block element
// contributes its text, split at <br> tags. Pages without block elements
// fall back to the body text.
func ExtractLines(r io.Reader) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	doc.Find("script, style, noscript").Remove()
	doc.Find("br").Each(func(i int, br *goquery.Selection) {
		br.ReplaceWithNodes(&html.Node{Type: html.TextNode, Data: "\n"})
	})

	lines := make([]string, 0)
	blocks := doc.Find(blockSelector)
	blocks.Each(func(i int, sel *goquery.Selection) {
		// nested blocks (a <p> inside an <li>) are emitted by their outermost block
		if sel.ParentsFiltered(blockSelector).Length() > 0 {
			return
		}
		lines = appendText(lines, sel.Text())
	})

	if blocks.Length() == 0 {
		lines = appendText(lines, doc.Find("body").Text())
	}
	return lines, nil
}

func appendText(lines []string, text string) []string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
