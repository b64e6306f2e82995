package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
)

const (
	defaultBaseURL = "https://html.duckduckgo.com/html/"
	maxResults     = 3
	maxBodySize    = 2 << 20

	// DuckDuckGo rejects the default Go user agent.
	userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

	snippetClass = "result__snippet"
)

// NoResults is returned when the provider answers with zero results.
const NoResults = "no search results."

// DuckDuckGo gathers match evidence from the DuckDuckGo HTML endpoint.
// Gathering is best-effort: every failure mode comes back as text, never
// as an error, so a broken search can't abort an analysis.
type DuckDuckGo struct {
	baseURL string
	client  *http.Client
}

func NewDuckDuckGo() *DuckDuckGo {
	return &DuckDuckGo{
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// Gather fetches up to maxResults snippets for the fixture and joins them
// one per line.
func (d *DuckDuckGo) Gather(ctx context.Context, home, away string) string {
	query := fmt.Sprintf("%s vs %s match prediction stats injuries %d", home, away, time.Now().Year())

	snippets, err := d.search(ctx, query)
	if err != nil {
		return fmt.Sprintf("web search error: %v", err)
	}
	if len(snippets) == 0 {
		return NoResults
	}

	var sb strings.Builder
	for _, s := range snippets {
		sb.WriteString("- ")
		sb.WriteString(s)
		sb.WriteString("\n")
	}
	return sb.String()
}

func (d *DuckDuckGo) search(ctx context.Context, query string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.baseURL+"?q="+url.QueryEscape(query), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	doc, err := html.Parse(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, err
	}
	return collectSnippets(doc, maxResults), nil
}

func collectSnippets(doc *html.Node, limit int) []string {
	var snippets []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if len(snippets) >= limit {
			return
		}
		if n.Type == html.ElementNode && hasClass(n, snippetClass) {
			if text := strings.Join(strings.Fields(nodeText(n)), " "); text != "" {
				snippets = append(snippets, text)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return snippets
}

func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(nodeText(c))
	}
	return sb.String()
}
