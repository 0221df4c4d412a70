// Package edhrec looks up as-commander deck counts on EDHREC commander pages.
package edhrec

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const requestTimeout = 30 * time.Second

// decksRE matches the deck-count marker on a commander page, e.g.
// "1,234 decks".
var decksRE = regexp.MustCompile(`(?i)(\d[\d,]*)\s+decks`)

// Client fetches EDHREC commander pages. Redirects are followed so the route
// URL resolves to the commander's canonical page.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates an EDHREC page client.
func NewClient(userAgent string) *Client {
	if userAgent == "" {
		userAgent = "edh-anti-meta/1.0"
	}
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		userAgent:  userAgent,
	}
}

// Lookup fetches the page at pageURL and extracts the deck count. It returns
// the final URL after redirects for display. Any failure (network, status,
// missing marker) is returned as an error; there is no retry here.
func (c *Client) Lookup(ctx context.Context, pageURL string) (int, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return 0, pageURL, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, pageURL, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	finalURL := pageURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	if resp.StatusCode != http.StatusOK {
		return 0, finalURL, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, finalURL, fmt.Errorf("failed to read response body: %w", err)
	}

	decks, err := ExtractDeckCount(string(body))
	if err != nil {
		return 0, finalURL, err
	}
	return decks, finalURL, nil
}

// ExtractDeckCount pulls the deck count out of commander page HTML. A page
// without the marker is an error, never zero: "0 decks" appears literally on
// unplayed commanders, so a missing marker means the page is not a commander
// page at all.
func ExtractDeckCount(html string) (int, error) {
	m := decksRE.FindStringSubmatch(html)
	if m == nil {
		return 0, fmt.Errorf("no deck count found in page")
	}
	n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
	if err != nil {
		return 0, fmt.Errorf("failed to parse deck count %q: %w", m[1], err)
	}
	return n, nil
}
