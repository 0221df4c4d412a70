package scryfall

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the production Scryfall API endpoint.
	DefaultBaseURL = "https://api.scryfall.com"

	// CommanderPoolQuery selects every paper-legal commander candidate.
	CommanderPoolQuery = "t:legendary type:creature legal:commander game:paper"

	rateLimitDelay = 100 * time.Millisecond // 100ms between requests (10 req/sec)
	requestTimeout = 30 * time.Second
	maxRetries     = 3
	initialBackoff = 1 * time.Second
	maxBackoff     = 16 * time.Second
)

// Client represents a Scryfall API client with rate limiting.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	baseURL     string
	userAgent   string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint. Used by tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithUserAgent overrides the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// NewClient creates a new Scryfall API client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		// Rate limiter: 1 request per 100ms = 10 req/sec
		rateLimiter: rate.NewLimiter(rate.Every(rateLimitDelay), 1),
		baseURL:     DefaultBaseURL,
		userAgent:   "edh-anti-meta/1.0",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchAll performs a full-text card search and follows pagination until
// every page has been consumed. Results keep Scryfall's name ordering.
func (c *Client) SearchAll(ctx context.Context, query string) ([]Card, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("unique", "cards")
	params.Set("order", "name")
	params.Set("dir", "asc")

	next := fmt.Sprintf("%s/cards/search?%s", c.baseURL, params.Encode())

	var cards []Card
	for next != "" {
		var page SearchResult
		if err := c.doRequest(ctx, next, &page); err != nil {
			return nil, fmt.Errorf("failed to search cards with query %q: %w", query, err)
		}
		cards = append(cards, page.Data...)
		if !page.HasMore {
			break
		}
		next = page.NextPage
	}

	return cards, nil
}

// AllPrintings enumerates every printing of a card by following the card's
// prints_search_uri through pagination.
func (c *Client) AllPrintings(ctx context.Context, printsSearchURI string) ([]Card, error) {
	if printsSearchURI == "" {
		return nil, fmt.Errorf("empty prints search URI")
	}

	var printings []Card
	next := printsSearchURI
	for next != "" {
		var page SearchResult
		if err := c.doRequest(ctx, next, &page); err != nil {
			return nil, fmt.Errorf("failed to list printings: %w", err)
		}
		printings = append(printings, page.Data...)
		if !page.HasMore {
			break
		}
		next = page.NextPage
	}

	return printings, nil
}

// doRequest performs an HTTP request with rate limiting and retry logic.
func (c *Client) doRequest(ctx context.Context, url string, result interface{}) error {
	var lastErr error
	backoff := initialBackoff

	for attempt := 0; attempt <= maxRetries; attempt++ {
		// Wait for rate limiter
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("HTTP request failed: %w", err)

			// Retry on network errors
			if attempt < maxRetries && ctx.Err() == nil {
				time.Sleep(backoff)
				backoff = minDuration(backoff*2, maxBackoff)
				continue
			}
			return lastErr
		}

		switch resp.StatusCode {
		case http.StatusOK:
			body, err := io.ReadAll(resp.Body)
			_ = resp.Body.Close()
			if err != nil {
				return fmt.Errorf("failed to read response body: %w", err)
			}

			if err := json.Unmarshal(body, result); err != nil {
				return fmt.Errorf("failed to parse JSON response: %w", err)
			}

			return nil

		case http.StatusTooManyRequests:
			_ = resp.Body.Close()
			lastErr = fmt.Errorf("rate limited (HTTP 429)")

			if attempt < maxRetries {
				// Honor Retry-After when the server provides one
				retryAfter := resp.Header.Get("Retry-After")
				if duration, err := time.ParseDuration(retryAfter + "s"); retryAfter != "" && err == nil {
					time.Sleep(duration)
				} else {
					time.Sleep(backoff)
				}
				backoff = minDuration(backoff*2, maxBackoff)
				continue
			}
			return lastErr

		case http.StatusNotFound:
			_ = resp.Body.Close()
			return &NotFoundError{URL: url}

		default:
			body, _ := io.ReadAll(resp.Body)
			_ = resp.Body.Close()

			var apiErr APIError
			if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Details != "" {
				return &apiErr
			}

			return fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}
