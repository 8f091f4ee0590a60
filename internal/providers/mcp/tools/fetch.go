package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/inbucket/html2text"
	"github.com/sandevgo/scoutbot/internal/core"
	"github.com/sandevgo/scoutbot/pkg/retry"
)

// Pages are truncated at the cap; anything past it never reaches the
// model.
const (
	maxResponseSize     = 1 << 20
	defaultFetchTimeout = 15 * time.Second
)

const fetchVenuePageSchema = `{
  "type": "object",
  "properties": {
    "url": {"type": "string", "description": "The page URL to fetch"}
  },
  "required": ["url"]
}`

// Fetch turns venue and listing pages into plain text the model can
// read. Transient upstream failures are retried.
type Fetch struct {
	client  *http.Client
	retrier *retry.Retrier
}

func NewFetch() *Fetch {
	return NewFetchWithTimeout(defaultFetchTimeout, nil)
}

func NewFetchWithTimeout(timeout time.Duration, retryCfg *retry.Config) *Fetch {
	if retryCfg == nil {
		retryCfg = retry.NewDefaultConfig()
	}
	return &Fetch{
		client:  &http.Client{Timeout: timeout},
		retrier: retry.NewRetrier(retryCfg),
	}
}

type fetchArgs struct {
	URL string `json:"url"`
}

func (f *Fetch) FetchVenuePage(ctx context.Context, args json.RawMessage) (string, error) {
	input, err := decodeArgs[fetchArgs](args)
	if err != nil {
		return "", err
	}

	var text string
	err = f.retrier.Do(ctx, func() error {
		got, err := f.fetchOnce(ctx, input.URL)
		if err != nil {
			return err
		}
		text = got
		return nil
	})
	if err != nil {
		return "", err
	}
	return text, nil
}

// fetchOnce performs a single GET and flattens the response.
func (f *Fetch) fetchOnce(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", core.ScoutUserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch url: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	return flattenHTML(io.LimitReader(resp.Body, maxResponseSize))
}

// flattenHTML renders markup as readable text, keeping link targets and
// table layout. Plain bodies come through as-is.
func flattenHTML(r io.Reader) (string, error) {
	text, err := html2text.FromReader(r, html2text.Options{
		OmitLinks:    false,
		PrettyTables: true,
	})
	if err != nil {
		return "", fmt.Errorf("failed to read body: %w", err)
	}
	return text, nil
}

func (f *Fetch) GetDefinitions() map[string]Definition {
	return map[string]Definition{
		"fetch_venue_page": {
			Description: "Fetch a venue or listing page and return its readable text",
			Schema:      fetchVenuePageSchema,
			Handler:     f.FetchVenuePage,
		},
	}
}
