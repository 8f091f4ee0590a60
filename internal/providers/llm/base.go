package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sandevgo/scoutbot/pkg/retry"
)

// chatTimeout is generous: reasoning models chew on a scouting brief for
// a while before the first byte arrives.
const chatTimeout = 120 * time.Second

// baseProvider carries the HTTP plumbing every vendor client shares.
type baseProvider struct {
	client  *http.Client
	retrier *retry.Retrier
	baseURL string
	apiKey  string
	model   string
}

func newBaseProvider(baseURL, apiKey, model string) baseProvider {
	return baseProvider{
		client: &http.Client{Timeout: chatTimeout},
		retrier: retry.NewRetrier(&retry.Config{
			MaxRetries:    2,
			BackoffFactor: 2,
			InitialDelay:  250 * time.Millisecond,
			MaxDelay:      2 * time.Second,
			Jitter:        50 * time.Millisecond,
		}),
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
	}
}

func (b *baseProvider) doRequest(ctx context.Context, method, path string, body any, headers map[string]string) (*http.Response, error) {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, payload)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	return resp, nil
}

// doGet retries transport errors. Only idempotent requests go through
// here; a chat round must never run twice.
func (b *baseProvider) doGet(ctx context.Context, path string, headers map[string]string) (*http.Response, error) {
	var resp *http.Response
	err := b.retrier.Do(ctx, func() error {
		var reqErr error
		resp, reqErr = b.doRequest(ctx, http.MethodGet, path, nil, headers)
		return reqErr
	})
	return resp, err
}
